package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"push-channel-sync/internal/domain"
	"push-channel-sync/internal/infra/metrics"
)

var hexColorRegex = regexp.MustCompile(`^[A-Fa-f0-9]{8}$`)

// fallbackLEDColor подставляется вместо некорректного значения ledc.
const fallbackLEDColor = "FFFFFFFF"

// Service разрешает спецификации каналов и сводит состояние хоста к
// серверному. Собственного состояния не хранит; все побочные эффекты
// происходят через хост.
type Service struct {
	host      domain.NotificationHost
	lang      domain.LanguageProvider
	sounds    domain.SoundResolver
	vibro     domain.VibrationParser
	supported bool
	log       zerolog.Logger
}

// NewService создаёт сервис каналов. supported — поддерживает ли хост каналы;
// флаг вычисляется вызывающей стороной один раз.
func NewService(host domain.NotificationHost, lang domain.LanguageProvider, sounds domain.SoundResolver, vibro domain.VibrationParser, supported bool, logger zerolog.Logger) *Service {
	return &Service{host: host, lang: lang, sounds: sounds, vibro: vibro, supported: supported, log: logger}
}

// EnsureChannel возвращает идентификатор канала для задания, создавая канал
// на хосте при необходимости. Порядок строгий: восстановление, внешний канал,
// отсутствие спецификации, спецификация из payload.
func (s *Service) EnsureChannel(ctx context.Context, job domain.NotificationJob) string {
	if !s.supported {
		return domain.DefaultChannelID
	}

	if job.Restoring {
		return s.ensureRestoreChannel(ctx)
	}

	// Каналы, созданные вне сервиса, используются как есть — но только если
	// уже существуют на хосте.
	if job.Payload.OtherChannel != "" {
		if _, ok, err := s.host.GetChannel(ctx, job.Payload.OtherChannel); err != nil {
			s.log.Error().Err(err).Str("channel_id", job.Payload.OtherChannel).Msg("не удалось проверить внешний канал")
		} else if ok {
			return job.Payload.OtherChannel
		}
	}

	if len(job.Payload.Channel) == 0 {
		return s.ensureDefaultChannel(ctx)
	}

	spec, err := decodeSpec(job.Payload.Channel)
	if err != nil {
		s.log.Error().Err(err).Msg("не удалось разобрать спецификацию канала")
		return domain.DefaultChannelID
	}

	id, _ := s.createChannel(ctx, job.Payload, spec)
	return id
}

// SyncChannelList сводит каналы хоста к переданному списку спецификаций:
// регистрирует каждую, затем удаляет собственные каналы, которых в списке
// больше нет. Каналы без префикса OwnedChannelPrefix никогда не трогает.
func (s *Service) SyncChannelList(ctx context.Context, list []domain.ChannelPayload) (domain.SyncResult, error) {
	synced := make(domain.SyncResult, len(list))
	if !s.supported || len(list) == 0 {
		return synced, nil
	}

	start := time.Now()
	defer func() { metrics.ObserveSync(start) }()

	for _, payload := range list {
		spec, err := decodeSpec(payload.Channel)
		if err != nil {
			s.log.Error().Err(err).Msg("не удалось разобрать спецификацию канала")
			continue
		}
		if id, ok := s.createChannel(ctx, payload, spec); ok {
			synced.Add(id)
			metrics.IncChannelSynced()
		}
	}

	// Пустой результат — не команда "удалить всё": либо payload пуст, либо
	// все регистрации провалились.
	if len(synced) == 0 {
		return synced, nil
	}

	result := s.host.ListChannels(ctx)
	switch {
	case result.Unavailable:
		s.log.Error().Msg("хост вернул несогласованный список каналов, фаза удаления пропущена")
		return synced, nil
	case result.Err != nil:
		if errors.Is(result.Err, domain.ErrHostShutdown) {
			return synced, nil
		}
		return synced, fmt.Errorf("получение списка каналов: %w", result.Err)
	}

	for _, existing := range result.Channels {
		if !strings.HasPrefix(existing.ID, domain.OwnedChannelPrefix) {
			continue
		}
		if synced.Contains(existing.ID) {
			continue
		}
		if err := s.host.DeleteChannel(ctx, existing.ID); err != nil {
			s.log.Error().Err(err).Str("channel_id", existing.ID).Msg("не удалось удалить канал")
			continue
		}
		metrics.IncChannelDeleted()
	}

	return synced, nil
}

// createChannel собирает конфигурацию, при необходимости регистрирует группу
// и сам канал. Возвращает итоговый идентификатор и признак успешной
// регистрации; отказ хоста не прерывает пакетную синхронизацию.
func (s *Service) createChannel(ctx context.Context, payload domain.ChannelPayload, spec domain.ChannelSpec) (string, bool) {
	cfg := s.buildConfig(payload, spec)

	if cfg.GroupID != "" {
		if err := s.host.CreateChannelGroup(ctx, cfg.GroupID, cfg.GroupName); err != nil {
			s.log.Error().Err(err).Str("group_id", cfg.GroupID).Msg("не удалось создать группу каналов")
		}
	}

	s.log.Debug().Interface("config", cfg).Msg("регистрация канала уведомлений")
	if err := s.host.CreateChannel(ctx, cfg); err != nil {
		s.log.Error().Err(err).Interface("config", cfg).Msg("хост отклонил канал")
		metrics.IncChannelRejected()
		return cfg.ID, false
	}
	return cfg.ID, true
}

// buildConfig разрешает все поля конфигурации из payload и спецификации.
// Поля pri, ledc, led, vib_pt, vib, sound, vis, bdg, bdnd живут во внешнем
// объекте; id, langs, тексты и группа — во вложенной спецификации.
func (s *Service) buildConfig(payload domain.ChannelPayload, spec domain.ChannelSpec) domain.ChannelConfig {
	id := spec.ID
	if id == "" || id == domain.HostReservedChannelID {
		id = domain.DefaultChannelID
	}

	text := ResolveText(spec, s.lang.Language())

	cfg := domain.ChannelConfig{
		ID:               id,
		Name:             text.Name,
		Description:      text.Description,
		Importance:       ImportanceForPriority(intOrDefault(payload.Priority, defaultPriority)),
		GroupID:          spec.GroupID,
		GroupName:        text.GroupName,
		LEDEnabled:       flagOrDefault(payload.LED, true),
		VibrationEnabled: flagOrDefault(payload.Vibration, true),
		Sound:            s.resolveSound(payload.Sound),
		Visibility:       domain.Visibility(intOrDefault(payload.Visibility, int(domain.VisibilityPrivate))),
		ShowBadge:        flagOrDefault(payload.Badge, true),
		BypassDND:        flagOrDefault(payload.BypassDND, false),
	}

	if payload.LEDColor != nil {
		cfg.LEDColor = s.resolveLEDColor(*payload.LEDColor)
	}
	if len(payload.VibrationPattern) > 0 {
		if pattern, ok := s.vibro.Parse(payload.VibrationPattern); ok {
			cfg.VibrationPattern = pattern
		}
	}

	return cfg
}

// resolveLEDColor проверяет и разбирает ARGB-значение. Некорректный формат
// заменяется непрозрачным белым; если разбор не удался и после замены, цвет
// остаётся незаданным.
func (s *Service) resolveLEDColor(raw string) *uint32 {
	if !hexColorRegex.MatchString(raw) {
		s.log.Warn().Str("ledc", raw).Msg("некорректный формат ARGB, ожидается 8 hex-символов (например FF9900FF)")
		raw = fallbackLEDColor
	}
	value, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		s.log.Error().Err(err).Str("ledc", raw).Msg("не удалось разобрать ARGB значение")
		return nil
	}
	color := uint32(value)
	return &color
}

// resolveSound реализует трёхзначную звуковую политику: отсутствие поля —
// стандартный тон, сентинел "null"/"nil" или неразрешимое имя — тишина,
// разрешённое имя — собственный звук.
func (s *Service) resolveSound(sound *string) domain.SoundPolicy {
	if sound == nil {
		return domain.SoundPolicy{Mode: domain.SoundDefault}
	}
	if *sound == "null" || *sound == "nil" {
		return domain.SoundPolicy{Mode: domain.SoundSilent}
	}
	if uri, ok := s.sounds.Resolve(*sound); ok {
		return domain.SoundPolicy{Mode: domain.SoundCustom, URI: uri}
	}
	return domain.SoundPolicy{Mode: domain.SoundSilent}
}

func (s *Service) ensureDefaultChannel(ctx context.Context) string {
	cfg := domain.ChannelConfig{
		ID:               domain.DefaultChannelID,
		Name:             domain.DefaultChannelName,
		Importance:       domain.ImportanceDefault,
		LEDEnabled:       true,
		VibrationEnabled: true,
		Visibility:       domain.VisibilityPrivate,
		ShowBadge:        true,
	}
	if err := s.host.CreateChannel(ctx, cfg); err != nil {
		s.log.Error().Err(err).Msg("не удалось создать канал по умолчанию")
	}
	return domain.DefaultChannelID
}

func (s *Service) ensureRestoreChannel(ctx context.Context) string {
	cfg := domain.ChannelConfig{
		ID:         domain.RestoreChannelID,
		Name:       "Restored",
		Importance: domain.ImportanceLow,
		Visibility: domain.VisibilityPrivate,
		ShowBadge:  true,
	}
	if err := s.host.CreateChannel(ctx, cfg); err != nil {
		s.log.Error().Err(err).Msg("не удалось создать канал восстановления")
	}
	return domain.RestoreChannelID
}

// decodeSpec разбирает поле chnl: из FCM оно приходит строкой с JSON-объектом,
// при холодном старте — самим объектом.
func decodeSpec(raw json.RawMessage) (domain.ChannelSpec, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return domain.ChannelSpec{}, errors.New("пустая спецификация канала")
	}
	if trimmed[0] == '"' {
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return domain.ChannelSpec{}, fmt.Errorf("декодирование строки chnl: %w", err)
		}
		trimmed = []byte(encoded)
	}
	var spec domain.ChannelSpec
	if err := json.Unmarshal(trimmed, &spec); err != nil {
		return domain.ChannelSpec{}, fmt.Errorf("декодирование объекта chnl: %w", err)
	}
	return spec, nil
}

func intOrDefault(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func flagOrDefault(value *int, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value == 1
}
