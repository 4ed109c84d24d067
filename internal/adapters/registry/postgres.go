package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"push-channel-sync/internal/domain"
)

// Postgres реализует подсистему уведомлений хоста поверх pgxpool: реестр
// каналов и групп с create-or-update семантикой регистрации.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ domain.NotificationHost = (*Postgres)(nil)

// NewPostgres создаёт адаптер реестра.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS notification_channel_groups (
	id         TEXT PRIMARY KEY CHECK (id <> ''),
	name       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS notification_channels (
	id                TEXT PRIMARY KEY CHECK (id <> '' AND char_length(id) <= 254),
	name              TEXT NOT NULL CHECK (name <> ''),
	description       TEXT NOT NULL DEFAULT '',
	importance        INT NOT NULL,
	group_id          TEXT,
	group_name        TEXT NOT NULL DEFAULT '',
	led_color         BIGINT,
	led_enabled       BOOLEAN NOT NULL,
	vibration_pattern BIGINT[],
	vibration_enabled BOOLEAN NOT NULL,
	sound_mode        INT NOT NULL,
	sound_uri         TEXT NOT NULL DEFAULT '',
	visibility        INT NOT NULL,
	show_badge        BOOLEAN NOT NULL,
	bypass_dnd        BOOLEAN NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (p *Postgres) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// EnsureSchema создаёт таблицы реестра, если их ещё нет.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("создание схемы реестра: %w", err)
	}
	return nil
}

// CreateChannel регистрирует канал, обновляя существующий с тем же id.
// Нарушения ограничений таблицы транслируются в ErrConfigRejected.
func (p *Postgres) CreateChannel(ctx context.Context, cfg domain.ChannelConfig) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	var ledColor sql.NullInt64
	if cfg.LEDColor != nil {
		ledColor = sql.NullInt64{Int64: int64(*cfg.LEDColor), Valid: true}
	}
	var groupID sql.NullString
	if cfg.GroupID != "" {
		groupID = sql.NullString{String: cfg.GroupID, Valid: true}
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO notification_channels (
			id, name, description, importance, group_id, group_name,
			led_color, led_enabled, vibration_pattern, vibration_enabled,
			sound_mode, sound_uri, visibility, show_badge, bypass_dnd, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			importance = EXCLUDED.importance,
			group_id = EXCLUDED.group_id,
			group_name = EXCLUDED.group_name,
			led_color = EXCLUDED.led_color,
			led_enabled = EXCLUDED.led_enabled,
			vibration_pattern = EXCLUDED.vibration_pattern,
			vibration_enabled = EXCLUDED.vibration_enabled,
			sound_mode = EXCLUDED.sound_mode,
			sound_uri = EXCLUDED.sound_uri,
			visibility = EXCLUDED.visibility,
			show_badge = EXCLUDED.show_badge,
			bypass_dnd = EXCLUDED.bypass_dnd,
			updated_at = now()`,
		cfg.ID, cfg.Name, cfg.Description, int(cfg.Importance), groupID, cfg.GroupName,
		ledColor, cfg.LEDEnabled, cfg.VibrationPattern, cfg.VibrationEnabled,
		int(cfg.Sound.Mode), cfg.Sound.URI, int(cfg.Visibility), cfg.ShowBadge, cfg.BypassDND,
	)
	if err != nil {
		if rejected(err) {
			return fmt.Errorf("%w: %v", domain.ErrConfigRejected, err)
		}
		return fmt.Errorf("регистрация канала %s: %w", cfg.ID, err)
	}
	return nil
}

// CreateChannelGroup регистрирует группу каналов.
func (p *Postgres) CreateChannelGroup(ctx context.Context, id, name string) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	_, err := p.pool.Exec(ctx, `
		INSERT INTO notification_channel_groups (id, name, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = now()`,
		id, name,
	)
	if err != nil {
		if rejected(err) {
			return fmt.Errorf("%w: %v", domain.ErrConfigRejected, err)
		}
		return fmt.Errorf("регистрация группы %s: %w", id, err)
	}
	return nil
}

// ListChannels возвращает текущее содержимое реестра. У Postgres нет
// известного дефекта с несогласованным списком, поэтому Unavailable здесь
// никогда не устанавливается.
func (p *Postgres) ListChannels(ctx context.Context) domain.ChannelListResult {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, `
		SELECT id, name, description, importance, group_id, group_name,
		       led_color, led_enabled, vibration_pattern, vibration_enabled,
		       sound_mode, sound_uri, visibility, show_badge, bypass_dnd
		FROM notification_channels
		ORDER BY id`)
	if err != nil {
		return domain.ChannelListResult{Err: fmt.Errorf("выборка каналов: %w", err)}
	}
	defer rows.Close()

	var channels []domain.ChannelConfig
	for rows.Next() {
		cfg, err := scanChannel(rows)
		if err != nil {
			return domain.ChannelListResult{Err: fmt.Errorf("чтение канала: %w", err)}
		}
		channels = append(channels, cfg)
	}
	if err := rows.Err(); err != nil {
		return domain.ChannelListResult{Err: fmt.Errorf("обход каналов: %w", err)}
	}
	return domain.ChannelListResult{Channels: channels}
}

// DeleteChannel удаляет канал из реестра.
func (p *Postgres) DeleteChannel(ctx context.Context, id string) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	if _, err := p.pool.Exec(ctx, `DELETE FROM notification_channels WHERE id = $1`, id); err != nil {
		return fmt.Errorf("удаление канала %s: %w", id, err)
	}
	return nil
}

// GetChannel возвращает канал и признак его существования.
func (p *Postgres) GetChannel(ctx context.Context, id string) (domain.ChannelConfig, bool, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	row := p.pool.QueryRow(ctx, `
		SELECT id, name, description, importance, group_id, group_name,
		       led_color, led_enabled, vibration_pattern, vibration_enabled,
		       sound_mode, sound_uri, visibility, show_badge, bypass_dnd
		FROM notification_channels
		WHERE id = $1`, id)
	cfg, err := scanChannel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChannelConfig{}, false, nil
		}
		return domain.ChannelConfig{}, false, fmt.Errorf("чтение канала %s: %w", id, err)
	}
	return cfg, true, nil
}

func scanChannel(row pgx.Row) (domain.ChannelConfig, error) {
	var (
		cfg        domain.ChannelConfig
		importance int
		groupID    sql.NullString
		ledColor   sql.NullInt64
		soundMode  int
		visibility int
	)
	err := row.Scan(
		&cfg.ID, &cfg.Name, &cfg.Description, &importance, &groupID, &cfg.GroupName,
		&ledColor, &cfg.LEDEnabled, &cfg.VibrationPattern, &cfg.VibrationEnabled,
		&soundMode, &cfg.Sound.URI, &visibility, &cfg.ShowBadge, &cfg.BypassDND,
	)
	if err != nil {
		return domain.ChannelConfig{}, err
	}
	cfg.Importance = domain.Importance(importance)
	cfg.Sound.Mode = domain.SoundMode(soundMode)
	cfg.Visibility = domain.Visibility(visibility)
	if groupID.Valid {
		cfg.GroupID = groupID.String
	}
	if ledColor.Valid {
		color := uint32(ledColor.Int64)
		cfg.LEDColor = &color
	}
	return cfg, nil
}

// rejected распознаёт нарушения ограничений таблицы: классы 22 (данные) и
// 23 (целостность) означают, что конфигурация неприемлема, а не что реестр
// недоступен.
func rejected(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	class := pgErr.Code[:2]
	return class == "22" || class == "23"
}
