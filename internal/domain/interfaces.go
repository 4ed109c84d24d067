package domain

import (
	"context"
	"encoding/json"
)

// ChannelListResult — трёхзначный результат запроса списка каналов у хоста.
// Unavailable соответствует известному безобидному дефекту хоста, при котором
// список приходит в несогласованном состоянии: фаза удаления пропускается.
type ChannelListResult struct {
	Channels    []ChannelConfig
	Unavailable bool
	Err         error
}

// NotificationHost — подсистема уведомлений хоста. Единственное разделяемое
// состояние сервиса; регистрация каналов имеет семантику create-or-update.
type NotificationHost interface {
	// CreateChannel регистрирует канал. Возвращает ErrConfigRejected, если
	// хост отклонил конфигурацию.
	CreateChannel(ctx context.Context, cfg ChannelConfig) error
	// CreateChannelGroup регистрирует группу каналов.
	CreateChannelGroup(ctx context.Context, id, name string) error
	// ListChannels возвращает текущий список каналов хоста.
	ListChannels(ctx context.Context) ChannelListResult
	// DeleteChannel удаляет канал по идентификатору.
	DeleteChannel(ctx context.Context, id string) error
	// GetChannel возвращает канал и признак его существования.
	GetChannel(ctx context.Context, id string) (ChannelConfig, bool, error)
}

// LanguageProvider возвращает код активного языка.
type LanguageProvider interface {
	Language() string
}

// SoundResolver превращает имя звука из payload в URI.
type SoundResolver interface {
	Resolve(name string) (string, bool)
}

// VibrationParser извлекает паттерн вибрации из поля vib_pt.
type VibrationParser interface {
	Parse(raw json.RawMessage) ([]int64, bool)
}

// SyncQueue — очередь заданий на синхронизацию каналов.
type SyncQueue interface {
	Enqueue(ctx context.Context, job SyncJob) error
	// Pop блокирующе читает задание. Возвращённый SyncAckFunc вызывается
	// после обработки; реализации без подтверждений возвращают no-op.
	Pop(ctx context.Context) (SyncJob, SyncAckFunc, error)
}
