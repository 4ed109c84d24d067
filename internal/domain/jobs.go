package domain

import "time"

// SyncCause описывает источник задания на синхронизацию.
type SyncCause string

const (
	// SyncCausePush — спецификация пришла вместе с одиночным уведомлением.
	SyncCausePush SyncCause = "push"
	// SyncCauseColdStart — массовая синхронизация при холодном старте.
	SyncCauseColdStart SyncCause = "cold_start"
)

// SyncJob содержит задание на синхронизацию списка каналов.
type SyncJob struct {
	ID          string           `json:"job_id,omitempty"`
	Channels    []ChannelPayload `json:"channels"`
	RequestedAt time.Time        `json:"requested_at"`
	Cause       SyncCause        `json:"cause"`
}

// SyncAckFunc подтверждает обработку задания. success=false означает, что
// задание обработано неуспешно; повторная доставка не запрашивается —
// на задание даётся одна попытка.
type SyncAckFunc func(success bool) error
