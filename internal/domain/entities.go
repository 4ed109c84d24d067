package domain

import "encoding/json"

// Зарезервированные идентификаторы каналов. Значения являются частью
// серверного контракта и не подлежат изменению.
const (
	// DefaultChannelID — канал по умолчанию, используется когда payload
	// не содержит собственной спецификации канала.
	DefaultChannelID = "fcm_fallback_notification_channel"
	// RestoreChannelID — канал для восстановленных уведомлений.
	RestoreChannelID = "restored_OS_notifications"
	// OwnedChannelPrefix — префикс идентификаторов, которыми владеет сервис.
	// Только такие каналы подлежат автоматическому удалению при синхронизации.
	OwnedChannelPrefix = "OS_"
	// HostReservedChannelID — системный идентификатор хоста. Хост отклоняет
	// каналы с этим id, поэтому он всегда заменяется на DefaultChannelID.
	HostReservedChannelID = "miscellaneous"
)

// DefaultChannelName используется когда имя канала не задано ни в одном языке.
const DefaultChannelName = "Miscellaneous"

// Importance — дискретный уровень важности канала уведомлений.
type Importance int

const (
	ImportanceNone Importance = iota
	ImportanceMin
	ImportanceLow
	ImportanceDefault
	ImportanceHigh
	ImportanceMax
)

// String возвращает текстовое представление уровня важности.
func (i Importance) String() string {
	switch i {
	case ImportanceNone:
		return "none"
	case ImportanceMin:
		return "min"
	case ImportanceLow:
		return "low"
	case ImportanceDefault:
		return "default"
	case ImportanceHigh:
		return "high"
	case ImportanceMax:
		return "max"
	}
	return "unknown"
}

// Visibility — видимость уведомлений канала на экране блокировки.
type Visibility int

const (
	VisibilitySecret  Visibility = -1
	VisibilityPrivate Visibility = 0
	VisibilityPublic  Visibility = 1
)

// SoundMode различает три состояния звука канала. Отсутствие поля sound и
// явное отключение звука — разные состояния, их нельзя схлопывать.
type SoundMode int

const (
	// SoundDefault — поле sound отсутствует, хост использует стандартный тон.
	SoundDefault SoundMode = iota
	// SoundSilent — звук явно отключён.
	SoundSilent
	// SoundCustom — задан собственный звук по URI.
	SoundCustom
)

// SoundPolicy описывает звуковую политику канала.
type SoundPolicy struct {
	Mode SoundMode
	URI  string
}

// ChannelPayload — внешний объект настроек канала: payload одного уведомления
// либо элемент списка при массовой синхронизации. Имена полей — серверный
// контракт.
type ChannelPayload struct {
	// Channel содержит вложенную спецификацию (ChannelSpec) либо строку с
	// JSON-объектом той же структуры — так приходит payload из FCM.
	Channel json.RawMessage `json:"chnl,omitempty"`
	// OtherChannel ссылается на канал, созданный вне сервиса.
	OtherChannel     string          `json:"oth_chnl,omitempty"`
	Priority         *int            `json:"pri,omitempty"`
	LEDColor         *string         `json:"ledc,omitempty"`
	LED              *int            `json:"led,omitempty"`
	VibrationPattern json.RawMessage `json:"vib_pt,omitempty"`
	Vibration        *int            `json:"vib,omitempty"`
	Sound            *string         `json:"sound,omitempty"`
	Visibility       *int            `json:"vis,omitempty"`
	Badge            *int            `json:"bdg,omitempty"`
	BypassDND        *int            `json:"bdnd,omitempty"`
}

// ChannelSpec — вложенная спецификация канала (поле chnl).
type ChannelSpec struct {
	ID          string                   `json:"id,omitempty"`
	Langs       map[string]LocalizedText `json:"langs,omitempty"`
	Name        string                   `json:"nm,omitempty"`
	Description string                   `json:"dscr,omitempty"`
	GroupID     string                   `json:"grp_id,omitempty"`
	GroupName   string                   `json:"grp_nm,omitempty"`
}

// LocalizedText — тексты канала для одного языка.
type LocalizedText struct {
	Name        string `json:"nm,omitempty"`
	Description string `json:"dscr,omitempty"`
	GroupName   string `json:"grp_nm,omitempty"`
}

// ResolvedText — тексты, выбранные для активного языка. Если в langs есть
// запись для активного языка, тексты берутся целиком из неё, иначе из базовых
// полей спецификации.
type ResolvedText struct {
	Name        string
	Description string
	GroupName   string
}

// ChannelConfig — полностью разрешённая конфигурация, готовая к регистрации
// на хосте. Пустой Description означает отсутствие описания.
type ChannelConfig struct {
	ID               string
	Name             string
	Description      string
	Importance       Importance
	GroupID          string
	GroupName        string
	LEDColor         *uint32
	LEDEnabled       bool
	VibrationPattern []int64
	VibrationEnabled bool
	Sound            SoundPolicy
	Visibility       Visibility
	ShowBadge        bool
	BypassDND        bool
}

// NotificationJob — контекст обработки одного уведомления.
type NotificationJob struct {
	Payload ChannelPayload
	// Restoring — задание восстанавливает ранее доставленные уведомления,
	// а не обрабатывает новое.
	Restoring bool
}

// SyncResult — множество идентификаторов, успешно зарегистрированных за один
// проход синхронизации. Живёт только на время прохода и управляет фазой
// удаления.
type SyncResult map[string]struct{}

// Add добавляет идентификатор в результат.
func (r SyncResult) Add(id string) { r[id] = struct{}{} }

// Contains сообщает, был ли идентификатор синхронизирован.
func (r SyncResult) Contains(id string) bool {
	_, ok := r[id]
	return ok
}
