package sound

import (
	"strings"

	"push-channel-sync/internal/domain"
)

// BaseURLResolver превращает имя звука из payload в URI относительно базового
// адреса хранилища звуков.
type BaseURLResolver struct {
	baseURL string
}

var _ domain.SoundResolver = (*BaseURLResolver)(nil)

// NewBaseURL создаёт резолвер звуков.
func NewBaseURL(baseURL string) *BaseURLResolver {
	return &BaseURLResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// Resolve возвращает URI звука. Пустые имена, сентинелы тишины и имена с
// разделителями пути не разрешаются.
func (r *BaseURLResolver) Resolve(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || name == "null" || name == "nil" {
		return "", false
	}
	if strings.ContainsAny(name, "/\\") {
		return "", false
	}
	return r.baseURL + "/" + name, true
}
