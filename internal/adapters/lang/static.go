package lang

import (
	"strings"

	"push-channel-sync/internal/domain"
)

// StaticProvider возвращает активный язык, заданный конфигурацией. Выбор
// языка — ответственность внешнего сервиса локализации, здесь только
// нормализация кода.
type StaticProvider struct {
	code string
}

var _ domain.LanguageProvider = (*StaticProvider)(nil)

// NewStatic создаёт провайдер языка. Пустой код заменяется на "en".
func NewStatic(code string) *StaticProvider {
	return &StaticProvider{code: Normalize(code)}
}

// Language возвращает код активного языка.
func (p *StaticProvider) Language() string {
	return p.code
}

// Normalize приводит код языка к нижнему регистру без региональной части:
// "ru-RU" -> "ru".
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "en"
	}
	if idx := strings.IndexAny(code, "-_"); idx > 0 {
		code = code[:idx]
	}
	return code
}
