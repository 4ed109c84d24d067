package vibro

import (
	"bytes"
	"encoding/json"

	"push-channel-sync/internal/domain"
)

// Parser извлекает паттерн вибрации из поля vib_pt. Поле приходит либо
// JSON-массивом чисел, либо строкой с таким массивом — как и chnl.
type Parser struct{}

var _ domain.VibrationParser = (*Parser)(nil)

// NewParser создаёт парсер паттернов вибрации.
func NewParser() *Parser {
	return &Parser{}
}

// Parse возвращает длительности в миллисекундах. Отрицательные значения и
// нечисловые элементы делают паттерн невалидным целиком.
func (p *Parser) Parse(raw json.RawMessage) ([]int64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false
	}
	if trimmed[0] == '"' {
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return nil, false
		}
		trimmed = []byte(encoded)
	}
	var pattern []int64
	if err := json.Unmarshal(trimmed, &pattern); err != nil {
		return nil, false
	}
	if len(pattern) == 0 {
		return nil, false
	}
	for _, ms := range pattern {
		if ms < 0 {
			return nil, false
		}
	}
	return pattern, true
}
