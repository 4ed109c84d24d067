package channels

import "push-channel-sync/internal/domain"

// defaultPriority применяется когда payload не содержит поля pri.
const defaultPriority = 6

// ImportanceForPriority переводит числовой приоритет (0–10) в уровень
// важности по фиксированным порогам. Значения вне диапазона не валидируются.
func ImportanceForPriority(priority int) domain.Importance {
	switch {
	case priority > 9:
		return domain.ImportanceMax
	case priority > 7:
		return domain.ImportanceHigh
	case priority > 5:
		return domain.ImportanceDefault
	case priority > 3:
		return domain.ImportanceLow
	case priority > 1:
		return domain.ImportanceMin
	}
	return domain.ImportanceNone
}
