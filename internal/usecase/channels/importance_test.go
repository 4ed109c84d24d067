package channels

import (
	"testing"

	"push-channel-sync/internal/domain"
)

func TestImportanceForPriority(t *testing.T) {
	cases := map[int]domain.Importance{
		0:  domain.ImportanceNone,
		1:  domain.ImportanceNone,
		2:  domain.ImportanceMin,
		3:  domain.ImportanceMin,
		4:  domain.ImportanceLow,
		5:  domain.ImportanceLow,
		6:  domain.ImportanceDefault,
		7:  domain.ImportanceDefault,
		8:  domain.ImportanceHigh,
		9:  domain.ImportanceHigh,
		10: domain.ImportanceMax,
	}
	for priority, expected := range cases {
		if got := ImportanceForPriority(priority); got != expected {
			t.Fatalf("приоритет %d: ожидали %s, получили %s", priority, expected, got)
		}
	}
}

func TestImportanceForPriorityOutOfRange(t *testing.T) {
	if got := ImportanceForPriority(-5); got != domain.ImportanceNone {
		t.Fatalf("ожидали none для отрицательного приоритета, получили %s", got)
	}
	if got := ImportanceForPriority(100); got != domain.ImportanceMax {
		t.Fatalf("ожидали max для приоритета выше диапазона, получили %s", got)
	}
}
