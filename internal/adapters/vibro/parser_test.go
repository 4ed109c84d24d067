package vibro

import (
	"encoding/json"
	"testing"
)

func TestParseArray(t *testing.T) {
	p := NewParser()
	pattern, ok := p.Parse(json.RawMessage(`[0, 200, 100, 200]`))
	if !ok {
		t.Fatalf("ожидали успешный разбор")
	}
	if len(pattern) != 4 || pattern[1] != 200 {
		t.Fatalf("ожидали [0 200 100 200], получили %v", pattern)
	}
}

func TestParseStringEncodedArray(t *testing.T) {
	p := NewParser()
	pattern, ok := p.Parse(json.RawMessage(`"[100,50]"`))
	if !ok {
		t.Fatalf("ожидали успешный разбор строкового массива")
	}
	if len(pattern) != 2 || pattern[0] != 100 {
		t.Fatalf("ожидали [100 50], получили %v", pattern)
	}
}

func TestParseInvalid(t *testing.T) {
	p := NewParser()
	cases := []string{``, `[]`, `[-1, 200]`, `["a"]`, `{"x":1}`, `"broken`}
	for _, raw := range cases {
		if _, ok := p.Parse(json.RawMessage(raw)); ok {
			t.Fatalf("ожидали отказ для %q", raw)
		}
	}
}
