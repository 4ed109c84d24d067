package lang

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"ru-RU": "ru",
		"en_US": "en",
		"Fr":    "fr",
		"":      "en",
		" de ":  "de",
	}
	for input, expected := range cases {
		if got := Normalize(input); got != expected {
			t.Fatalf("ожидали %q для %q, получили %q", expected, input, got)
		}
	}
}

func TestStaticProvider(t *testing.T) {
	p := NewStatic("ru-RU")
	if p.Language() != "ru" {
		t.Fatalf("ожидали ru, получили %q", p.Language())
	}
}
