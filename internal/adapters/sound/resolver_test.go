package sound

import "testing"

func TestResolve(t *testing.T) {
	r := NewBaseURL("content://sounds/")
	uri, ok := r.Resolve("tone.mp3")
	if !ok {
		t.Fatalf("ожидали успешное разрешение")
	}
	if uri != "content://sounds/tone.mp3" {
		t.Fatalf("ожидали content://sounds/tone.mp3, получили %q", uri)
	}
}

func TestResolveRejects(t *testing.T) {
	r := NewBaseURL("content://sounds")
	cases := []string{"", "  ", "null", "nil", "../etc/passwd", `a\b`}
	for _, name := range cases {
		if _, ok := r.Resolve(name); ok {
			t.Fatalf("ожидали отказ для %q", name)
		}
	}
}
