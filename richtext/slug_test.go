package richtext

import "testing"

func TestSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Web Dev", "web-dev"},
		{"web-dev", "web-dev"},
		{"Hello, World!", "hello-world"},
		{"  Go 1.24 ", "go-124"},
		{"snake_case", "snake_case"},
		{"Ünïcödé Títle", "ünïcödé-títle"},
		{"日本語 タイトル", "日本語-タイトル"},
		{"C++ & Go", "c--go"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slug(tt.input); got != tt.expected {
			t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSluggerDeduplicates(t *testing.T) {
	s := NewSlugger()
	inputs := []string{"Foo", "foo", "FOO", "foo-1", "Bar"}
	want := []string{"foo", "foo-1", "foo-2", "foo-1-1", "bar"}
	for i, in := range inputs {
		if got := s.Slug(in); got != want[i] {
			t.Errorf("Slug(%q) #%d = %q, want %q", in, i, got, want[i])
		}
	}

	s.Reset()
	if got := s.Slug("foo"); got != "foo" {
		t.Errorf("after Reset, Slug(foo) = %q, want foo", got)
	}
}

func TestSluggerReserve(t *testing.T) {
	s := NewSlugger()
	s.Reserve("intro")
	if got := s.Slug("Intro"); got != "intro-1" {
		t.Errorf("Slug(Intro) = %q, want intro-1", got)
	}
}
