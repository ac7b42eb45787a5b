package validate

import (
	"errors"
	"strings"
	"testing"
)

func TestIsEmail(t *testing.T) {
	tests := map[string]bool{
		"mira@example.com":   true,
		"a.b+c@sub.host.org": true,
		"mira@localhost":     false,
		"mira example@x.io":  false,
		"@example.com":       false,
		"mira@@example.com":  false,
		"":                   false,
	}
	for in, want := range tests {
		if got := IsEmail(in); got != want {
			t.Errorf("IsEmail(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsUsername(t *testing.T) {
	tests := map[string]bool{
		"abc":                   true,
		"Mira_99":               true,
		strings.Repeat("a", 50): true,
		strings.Repeat("a", 51): false,
		"ab":                    false,
		"has space":             false,
		"dash-ed":               false,
		"名前名前":                  false,
	}
	for in, want := range tests {
		if got := IsUsername(in); got != want {
			t.Errorf("IsUsername(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsPassword(t *testing.T) {
	if IsPassword("12345") {
		t.Error("5 characters accepted")
	}
	if !IsPassword("123456") {
		t.Error("6 characters rejected")
	}
	if !IsPassword("密码密码密码") {
		t.Error("6 multi-byte characters rejected")
	}
}

func TestIsRequired(t *testing.T) {
	if IsRequired("") {
		t.Error("empty accepted")
	}
	if !IsRequired(" ") {
		t.Error("whitespace rejected")
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/a?b=c": true,
		"http://localhost:8080":     true,
		"mailto:mira@example.com":   true,
		"http://":                   false,
		"example.com":               false,
		"/relative/path":            false,
		"":                          false,
	}
	for in, want := range tests {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFieldValidators(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) error
		in   string
		want error
	}{
		{"required empty", Required, "", ErrRequired},
		{"required ok", Required, "x", nil},
		{"email empty", Email, "", ErrRequired},
		{"email bad", Email, "nope", ErrEmail},
		{"email ok", Email, "a@b.co", nil},
		{"username bad", Username, "a!", ErrUsername},
		{"username ok", Username, "mira", nil},
		{"password short", Password, "abc", ErrPassword},
		{"password ok", Password, "abcdef", nil},
		{"url bad", URL, "nope", ErrURL},
		{"url ok", URL, "https://x.io", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.fn(tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}
