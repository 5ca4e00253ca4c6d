package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"a.b+tag@sub.example.org", true},
		{"missing-at.example.com", false},
		{"@example.com", false},
		{"alice@", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidateEmail(tc.email); got != tc.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, msg := ValidatePassword("short"); ok || msg == "" {
		t.Errorf("short password should fail with a message, got ok=%v msg=%q", ok, msg)
	}
	if ok, _ := ValidatePassword("longenough"); !ok {
		t.Error("8+ character password should pass")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  padded  "); got != "padded" {
		t.Errorf("expected trimmed input, got %q", got)
	}
	if got := SanitizeInput("nul\x00byte"); got != "nulbyte" {
		t.Errorf("expected null bytes removed, got %q", got)
	}
}
