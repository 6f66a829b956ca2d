package utils

import "testing"

func TestMaskEmail(t *testing.T) {
	orig := IsProduction
	defer func() { IsProduction = orig }()

	IsProduction = false
	if got := MaskEmail("alice@example.com"); got != "alice@example.com" {
		t.Errorf("dev MaskEmail = %q, want passthrough", got)
	}

	IsProduction = true
	if got := MaskEmail("alice@example.com"); got != "a***@example.com" {
		t.Errorf("MaskEmail = %q, want a***@example.com", got)
	}
	if got := MaskEmail("not-an-email"); got != "***" {
		t.Errorf("MaskEmail no-at = %q, want ***", got)
	}
}

func TestSanitizeMasksEmbeddedEmails(t *testing.T) {
	orig := IsProduction
	defer func() { IsProduction = orig }()
	IsProduction = true

	got := sanitize("invite sent to bob@example.com just now")
	want := "invite sent to b***@example.com just now"
	if got != want {
		t.Errorf("sanitize = %q, want %q", got, want)
	}
}
