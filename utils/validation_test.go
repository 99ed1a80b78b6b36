package utils

import "testing"

func TestValidatePhone(t *testing.T) {
	valid := []string{"+54 9 11 5555-1234", "(415) 555 2671", "+14155552671"}
	for _, p := range valid {
		if !ValidatePhone(p) {
			t.Fatalf("expected %q to be valid", p)
		}
	}
	invalid := []string{"", "abc", "+0123", "0"}
	for _, p := range invalid {
		if ValidatePhone(p) {
			t.Fatalf("expected %q to be invalid", p)
		}
	}
	if got := NormalizePhone("+1 (415) 555-2671"); got != "+14155552671" {
		t.Fatalf("unexpected normalized phone %q", got)
	}
}
