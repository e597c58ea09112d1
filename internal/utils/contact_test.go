package utils

import "testing"

func TestE164(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"+1 (555) 010-2000", "+15550102000", true},
		{"555.010.2000", "+15550102000", true},
		{"1-555-010-2000", "+15550102000", true},
		{"+44 20 7946 0958", "+442079460958", true},
		{"010-2000", "", false},
		{"+0 555 0102", "", false},
	}
	for _, tt := range tests {
		got, ok := E164(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("E164(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ada@Example.COM "); got != "ada@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestCleanText(t *testing.T) {
	if got := CleanText("  Ada \t Lovelace\n"); got != "Ada Lovelace" {
		t.Errorf("CleanText() = %q", got)
	}
}
