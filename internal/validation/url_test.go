package validation

import (
	"strings"
	"testing"
)

func TestValidateAndNormalize(t *testing.T) {
	v := NewFeedURLValidator()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain https", "https://news.example.org/feed", "https://news.example.org/feed", false},
		{"scheme added", "news.example.org/feed", "https://news.example.org/feed", false},
		{"whitespace trimmed", "  https://news.example.org/feed  ", "https://news.example.org/feed", false},
		{"empty", "", "", true},
		{"bad characters", "https://news.example.org/<script>", "", true},
		{"non-http scheme", "ftp://news.example.org/feed", "", true},
		{"localhost blocked", "http://localhost:8080/feed", "", true},
		{"loopback blocked", "http://127.0.0.1/feed", "", true},
		{"private ip blocked", "http://192.168.1.10/feed", "", true},
		{"traversal blocked", "https://news.example.org/../etc/passwd", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateAndNormalize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPermissiveValidatorAllowsLocal(t *testing.T) {
	v := NewPermissiveFeedURLValidator()

	for _, input := range []string{
		"http://localhost:8787/v2",
		"http://127.0.0.1:9999/feed",
		"http://192.168.1.10/feed",
	} {
		if _, err := v.ValidateAndNormalize(input); err != nil {
			t.Errorf("permissive validator rejected %q: %v", input, err)
		}
	}
}

func TestMaxLength(t *testing.T) {
	v := NewFeedURLValidator()
	long := "https://news.example.org/" + strings.Repeat("a", 3000)

	if _, err := v.ValidateAndNormalize(long); err == nil {
		t.Error("expected error for oversized URL")
	}
}
