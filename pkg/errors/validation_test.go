package errors

import (
	"strings"
	"testing"
)

func TestValidateTopicmapName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "Research", false},
		{"unicode", "Übersicht", false},
		{"control", "bad\x01name", true},
		{"too long", strings.Repeat("a", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTopicmapName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTopicmapName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		schemes []string
		wantErr bool
	}{
		{"http", "http://localhost:8080", []string{"http", "https"}, false},
		{"websocket", "ws://localhost:8080/ws", []string{"ws", "wss"}, false},
		{"wrong scheme", "ftp://example.com", []string{"http", "https"}, true},
		{"no host", "http://", []string{"http"}, true},
		{"empty", "", nil, true},
		{"any scheme", "redis://cache:6379", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
