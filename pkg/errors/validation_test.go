package errors

import (
	"strings"
	"testing"
)

func TestValidateSource(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative file", "graphs/lil.gfa", false},
		{"absolute file", "/data/chr1.gfa.gz", false},
		{"http url", "http://localhost:8080/lil.gfa", false},
		{"https url", "https://example.org/graph.gfa", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "foo\x00.gfa", true},
		{"newline", "foo\n.gfa", true},
		{"url without host", "http:///lil.gfa", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSource(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSource(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSource) && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("unexpected code %v", GetCode(err))
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://example.org/a.gfa", false},
		{"http://127.0.0.1:9000/x", false},
		{"", true},
		{"ftp://example.org/a.gfa", true},
		{"file:///etc/passwd", true},
	}

	for _, tt := range tests {
		err := ValidateURL(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
