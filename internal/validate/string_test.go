package validate

import (
	"errors"
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		constraints StringConstraints
		wantErr     error
		wantOutput  string
	}{
		{
			name:  "valid string within length constraints",
			input: "Hello World",
			constraints: StringConstraints{
				MinLength: 5,
				MaxLength: 20,
				TrimSpace: true,
			},
			wantOutput: "Hello World",
		},
		{
			name:  "string too short",
			input: "Hi",
			constraints: StringConstraints{
				MinLength: 5,
				MaxLength: 20,
			},
			wantErr: ErrStringTooShort,
		},
		{
			name:  "string too long",
			input: strings.Repeat("a", 101),
			constraints: StringConstraints{
				MinLength: 1,
				MaxLength: 100,
			},
			wantErr: ErrStringTooLong,
		},
		{
			name:        "empty string not allowed",
			input:       "",
			constraints: StringConstraints{},
			wantErr:     ErrEmpty,
		},
		{
			name:        "empty string allowed",
			input:       "",
			constraints: StringConstraints{AllowEmpty: true},
			wantOutput:  "",
		},
		{
			name:        "whitespace only is empty after trim",
			input:       "   ",
			constraints: StringConstraints{TrimSpace: true},
			wantErr:     ErrEmpty,
		},
		{
			name:        "trim applies before minimum",
			input:       "  ab  ",
			constraints: StringConstraints{MinLength: 3, TrimSpace: true},
			wantErr:     ErrStringTooShort,
		},
		{
			name:        "untrimmed length counts padding",
			input:       "  ab  ",
			constraints: StringConstraints{MaxLength: 5},
			wantErr:     ErrStringTooLong,
		},
		{
			name:        "multi-byte characters count once",
			input:       "ção",
			constraints: StringConstraints{MinLength: 3, MaxLength: 3},
			wantOutput:  "ção",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String(tt.input, tt.constraints)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.wantOutput {
				t.Errorf("expected %q, got %q", tt.wantOutput, got)
			}
		})
	}
}

func TestBlank(t *testing.T) {
	cases := map[string]bool{
		"":      true,
		"   ":   true,
		"\t\n":  true,
		"a":     false,
		"  a  ": false,
	}
	for input, want := range cases {
		if got := Blank(input); got != want {
			t.Errorf("Blank(%q) = %v, want %v", input, got, want)
		}
	}
}
