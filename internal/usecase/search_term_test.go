package usecase

import (
	"strings"
	"testing"
)

func TestExtractSearchTerm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "drops prep note after comma",
			input: "chicken breast, diced",
			want:  "chicken breast",
		},
		{
			name:  "strips descriptor stop words",
			input: "fresh organic baby spinach",
			want:  "baby spinach",
		},
		{
			name:  "replaces dashes with spaces",
			input: "extra-virgin olive oil",
			want:  "virgin olive oil",
		},
		{
			name:  "keeps only first three tokens",
			input: "boneless skinless chicken thigh fillets with herbs",
			want:  "chicken thigh fillets",
		},
		{
			name:  "drops short tokens",
			input: "2 lb of beef",
			want:  "beef",
		},
		{
			name:  "lowercases",
			input: "Heavy Cream",
			want:  "heavy cream",
		},
		{
			name:  "falls back to cleaned text when all tokens stripped",
			input: "raw, peeled",
			want:  "raw",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSearchTerm(tt.input)
			if got != tt.want {
				t.Errorf("ExtractSearchTerm(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractSearchTermNeverEmptyForNonEmptyInput(t *testing.T) {
	inputs := []string{
		"salt",
		"!!!",
		"- - -",
		"a, b",
		"   padded   ",
		strings.Repeat("very long ingredient description ", 200),
	}

	for _, input := range inputs {
		if got := ExtractSearchTerm(input); got == "" {
			t.Errorf("ExtractSearchTerm(%q) returned empty string", input)
		}
	}
}

func TestExtractSearchTermDoesNotPanic(t *testing.T) {
	// Empty and degenerate inputs must never panic
	for _, input := range []string{"", " ", ",", ",,,"} {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("ExtractSearchTerm(%q) panicked: %v", input, r)
				}
			}()
			ExtractSearchTerm(input)
		}()
	}
}
