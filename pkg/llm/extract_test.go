package llm

import (
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
		wantKey   string
	}{
		{
			name:    "bare object",
			input:   `{"title": "Engineer"}`,
			wantKey: "title",
		},
		{
			name:    "object with chatter",
			input:   "Sure! Here is the JSON:\n{\"title\": \"Engineer\"}\nLet me know if you need more.",
			wantKey: "title",
		},
		{
			name:    "multiline object",
			input:   "{\n  \"score\": 85,\n  \"reasoning\": \"good\"\n}",
			wantKey: "score",
		},
		{
			name:    "fenced object",
			input:   "```json\n{\"company\": \"Acme\"}\n```",
			wantKey: "company",
		},
		{
			name:    "nested braces",
			input:   `{"outer": {"inner": 1}}`,
			wantKey: "outer",
		},
		{
			name:      "plain text",
			input:     "I could not find any job information.",
			wantError: true,
		},
		{
			name:      "array",
			input:     `["a", "b"]`,
			wantError: true,
		},
		{
			name:      "truncated object",
			input:     `{"title": "Engineer", "company":`,
			wantError: true,
		},
		{
			// Greedy span covers both objects, which is not valid JSON.
			name:      "two objects",
			input:     `{"a": 1} and then {"b": 2}`,
			wantError: true,
		},
		{
			name:      "empty",
			input:     "",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			object, err := ExtractJSON(tt.input)

			if tt.wantError {
				if err == nil {
					t.Fatalf("Expected error, got %v", object)
				}
				parseErr, ok := err.(*ParseError)
				if !ok {
					t.Fatalf("Expected *ParseError, got %T", err)
				}
				if parseErr.Text != tt.input {
					t.Errorf("Expected ParseError to carry the input text")
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if _, ok := object[tt.wantKey]; !ok {
				t.Errorf("Expected key '%s' in %v", tt.wantKey, object)
			}
		})
	}
}

func TestStripMarkdownCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence",
			input:    "```json\n{\"test\": \"value\"}\n```",
			expected: "{\"test\": \"value\"}",
		},
		{
			name:     "bare fence",
			input:    "```\n{\"test\": \"value\"}\n```",
			expected: "{\"test\": \"value\"}",
		},
		{
			name:     "no fence",
			input:    "{\"test\": \"value\"}",
			expected: "{\"test\": \"value\"}",
		},
		{
			name:     "fence with trailing whitespace",
			input:    "```json\n{\"test\": \"value\"}  \n```\n",
			expected: "{\"test\": \"value\"}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stripMarkdownCodeFences(tt.input)
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}
