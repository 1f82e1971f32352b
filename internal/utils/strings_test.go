package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty string", input: "", expected: nil},
		{name: "only spaces", input: "   ", expected: nil},
		{name: "comma only", input: ",", expected: nil},
		{name: "single origin", input: "http://localhost:3000", expected: []string{"http://localhost:3000"}},
		{
			name:     "varied spacing",
			input:    "https://a.example,  https://b.example , https://c.example",
			expected: []string{"https://a.example", "https://b.example", "https://c.example"},
		},
		{name: "trailing comma", input: "*,", expected: []string{"*"}},
		{
			name:     "multiple commas",
			input:    ",,^NSEI,,^TNX,,",
			expected: []string{"^NSEI", "^TNX"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCSV(tt.input))
		})
	}
}
