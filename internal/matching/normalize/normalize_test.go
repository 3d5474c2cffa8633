// internal/matching/normalize/normalize_test.go
package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"simple lowercase", "bob smith", "bob smith"},
		{"mixed case", "Bob Smith", "bob smith"},
		{"punctuation becomes space", "O'Brien, Mary-Jane", "o brien mary jane"},
		{"collapses whitespace", "  Bob    Smith  ", "bob smith"},
		{"only punctuation", "...!!!", ""},
		{"keeps digits", "John Smith 2nd", "john smith 2nd"},
		{"keeps underscore", "bob_smith", "bob_smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Name(tt.input))
		})
	}
}

func TestName_Idempotent(t *testing.T) {
	inputs := []string{"", "Bob Smith", "  O'Brien,   Mary-Jane ", "Émile Zola", "a.b.c"}
	for _, s := range inputs {
		once := Name(s)
		assert.Equal(t, once, Name(once), "normalize should be idempotent for %q", s)
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"ten digits gains country code", "5551234567", "15551234567"},
		{"formatted ten digits", "(555) 123-4567", "15551234567"},
		{"eleven digits with one", "+1 555 123 4567", "15551234567"},
		{"eleven digits already bare", "15551234567", "15551234567"},
		{"short number kept bare", "123456", "123456"},
		{"long foreign number kept bare", "4420712345678", "4420712345678"},
		{"no digits", "ext.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Phone(tt.input))
		})
	}
}

func TestLastDigits(t *testing.T) {
	assert.Equal(t, "1234567", LastDigits("15551234567", 7))
	assert.Equal(t, "123", LastDigits("123", 7))
	assert.Equal(t, "", LastDigits("", 7))
}
