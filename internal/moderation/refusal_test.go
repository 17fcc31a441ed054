package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsRefusalSignature(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"normal advice", "Try a 20 minute walk after dinner.", false},
		{"straight apostrophe", "Sorry, I can't help with that.", true},
		{"curly apostrophe", "Sorry, I can’t help with that.", true},
		{"upper case", "THIS IS PROHIBITED", true},
		{"violation is not violate", "that would be a violation of policy", false},
		{"violates", "this violates the rules", true},
		{"cannot is not can't", "I cannot help with that", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsRefusalSignature(tt.text))
		})
	}
}
