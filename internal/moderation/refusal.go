package moderation

import "strings"

// phrases that show up when a model declines inside an otherwise normal answer
var refusalSignatures = []string{
	"can't help with that",
	"violate",
	"prohibited",
}

var apostropheReplacer = strings.NewReplacer("’", "'", "‘", "'")

// case-insensitive substring match against the known refusal phrases
func ContainsRefusalSignature(text string) bool {
	if text == "" {
		return false
	}

	normalized := strings.ToLower(apostropheReplacer.Replace(text))

	for _, sig := range refusalSignatures {
		if strings.Contains(normalized, sig) {
			return true
		}
	}

	return false
}
