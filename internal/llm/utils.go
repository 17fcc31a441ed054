package llm

import (
	"strings"

	"codeberg.org/gemiwell/server/internal/config"
)

// returns the appropriate API key for the given provider
func getAPIKeyForProvider(provider Provider, baseConfig *config.Config) string {
	switch provider {
	case ProviderAnthropic:
		return baseConfig.AnthropicKey
	default:
		return baseConfig.GeminiKey
	}
}

func defaultModelFor(provider Provider) string {
	if provider == ProviderAnthropic {
		return defaultAnthropicModel
	}

	return defaultGeminiModel
}

// pulls the JSON document out of a text completion, tolerating markdown fences and chatter
func extractJSON(text string) []byte {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start == -1 || end < start {
		// not an object; hand it back so the caller's decode reports it
		return []byte(text)
	}

	return []byte(text[start : end+1])
}
