package chunker

import "strings"

// EstimateTokens gives a rough token count for a prompt (~1.33 tokens per English word).
// Only used for logging; the oracle limit is enforced by word count.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	tokens := int(float64(len(strings.Fields(text))) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
