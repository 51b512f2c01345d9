package sentiment

import (
	"regexp"
	"strings"
)

// maxScoredChars bounds the text handed to a strategy. Transformer models
// have a hard token limit; 2000 characters is a conservative ceiling that
// also caps worst-case lexicon latency.
const maxScoredChars = 2000

var (
	urlPattern = regexp.MustCompile(`https?://\S+`)
	// Keep word characters, whitespace and basic punctuation; everything
	// else becomes a space
	noisePattern = regexp.MustCompile(`[^\w\s.,!?-]`)
)

// Preprocess cleans text before scoring: URLs are stripped, special
// characters collapse to spaces, whitespace runs collapse to one space,
// and the result is truncated to maxScoredChars.
func Preprocess(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = noisePattern.ReplaceAllString(text, " ")
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) > maxScoredChars {
		text = string(runes[:maxScoredChars])
	}

	return text
}
