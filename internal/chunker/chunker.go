package chunker

import (
	"iter"
	"strings"

	"github.com/dgallion1/docoutline/internal/document"
)

// DefaultMaxWords is the chunk size used when the caller passes a non-positive limit.
const DefaultMaxWords = 300

// Split cuts text into consecutive pieces of at most maxWords whitespace-delimited words.
// The sequence is lazy and can be ranged over any number of times; each pass yields the
// same chunks. Words are never split, so a chunk never mixes partial tokens.
func Split(text string, maxWords int) iter.Seq[document.Chunk] {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return func(yield func(document.Chunk) bool) {
		words := strings.Fields(text)
		for i, start := 0, 0; start < len(words); i, start = i+1, start+maxWords {
			end := min(start+maxWords, len(words))
			if !yield(document.Chunk{Index: i, Text: strings.Join(words[start:end], " ")}) {
				return
			}
		}
	}
}

// Count returns how many chunks Split will produce: ceil(words / maxWords).
func Count(text string, maxWords int) int {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	n := len(strings.Fields(text))
	return (n + maxWords - 1) / maxWords
}
