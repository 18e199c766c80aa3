package chunker

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/document"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestSplit_ReconstructsWordSequence(t *testing.T) {
	text := "Light  travels\tin straight\nlines.\n\nA  shadow forms   when light is blocked."
	var texts []string
	for c := range Split(text, 3) {
		texts = append(texts, c.Text)
	}
	got := strings.Join(texts, " ")
	want := strings.Join(strings.Fields(text), " ")
	if got != want {
		t.Fatalf("joined chunks = %q, want %q", got, want)
	}
}

func TestSplit_ChunkSizesAndCount(t *testing.T) {
	tests := []struct {
		name      string
		words     int
		maxWords  int
		wantCount int
		wantLast  int
	}{
		{"exact multiple", 600, 300, 2, 300},
		{"remainder", 650, 300, 3, 50},
		{"smaller than one chunk", 10, 300, 1, 10},
		{"single word chunks", 4, 1, 4, 1},
		{"empty", 0, 300, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := words(tt.words)
			chunks := slices.Collect(Split(text, tt.maxWords))
			if len(chunks) != tt.wantCount {
				t.Fatalf("expected %d chunks, got %d", tt.wantCount, len(chunks))
			}
			if Count(text, tt.maxWords) != tt.wantCount {
				t.Errorf("Count() = %d, want %d", Count(text, tt.maxWords), tt.wantCount)
			}
			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
				}
				if n := len(strings.Fields(c.Text)); n > tt.maxWords {
					t.Errorf("chunk %d: %d words exceeds max %d", i, n, tt.maxWords)
				}
			}
			if tt.wantCount > 0 {
				if n := len(strings.Fields(chunks[len(chunks)-1].Text)); n != tt.wantLast {
					t.Errorf("last chunk: expected %d words, got %d", tt.wantLast, n)
				}
			}
		})
	}
}

func TestSplit_DefaultMaxWords(t *testing.T) {
	text := words(650)
	if got := len(slices.Collect(Split(text, 0))); got != 3 {
		t.Errorf("expected default of %d words to give 3 chunks, got %d", DefaultMaxWords, got)
	}
	if got := Count(text, -5); got != 3 {
		t.Errorf("expected Count with negative limit to fall back to default, got %d", got)
	}
}

func TestSplit_Restartable(t *testing.T) {
	seq := Split(words(25), 10)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Fatalf("expected identical passes, got %v and %v", first, second)
	}
}

func TestSplit_StopsEarly(t *testing.T) {
	var seen []document.Chunk
	for c := range Split(words(100), 10) {
		seen = append(seen, c)
		if len(seen) == 2 {
			break
		}
	}
	if len(seen) != 2 {
		t.Fatalf("expected to stop after 2 chunks, got %d", len(seen))
	}
}

func TestSplit_LongTokenNotSplit(t *testing.T) {
	long := strings.Repeat("x", 5000)
	chunks := slices.Collect(Split("a "+long+" b", 2))
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "a "+long {
		t.Errorf("expected long token kept whole in first chunk")
	}
	if chunks[1].Text != "b" {
		t.Errorf("expected %q, got %q", "b", chunks[1].Text)
	}
}

func TestEstimateTokens(t *testing.T) {
	if EstimateTokens("") != 0 {
		t.Error("expected 0 tokens for empty text")
	}
	if got := EstimateTokens("one"); got != 1 {
		t.Errorf("expected 1 token for a single word, got %d", got)
	}
	if got := EstimateTokens(words(300)); got != 399 {
		t.Errorf("expected 399 tokens for 300 words, got %d", got)
	}
}
