package document

import (
	"path/filepath"
	"strings"
)

// Document is the extracted text of one input file.
type Document struct {
	Path  string // Source path as listed from the folder
	Title string // Base name without extension
	Text  string // Full text, pages separated by form feeds when page-structured
	Pages int    // Page count (0 if the format has no pages)
}

// Chunk is a word-bounded piece of a document, the unit of one oracle call.
type Chunk struct {
	Index int    // Zero-based position within the document
	Text  string // Words joined with single spaces
}

// TitleFromPath strips directories and the extension from a file path.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
