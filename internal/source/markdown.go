package source

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Markdown reads Markdown files through the goldmark AST, dropping markup.
type Markdown struct{}

func (m *Markdown) Name() string         { return "Markdown" }
func (m *Markdown) Extensions() []string { return []string{".md", ".markdown"} }

func (m *Markdown) Extract(_ context.Context, path string) (string, int, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}
	return markdownText(src), 0, nil
}

func markdownText(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if t := blockText(n, src); t != "" {
			blocks = append(blocks, t)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// blockText returns the text of a block node. Container blocks such as lists
// and quotes have no lines of their own, so their children are visited.
func blockText(n ast.Node, src []byte) string {
	if n.Type() == ast.TypeBlock && n.Lines().Len() == 0 && n.HasChildren() {
		var parts []string
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t := blockText(c, src); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, "\n")
	}

	var buf bytes.Buffer
	switch n.Kind() {
	case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
		lines := n.Lines()
		for i := range lines.Len() {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	inlineText(&buf, n, src)
	return strings.TrimSpace(buf.String())
}

func inlineText(buf *bytes.Buffer, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.CodeSpan:
			inlineText(buf, t, src)
		default:
			inlineText(buf, c, src)
		}
	}
}
