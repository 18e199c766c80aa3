package source

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDF reads PDF files page by page with ledongthuc/pdf. When the library fails and
// FallbackPdftotext is set, poppler's pdftotext is tried instead.
type PDF struct {
	FallbackPdftotext bool
}

func (p *PDF) Name() string         { return "PDF" }
func (p *PDF) Extensions() []string { return []string{".pdf"} }

func (p *PDF) Extract(ctx context.Context, path string) (string, int, error) {
	text, pages, err := extractPDFText(path)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(ctx, path)
		pages = strings.Count(text, "\f") + 1
	}
	if err != nil {
		return "", 0, err
	}
	return text, pages, nil
}

// extractPDFText joins page texts with form feeds. Pages that fail to decode are left empty.
func extractPDFText(path string) (text string, pages int, err error) {
	defer func() {
		// ledongthuc/pdf panics on some malformed streams.
		if r := recover(); r != nil {
			text, pages, err = "", 0, fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if i > 1 {
			buf.WriteString("\f")
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(pageText)
	}
	return buf.String(), numPages, nil
}

func extractPdftotext(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return strings.TrimSuffix(string(out), "\f"), nil
}
