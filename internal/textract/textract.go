// Package textract turns raw document bytes into flattened text. PDF
// input goes through the pdf library with a row-based and a plain-text
// pass; already-extracted text passes straight through. Output is gated
// on a readability check so font-mangled PDFs produce an error instead
// of garbage downstream.
package textract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Text extracts flattened text from document bytes.
func Text(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty document")
	}

	if bytes.HasPrefix(data, []byte("%PDF")) {
		text, err := extractPDF(data)
		if err != nil {
			return "", err
		}
		if !readable(text) {
			return "", fmt.Errorf("no readable text in PDF; the file may be image-based or use custom font encodings")
		}
		return text, nil
	}

	// Not a PDF: accept it as pre-extracted text when it reads as such.
	if utf8.Valid(data) && readable(string(data)) {
		return string(data), nil
	}
	return "", fmt.Errorf("unsupported document format")
}

// extractPDF tries row-based extraction first (best layout preservation
// for statement lines) and whole-document plain text second. The library
// panics on some malformed files, so both passes run under recover.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	if r.NumPage() == 0 {
		return "", fmt.Errorf("pdf has no pages")
	}

	if text = extractByRow(r); readable(text) {
		return text, nil
	}

	plain, perr := r.GetPlainText()
	if perr == nil {
		var buf bytes.Buffer
		if _, cerr := buf.ReadFrom(plain); cerr == nil && readable(buf.String()) {
			return buf.String(), nil
		}
	}
	return text, nil
}

func extractByRow(r *pdf.Reader) string {
	var lines []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// readable requires a minimum amount of text and a high ratio of plain
// characters. Identity-encoded fonts decode into runs of exotic runes
// that pass no useful information to the extractors.
func readable(text string) bool {
	if len(strings.TrimSpace(text)) < 10 {
		return false
	}
	total, plain := 0, 0
	for _, r := range text {
		total++
		if r < 128 || unicode.IsLetter(r) || unicode.IsSpace(r) {
			plain++
		}
	}
	return total > 0 && float64(plain)/float64(total) > 0.6
}
