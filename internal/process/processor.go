// Package process orchestrates document understanding: bytes in, a total
// ExtractionResult out. Nothing here returns an error past the boundary;
// unreadable or corrupt input degrades to a zero-confidence envelope the
// caller can inspect.
package process

import (
	"log"
	"strings"
	"unicode/utf8"

	"github.com/contaflow/docrecon/internal/domain"
	"github.com/contaflow/docrecon/internal/extract"
	"github.com/contaflow/docrecon/internal/textract"
)

// minTextLen is the threshold below which extracted text is treated as an
// unreadable document.
const minTextLen = 10

// Process extracts text from the document bytes and dispatches to the
// extractor for the declared kind. The result is always well formed:
// Success=false with Confidence=0 models "unreadable or corrupted
// document", with a human-readable reason in RawText when text extraction
// itself failed.
func Process(data []byte, kind domain.DocumentKind) domain.ExtractionResult {
	text, err := textract.Text(data)
	if err != nil {
		log.Printf("[process] text extraction failed (%s, %d bytes): %v", kind, len(data), err)
		return domain.ExtractionResult{
			Success:    false,
			Confidence: 0,
			RawText:    truncate(err.Error()),
			FileType:   kind,
		}
	}

	if len(strings.TrimSpace(text)) < minTextLen {
		return domain.ExtractionResult{
			Success:    false,
			Confidence: 0,
			RawText:    truncate(text),
			FileType:   kind,
		}
	}

	switch kind {
	case domain.KindStatement:
		txns, conf := extract.ExtractStatementLines(text)
		return domain.ExtractionResult{
			Success:      len(txns) > 0,
			Transactions: txns,
			Confidence:   conf,
			RawText:      truncate(text),
			FileType:     kind,
		}
	default:
		fields, conf := extract.ExtractInvoiceFields(text)
		return domain.ExtractionResult{
			Success:    true,
			Data:       &fields,
			Confidence: conf,
			RawText:    truncate(text),
			FileType:   domain.KindInvoice,
		}
	}
}

func truncate(s string) string {
	if len(s) <= domain.MaxRawTextLen {
		return s
	}
	// Back off to a rune boundary so diacritics never get cut in half.
	n := domain.MaxRawTextLen
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
