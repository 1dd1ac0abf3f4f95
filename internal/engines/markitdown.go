package engines

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NoTextPlaceholder is returned when a PDF has no extractable text layer.
const NoTextPlaceholder = "[No extractable text found]"

// MarkitdownExtractor reads the PDF text layer page by page.
type MarkitdownExtractor struct{}

func NewMarkitdown() *MarkitdownExtractor { return &MarkitdownExtractor{} }

func (m *MarkitdownExtractor) Extract(ctx context.Context, path string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, reader, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			_ = f.Close()
		}
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	// The pdf reader panics on some malformed streams.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("read pdf: %v", rec)
		}
	}()

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, content)
	}
	return joinPages(pages), nil
}

func joinPages(pages []string) string {
	text := strings.TrimSpace(strings.Join(pages, "\n"))
	if text == "" {
		return NoTextPlaceholder
	}
	return text
}
