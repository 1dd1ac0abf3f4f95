package engines

import (
	"context"
	"time"
)

const demoFooter = "This placeholder demonstrates async processing via worker + Redis."

// PlaceholderExtractor simulates a slow engine and always succeeds.
type PlaceholderExtractor struct {
	Delay time.Duration
	Text  string
}

func NewTesseract() *PlaceholderExtractor {
	return &PlaceholderExtractor{
		Delay: 6 * time.Second,
		Text:  "[DEMO] Tesseract OCR not implemented yet.\n" + demoFooter,
	}
}

func NewMinerU() *PlaceholderExtractor {
	return &PlaceholderExtractor{
		Delay: 3 * time.Second,
		Text:  "[DEMO] MinerU engine not implemented yet.\n" + demoFooter,
	}
}

func (p *PlaceholderExtractor) Extract(ctx context.Context, _ string) (string, error) {
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return p.Text, nil
}
