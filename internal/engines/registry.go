// Package engines maps engine ids to text extraction strategies.
package engines

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownEngine is returned when no extractor is registered under an id.
var ErrUnknownEngine = errors.New("unknown engine")

// Engine ids served by the default registry.
const (
	Markitdown = "markitdown"
	Tesseract  = "tesseract"
	MinerU     = "mineru"
)

// Extractor turns the PDF at path into text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, path string) (string, error)

func (f ExtractorFunc) Extract(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// ExtractionError wraps a failure raised inside an engine.
type ExtractionError struct {
	Engine string
	Err    error
}

func (e *ExtractionError) Error() string {
	return e.Err.Error()
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Registry holds the engines a deployment accepts.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
}

func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]Extractor)}
}

// Default returns a registry with the built-in engines.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Markitdown, NewMarkitdown())
	r.Register(Tesseract, NewTesseract())
	r.Register(MinerU, NewMinerU())
	return r
}

// Register adds or replaces the extractor for id.
func (r *Registry) Register(id string, e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[id] = e
}

func (r *Registry) Resolve(id string) (Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, id)
	}
	return e, nil
}

func (r *Registry) Has(id string) bool {
	_, err := r.Resolve(id)
	return err == nil
}

// IDs lists the registered engine ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.extractors))
	for id := range r.extractors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Run resolves id and extracts path, converting engine failures and panics
// into *ExtractionError. ErrUnknownEngine is returned unwrapped.
func (r *Registry) Run(ctx context.Context, id, path string) (text string, err error) {
	e, err := r.Resolve(id)
	if err != nil {
		return "", err
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = &ExtractionError{Engine: id, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()
	text, err = e.Extract(ctx, path)
	if err != nil {
		return "", &ExtractionError{Engine: id, Err: err}
	}
	return text, nil
}
