package engines

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfextract-backend/internal/engines/enginetest"
)

func TestDefaultRegistryIDs(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"markitdown", "mineru", "tesseract"}, r.IDs())
	assert.True(t, r.Has("mineru"))
	assert.False(t, r.Has("foo"))

	_, err := r.Resolve("foo")
	require.ErrorIs(t, err, ErrUnknownEngine)
}

func TestRegisterNewEngine(t *testing.T) {
	r := Default()
	r.Register("echo", ExtractorFunc(func(_ context.Context, path string) (string, error) {
		return "echo:" + path, nil
	}))

	text, err := r.Run(context.Background(), "echo", "/tmp/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "echo:/tmp/a.pdf", text)
}

func TestRunWrapsFailuresAsExtractionErrors(t *testing.T) {
	r := NewRegistry()
	r.Register("broken", ExtractorFunc(func(context.Context, string) (string, error) {
		return "", errors.New("corrupt xref")
	}))
	r.Register("panics", ExtractorFunc(func(context.Context, string) (string, error) {
		panic("nil page")
	}))

	_, err := r.Run(context.Background(), "broken", "x.pdf")
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "broken", extErr.Engine)
	assert.Equal(t, "corrupt xref", err.Error())

	_, err = r.Run(context.Background(), "panics", "x.pdf")
	require.ErrorAs(t, err, &extErr)
	assert.Contains(t, err.Error(), "nil page")

	_, err = r.Run(context.Background(), "missing", "x.pdf")
	require.ErrorIs(t, err, ErrUnknownEngine)
	assert.False(t, errors.As(err, &extErr))
}

func TestPlaceholderTexts(t *testing.T) {
	assert.Equal(t, 6*time.Second, NewTesseract().Delay)
	assert.Equal(t, 3*time.Second, NewMinerU().Delay)

	p := NewMinerU()
	p.Delay = time.Millisecond
	text, err := p.Extract(context.Background(), "ignored.pdf")
	require.NoError(t, err)
	assert.Equal(t, "[DEMO] MinerU engine not implemented yet.\nThis placeholder demonstrates async processing via worker + Redis.", text)
}

func TestPlaceholderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTesseract().Extract(ctx, "ignored.pdf")
	require.ErrorIs(t, err, context.Canceled)
}

func TestJoinPages(t *testing.T) {
	assert.Equal(t, "one\ntwo", joinPages([]string{"  one", "two \n"}))
	assert.Equal(t, NoTextPlaceholder, joinPages([]string{" ", "\n"}))
	assert.Equal(t, NoTextPlaceholder, joinPages(nil))
}

func TestMarkitdownRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a pdf"), 0o644))

	_, err := NewMarkitdown().Extract(context.Background(), path)
	require.Error(t, err)
}

func TestMarkitdownMissingFile(t *testing.T) {
	_, err := NewMarkitdown().Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
}

func TestMarkitdownExtractsPageText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.pdf")
	require.NoError(t, os.WriteFile(path, enginetest.MinimalPDF("Hello PDF"), 0o644))

	text, err := NewMarkitdown().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello PDF")
	assert.NotEqual(t, NoTextPlaceholder, text)

	text, err = Default().Run(context.Background(), "markitdown", path)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello PDF")
}
