package s3

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfextract-backend/internal/shared/storage/object"
)

// fakeS3 serves path-style PUT and GET for a single bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeStore(t *testing.T) (*Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("AKID", "SECRET", "")),
	})
	return NewFromClient(client, "pdfs", "raw"), fake
}

func TestSaveOpenLocalPath(t *testing.T) {
	store, fake := newFakeStore(t)
	ctx := context.Background()
	pdf := []byte("%PDF-1.4\n%%EOF\n")

	key, size, err := store.Save(ctx, "1001", "u-1.pdf", strings.NewReader(string(pdf)))
	require.NoError(t, err)
	assert.Equal(t, int64(len(pdf)), size)
	assert.True(t, strings.HasSuffix(key, "/u-1.pdf"))
	assert.Contains(t, fake.objects, "pdfs/raw/"+key)

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, pdf, got)

	path, release, err := store.LocalPath(ctx, key)
	require.NoError(t, err)
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pdf, onDisk)
	release()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestOpenMissingObject(t *testing.T) {
	store, _ := newFakeStore(t)

	_, err := store.Open(context.Background(), "nobody/missing.pdf")
	assert.True(t, errors.Is(err, object.ErrNotFound), "got %v", err)

	_, _, err = store.LocalPath(context.Background(), "nobody/missing.pdf")
	assert.True(t, errors.Is(err, object.ErrNotFound))
}

func TestSaveRejectsTraversal(t *testing.T) {
	store, _ := newFakeStore(t)
	_, _, err := store.Save(context.Background(), "1001", "../etc/passwd", strings.NewReader("x"))
	assert.Error(t, err)
}
