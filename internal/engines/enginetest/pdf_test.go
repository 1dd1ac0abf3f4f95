package enginetest

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimalPDFOffsets(t *testing.T) {
	doc := MinimalPDF("a (b) c")
	require.True(t, bytes.HasPrefix(doc, []byte("%PDF-1.4\n")))
	assert.Contains(t, string(doc), `(a \(b\) c) Tj`)

	tail := string(doc[bytes.LastIndex(doc, []byte("startxref\n"))+len("startxref\n"):])
	xref, err := strconv.Atoi(strings.SplitN(tail, "\n", 2)[0])
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc[xref:], []byte("xref\n0 6\n")))

	entries := strings.Split(string(doc[xref:]), "\n")[3:8]
	for i, e := range entries {
		off, err := strconv.Atoi(e[:10])
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(doc[off:], []byte(strconv.Itoa(i+1)+" 0 obj\n")), "object %d", i+1)
	}
}
