package util

import (
	"strings"
	"testing"
)

func TestOwnerDir(t *testing.T) {
	got := OwnerDir("github:12345")
	if got != OwnerDir("github:12345") {
		t.Fatalf("expected stable dir, got %s", got)
	}
	if !strings.HasPrefix(got, "u-") || len(got) != 34 {
		t.Fatalf("unexpected shape %q", got)
	}
	for _, ch := range strings.TrimPrefix(got, "u-") {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("dir contains non-hex character: %c", ch)
		}
	}
	if strings.Contains(got, "12345") || got == OwnerDir("github:12346") {
		t.Fatalf("owner ids must map to distinct opaque dirs")
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("github:1", "upload-1.pdf")
	if key != OwnerDir("github:1")+"/upload-1.pdf" {
		t.Fatalf("got %q", key)
	}
}
