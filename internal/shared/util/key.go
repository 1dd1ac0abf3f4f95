package util

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
)

const ownerDirPrefix = "u-"

// OwnerDir maps an owner id such as "github:123" to the storage segment that
// groups the owner's PDFs. Raw ids never appear in file paths or bucket keys.
func OwnerDir(ownerID string) string {
	sum := sha256.Sum256([]byte("pdf-owner\x00" + ownerID))
	return ownerDirPrefix + hex.EncodeToString(sum[:16])
}

// ObjectKey is the slash-separated key both object stores save fileName under.
func ObjectKey(ownerID, fileName string) string {
	return path.Join(OwnerDir(ownerID), fileName)
}
