package rag

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Fingerprint is the short deterministic content hash used for chunk
// identity and dedup. Identical text always yields the same value.
func Fingerprint(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])[:8]
}

// RecordID builds the deterministic vector identifier
// {base}_{fingerprint}_{index}, where base is a filename or doc id.
// Re-indexing the same content produces the same id.
func RecordID(base, fingerprint string, index int) string {
	return fmt.Sprintf("%s_%s_%d", base, fingerprint, index)
}
