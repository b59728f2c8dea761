// Package checksum fingerprints stored records.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// File returns Sum of the file at path.
func File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Sum(data), nil
}
