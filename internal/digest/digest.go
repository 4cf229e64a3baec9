// Package digest computes content fingerprints used in output file names.
//
// Fingerprints depend only on the bytes passed in, never on file metadata or paths,
// so identical content produces identical names on every platform.
package digest

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Supported algorithms.
const (
	SHA1   = "sha1"
	SHA256 = "sha256"
	BLAKE3 = "blake3"
)

// Valid reports whether algo names a supported algorithm.
func Valid(algo string) bool {
	switch algo {
	case SHA1, SHA256, BLAKE3:
		return true
	}
	return false
}

// Sum returns the full hex digest of data.
func Sum(algo string, data []byte) (string, error) {
	switch algo {
	case SHA1:
		h := sha1.Sum(data)
		return hex.EncodeToString(h[:]), nil
	case SHA256:
		h := sha256.Sum256(data)
		return hex.EncodeToString(h[:]), nil
	case BLAKE3:
		h := blake3.Sum256(data)
		return hex.EncodeToString(h[:]), nil
	default:
		return "", fmt.Errorf("unknown hash algorithm %q", algo)
	}
}

// Fingerprint returns the hex digest of data truncated to length characters.
// A length larger than the digest returns the whole digest.
func Fingerprint(algo string, data []byte, length int) (string, error) {
	sum, err := Sum(algo, data)
	if err != nil {
		return "", err
	}
	if length < 0 {
		length = 0
	}
	if length > len(sum) {
		return sum, nil
	}
	return sum[:length], nil
}
