package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// SecureToken creates a new random token
func SecureToken() string {
	b := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(err) // rand should never fail
	}

	return removePadding(base64.URLEncoding.EncodeToString(b))
}

func removePadding(token string) string {
	return strings.TrimRight(token, "=")
}

// Sha224Digest returns the lowercase hex SHA-224 digest of key.
func Sha224Digest(key string) string {
	sum := sha256.Sum224([]byte(key))
	return hex.EncodeToString(sum[:])
}

// VerifyKeyDigest compares key against an expected hex SHA-224 digest
// in constant time.
func VerifyKeyDigest(key, digest string) error {
	computed := Sha224Digest(key)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(strings.ToLower(digest))) != 1 {
		return errors.New("key does not match expected digest")
	}
	return nil
}
