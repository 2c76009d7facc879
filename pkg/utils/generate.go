package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// cancelTokenBytes gives 256 bits of entropy per credential.
const cancelTokenBytes = 32

// ==================== UUID ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== CANCEL TOKEN ====================

// GenerateCancelToken returns a URL-safe bearer credential and the digest that gets persisted.
// The plain token is never stored.
func GenerateCancelToken() (token string, hash string, err error) {
	buf := make([]byte, cancelTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("read random bytes: %w", err)
	}
	token = base64.RawURLEncoding.EncodeToString(buf)
	return token, HashCancelToken(token), nil
}

// HashCancelToken returns the hex SHA-256 digest used to look a token up.
func HashCancelToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CancelTokenMatches compares a presented token against a stored digest in constant time.
func CancelTokenMatches(token, storedHash string) bool {
	if token == "" || storedHash == "" {
		return false
	}
	presented := HashCancelToken(token)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(storedHash)) == 1
}
