package common

import (
	"crypto/rand"
	"encoding/base64"
)

// MakeRandToken returns size random bytes encoded as unpadded base64url,
// which keeps the value safe for JSON bodies, headers and URLs.
//
// It returns an error if the random number generator fails.
func MakeRandToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
