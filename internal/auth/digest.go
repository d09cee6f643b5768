// Package auth computes the secret digests the RoRnet handshake transmits
// in place of plaintext credentials.
package auth

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// DigestLen is the length of a secret digest: an SHA-1 digest rendered as
// uppercase hex, exactly filling the 40-byte record fields that carry it.
const DigestLen = 40

// SecretDigest returns the digest sent for a user token or server password.
// Empty secrets still digest; the server compares digests, never plaintext.
func SecretDigest(secret string) string {
	sum := sha1.Sum([]byte(secret))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
