// Package cryptox implements one-way password hashing for stored credentials.
//
// Digests are self-describing strings: the algorithm, its cost parameters
// and the per-hash random salt are encoded next to the hash itself, so
// verification needs nothing but the digest. Two algorithms are supported:
// bcrypt (default) and argon2id in the PHC string format.
package cryptox

import (
	"fmt"
	"strings"
)

// Algorithm names accepted by NewPasswordHasher.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// PasswordHasher hashes new passwords and verifies candidates against
// stored digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// NewPasswordHasher returns the hasher used for new digests. bcryptCost is
// ignored for argon2id.
func NewPasswordHasher(algorithm string, bcryptCost int) (PasswordHasher, error) {
	switch algorithm {
	case "", AlgorithmBcrypt:
		return NewBcryptHasher(bcryptCost), nil
	case AlgorithmArgon2id:
		return NewArgon2Hasher(DefaultArgon2Params), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", algorithm)
	}
}

// VerifyAny checks plaintext against a digest produced by any supported
// algorithm. Unknown or malformed digests never match.
func VerifyAny(plaintext, digest string) bool {
	switch {
	case strings.HasPrefix(digest, argon2Prefix):
		return verifyArgon2(plaintext, digest)
	case isBcryptDigest(digest):
		return verifyBcrypt(plaintext, digest)
	default:
		return false
	}
}
