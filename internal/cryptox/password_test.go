package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testArgon2Params = Argon2Params{Memory: 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32}

func testHashers() map[string]PasswordHasher {
	return map[string]PasswordHasher{
		"bcrypt":   NewBcryptHasher(bcrypt.MinCost),
		"argon2id": NewArgon2Hasher(testArgon2Params),
	}
}

func TestHashAndVerify(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			digest, err := h.Hash("Secret123")
			require.NoError(t, err)
			assert.NotContains(t, digest, "Secret123")

			assert.True(t, h.Verify("Secret123", digest))
			assert.False(t, h.Verify("secret123", digest))
			assert.False(t, h.Verify("", digest))
		})
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			a, err := h.Hash("same-password")
			require.NoError(t, err)
			b, err := h.Hash("same-password")
			require.NoError(t, err)

			assert.NotEqual(t, a, b, "two hashes of the same password must differ")
			assert.True(t, h.Verify("same-password", a))
			assert.True(t, h.Verify("same-password", b))
		})
	}
}

func TestVerify_MalformedDigestNeverMatches(t *testing.T) {
	digests := []string{
		"",
		"plain",
		"$2a$",
		"$2b$04$tooshort",
		"$argon2id$",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$AAAA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
	}
	for _, h := range testHashers() {
		for _, d := range digests {
			assert.NotPanics(t, func() {
				assert.False(t, h.Verify("anything", d), "digest %q", d)
			})
		}
	}
}

func TestVerify_CrossAlgorithm(t *testing.T) {
	b := NewBcryptHasher(bcrypt.MinCost)
	a := NewArgon2Hasher(testArgon2Params)

	bd, err := b.Hash("pw-1")
	require.NoError(t, err)
	ad, err := a.Hash("pw-2")
	require.NoError(t, err)

	assert.True(t, a.Verify("pw-1", bd), "argon2 hasher must still accept bcrypt digests")
	assert.True(t, b.Verify("pw-2", ad), "bcrypt hasher must still accept argon2 digests")
}

func TestArgon2Digest_Format(t *testing.T) {
	d, err := NewArgon2Hasher(testArgon2Params).Hash("x")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(d, "$argon2id$v=19$m=1024,t=1,p=1$"), d)
	assert.Len(t, strings.Split(d, "$"), 6)
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(bcrypt.MinCost).cost)
}

func TestBcryptHasher_LengthLimit(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	digest, err := h.Hash(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)
	assert.True(t, h.Verify(strings.Repeat("a", MaxPasswordBytes), digest))
}

func TestNewPasswordHasher(t *testing.T) {
	h, err := NewPasswordHasher("", 0)
	require.NoError(t, err)
	assert.IsType(t, &BcryptHasher{}, h)

	h, err = NewPasswordHasher(AlgorithmArgon2id, 0)
	require.NoError(t, err)
	assert.IsType(t, &Argon2Hasher{}, h)

	_, err = NewPasswordHasher("md5", 0)
	require.Error(t, err)
}
