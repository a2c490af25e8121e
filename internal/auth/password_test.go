package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherHashProducesDistinctDigests(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash("Secret123!")
	require.NoError(t, err)
	second, err := hasher.Hash("Secret123!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each hash must use a fresh salt")
	assert.True(t, hasher.Verify("Secret123!", first))
	assert.True(t, hasher.Verify("Secret123!", second))
}

func TestHasherVerify(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("correct horse")
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
		digest    string
		want      bool
	}{
		{name: "matching password", plaintext: "correct horse", digest: digest, want: true},
		{name: "wrong password", plaintext: "battery staple", digest: digest, want: false},
		{name: "empty password", plaintext: "", digest: digest, want: false},
		{name: "malformed digest", plaintext: "correct horse", digest: "not-a-bcrypt-digest", want: false},
		{name: "empty digest", plaintext: "correct horse", digest: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasher.Verify(tt.plaintext, tt.digest))
		})
	}
}

func TestNewHasherClampsInvalidCost(t *testing.T) {
	hasher := NewHasher(100)
	assert.Equal(t, DefaultBcryptCost, hasher.cost)

	hasher = NewHasher(0)
	assert.Equal(t, DefaultBcryptCost, hasher.cost)
}
