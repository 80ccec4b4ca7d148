package auth

import (
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testPassword = "cheetohDeadbolt123"
	altPassword  = "cheetohDeadbolt124"
)

// cheap parameters keep the argon2id tests fast
var fastArgon2 = &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestPasswordHashers(t *testing.T) {
	hashers := map[string]PasswordHasher{
		"bcrypt":   BcryptHasher{Cost: bcrypt.MinCost},
		"argon2id": Argon2idHasher{Params: fastArgon2},
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			hashed, err := h.Hash(testPassword)
			require.NoError(t, err)
			assert.NotEqual(t, testPassword, hashed)

			assert.NoError(t, h.Compare(hashed, testPassword))
			assert.ErrorIs(t, h.Compare(hashed, altPassword), ErrPasswordMismatch)

			again, err := h.Hash(testPassword)
			require.NoError(t, err)
			assert.NotEqual(t, hashed, again, "hashes must be salted")
		})
	}
}

func TestNewPasswordHasher_VerifiesEitherFormat(t *testing.T) {
	bcryptHash, err := BcryptHasher{Cost: bcrypt.MinCost}.Hash(testPassword)
	require.NoError(t, err)
	argonHash, err := Argon2idHasher{Params: fastArgon2}.Hash(testPassword)
	require.NoError(t, err)

	for _, name := range []string{"bcrypt", "argon2id"} {
		h, err := NewPasswordHasher(name)
		require.NoError(t, err)

		assert.NoError(t, h.Compare(bcryptHash, testPassword), name)
		assert.NoError(t, h.Compare(argonHash, testPassword), name)
		assert.ErrorIs(t, h.Compare(bcryptHash, altPassword), ErrPasswordMismatch, name)
		assert.ErrorIs(t, h.Compare(argonHash, altPassword), ErrPasswordMismatch, name)
	}

	_, err = NewPasswordHasher("md5")
	assert.Error(t, err)
}

func TestNewPasswordHasher_HashFormat(t *testing.T) {
	h, err := NewPasswordHasher("argon2id")
	require.NoError(t, err)
	hashed, err := h.Hash(testPassword)
	require.NoError(t, err)
	assert.Contains(t, hashed, "$argon2id$")

	h, err = NewPasswordHasher("bcrypt")
	require.NoError(t, err)
	hashed, err = h.Hash(testPassword)
	require.NoError(t, err)
	assert.Contains(t, hashed, "$2a$")
}
