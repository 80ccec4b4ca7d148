package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// ErrPasswordMismatch is returned when a password does not match its hash.
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordHasher hashes passwords for storage and checks candidates against
// stored hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// BcryptHasher hashes with bcrypt.
type BcryptHasher struct {
	Cost int
}

// Hash implements PasswordHasher.
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcryptCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare implements PasswordHasher.
func (h BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// Argon2idHasher hashes with argon2id.
type Argon2idHasher struct {
	Params *argon2id.Params
}

// DefaultArgon2idParams mirrors the OWASP baseline for interactive logins.
var DefaultArgon2idParams = &argon2id.Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// Hash implements PasswordHasher.
func (h Argon2idHasher) Hash(password string) (string, error) {
	params := h.Params
	if params == nil {
		params = DefaultArgon2idParams
	}
	hashed, err := argon2id.CreateHash(password, params)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hashed, nil
}

// Compare implements PasswordHasher.
func (h Argon2idHasher) Compare(hash, password string) error {
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return err
	}
	if !match {
		return ErrPasswordMismatch
	}
	return nil
}

// NewPasswordHasher returns a hasher that creates hashes with the named
// algorithm ("bcrypt" or "argon2id") and verifies hashes of either kind, so
// switching algorithms does not lock out existing users.
func NewPasswordHasher(name string) (PasswordHasher, error) {
	switch name {
	case "", "bcrypt":
		return formatAwareHasher{primary: BcryptHasher{}}, nil
	case "argon2id":
		return formatAwareHasher{primary: Argon2idHasher{}}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

type formatAwareHasher struct {
	primary PasswordHasher
}

func (h formatAwareHasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

func (h formatAwareHasher) Compare(hash, password string) error {
	if strings.HasPrefix(hash, "$argon2id$") {
		return Argon2idHasher{}.Compare(hash, password)
	}
	return BcryptHasher{}.Compare(hash, password)
}
