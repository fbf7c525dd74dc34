// Package credential derives and verifies the stored form of user passwords.
//
// A credential record has the form "<saltHex>:<hashHex>" where the hash is
// PBKDF2-SHA256 over the password and a fresh random salt. The record never
// contains password material and is the only thing handed to the user store.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Iterations is the PBKDF2 work factor for every stored record.
	Iterations = 310000
	// KeyLength is the derived hash size in bytes (256 bits).
	KeyLength = 32
	// SaltLength is the random salt size in bytes.
	SaltLength = 16

	separator = ":"
)

var (
	// ErrCryptoUnavailable is returned when no secure random source can be read.
	ErrCryptoUnavailable = errors.New("secure random source unavailable")
	// ErrMalformedRecord is returned when a stored record cannot be parsed.
	ErrMalformedRecord = errors.New("malformed credential record")
)

// Params fixes how a record is derived. Records produced under one set of
// params only verify under the same params.
type Params struct {
	Iterations int
	KeyLength  int
	SaltLength int
	Digest     func() hash.Hash
}

// DefaultParams is used for all records written by the server.
var DefaultParams = Params{
	Iterations: Iterations,
	KeyLength:  KeyLength,
	SaltLength: SaltLength,
	Digest:     sha256.New,
}

// Hasher hashes and verifies passwords. It holds no mutable state and is safe
// for concurrent use.
type Hasher struct {
	params Params
	random io.Reader
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithParams overrides the derivation parameters.
func WithParams(p Params) Option {
	return func(h *Hasher) {
		h.params = p
	}
}

// WithRandom overrides the salt source. Must be a CSPRNG outside of tests.
func WithRandom(r io.Reader) Option {
	return func(h *Hasher) {
		h.random = r
	}
}

// New returns a Hasher using DefaultParams and crypto/rand.
func New(opts ...Option) *Hasher {
	h := &Hasher{
		params: DefaultParams,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var defaultHasher = New()

// HashPassword hashes password with DefaultParams.
func HashPassword(password string) (string, error) {
	return defaultHasher.Hash(password)
}

// VerifyPassword checks password against a record produced by HashPassword.
func VerifyPassword(password, stored string) (bool, error) {
	return defaultHasher.Verify(password, stored)
}

// Hash returns a new credential record for password with a fresh salt.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}

	derived := h.derive(password, salt)

	return hex.EncodeToString(salt) + separator + hex.EncodeToString(derived), nil
}

// Verify reports whether password matches stored. A mismatch is (false, nil);
// an unparsable record is (false, ErrMalformedRecord).
func (h *Hasher) Verify(password, stored string) (bool, error) {
	salt, expected, err := h.parse(stored)
	if err != nil {
		return false, err
	}

	candidate := h.derive(password, salt)

	return constantTimeEqual(candidate, expected), nil
}

func (h *Hasher) derive(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, h.params.Iterations, h.params.KeyLength, h.params.Digest)
}

func (h *Hasher) parse(stored string) (salt, sum []byte, err error) {
	saltHex, hashHex, found := strings.Cut(stored, separator)
	if !found {
		return nil, nil, fmt.Errorf("%w: missing separator", ErrMalformedRecord)
	}

	salt, err = hex.DecodeString(saltHex)
	if err != nil || len(salt) != h.params.SaltLength {
		return nil, nil, fmt.Errorf("%w: salt must be %d hex-encoded bytes", ErrMalformedRecord, h.params.SaltLength)
	}

	sum, err = hex.DecodeString(hashHex)
	if err != nil || len(sum) != h.params.KeyLength {
		return nil, nil, fmt.Errorf("%w: hash must be %d hex-encoded bytes", ErrMalformedRecord, h.params.KeyLength)
	}

	return salt, sum, nil
}

// constantTimeEqual visits every byte pair regardless of where the first
// difference is. Lengths are format-fixed and not secret.
func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
