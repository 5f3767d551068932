// Package cryptox hashes and verifies account passwords with argon2id.
//
// Hashes use the PHC string format
//
//	$argon2id$v=19$m=65536,t=3,p=1$<salt>$<key>
//
// with salt and key in unpadded standard base64.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrEmptyInput          = errors.New("empty password or hash")
	ErrMalformedHash       = errors.New("malformed password hash")
	ErrUnsupportedVariant  = errors.New("unsupported hash variant")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

// Upper bounds accepted when decoding a stored hash. A row outside them is
// treated as malformed rather than handed to argon2.
const (
	maxMemory      = 1 << 20 // KiB, 1 GiB
	maxIterations  = 10
	maxParallelism = 16
	maxKeyLength   = 128
)

// Params are the argon2id cost parameters.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams is what HashPassword uses for new hashes.
var DefaultParams = Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// HashPassword hashes plain with DefaultParams.
func HashPassword(plain string) (string, error) {
	return HashPasswordWith(plain, DefaultParams)
}

// HashPasswordWith hashes plain with p and a fresh random salt.
func HashPasswordWith(plain string, p Params) (string, error) {
	if plain == "" {
		return "", ErrEmptyInput
	}
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(plain), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// CheckPassword reports whether plain matches encoded. A false result with a
// nil error is a plain mismatch; any error explains why the hash could not be
// checked at all.
func CheckPassword(encoded, plain string) (bool, error) {
	if strings.TrimSpace(encoded) == "" || plain == "" {
		return false, ErrEmptyInput
	}

	p, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	other := argon2.IDKey([]byte(plain), salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

// VerifyPassword is CheckPassword that fails closed: every error is a
// mismatch.
func VerifyPassword(encoded, plain string) bool {
	ok, err := CheckPassword(encoded, plain)
	return err == nil && ok
}

func decodeHash(encoded string) (Params, []byte, []byte, error) {
	var p Params

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return p, nil, nil, ErrMalformedHash
	}
	if parts[1] != "argon2id" {
		return p, nil, nil, ErrUnsupportedVariant
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	if version != argon2.Version {
		return p, nil, nil, ErrIncompatibleVersion
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return p, nil, nil, ErrMalformedHash
	}
	if p.Memory > maxMemory || p.Iterations > maxIterations || p.Parallelism > maxParallelism {
		return p, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > maxKeyLength {
		return p, nil, nil, ErrMalformedHash
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))
	return p, salt, key, nil
}
