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

// Argon2id cost parameters sized for interactive logins.
const (
	argonMemory      = 64 * 1024
	argonIterations  = 3
	argonParallelism = 2
	argonSaltLen     = 16
	argonKeyLen      = 32
)

var errPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword derives an Argon2id hash and encodes it as a PHC string. The
// salt and cost parameters travel inside the string, so stored hashes stay
// verifiable after the constants above are retuned.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: read salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonIterations, argonMemory, argonParallelism, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argonMemory, argonIterations, argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword checks password against a PHC-encoded Argon2id hash using
// the parameters recorded in the hash itself.
func VerifyPassword(password, encoded string) error {
	mem, iters, par, salt, want, err := decodePHC(encoded)
	if err != nil {
		return err
	}

	got := argon2.IDKey([]byte(password), salt, iters, mem, par, uint32(len(want))) // #nosec G115 - key length fits uint32

	if subtle.ConstantTimeCompare(got, want) != 1 {
		return errPasswordMismatch
	}
	return nil
}

// decodePHC splits "$argon2id$v=19$m=X,t=Y,p=Z$salt$hash".
func decodePHC(encoded string) (mem, iters uint32, par uint8, salt, hash []byte, err error) {
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" {
		return 0, 0, 0, nil, nil, errors.New("cryptox: malformed password hash")
	}
	if fields[1] != "argon2id" {
		return 0, 0, 0, nil, nil, errors.New("cryptox: unsupported hash algorithm")
	}
	if fields[2] != "v=19" {
		return 0, 0, 0, nil, nil, errors.New("cryptox: unsupported argon2 version")
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("cryptox: bad hash parameters: %w", err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("cryptox: bad salt encoding: %w", err)
	}
	hash, err = base64.RawStdEncoding.DecodeString(fields[5])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("cryptox: bad hash encoding: %w", err)
	}

	return mem, iters, par, salt, hash, nil
}
