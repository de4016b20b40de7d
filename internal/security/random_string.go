package security

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	passwordLetters = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz"
	passwordDigits  = "23456789"
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString returns a cryptographically secure, unbiased string of the requested length.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}

	return string(value), nil
}

// TemporaryPassword returns a random password of at least 12 characters that
// mixes letters and digits. Look-alike characters are excluded.
func TemporaryPassword(length int) (string, error) {
	if length < 12 {
		length = 12
	}
	for {
		candidate, err := RandomString(length, passwordLetters+passwordDigits)
		if err != nil {
			return "", err
		}
		if strings.ContainsAny(candidate, passwordLetters) && strings.ContainsAny(candidate, passwordDigits) {
			return candidate, nil
		}
	}
}
