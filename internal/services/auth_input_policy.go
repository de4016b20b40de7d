package services

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")
	ErrAuthUsernameInvalid    = errors.New("auth username invalid")
	ErrProfileInvalid         = errors.New("profile invalid")
)

const (
	maxBioLength       = 280
	maxAvatarURLLength = 512
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

// NormalizeUsername trims the name and checks its shape. Case is kept for
// display; uniqueness is checked on the lowercased form.
func NormalizeUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if !usernameRegex.MatchString(username) {
		return "", ErrAuthUsernameInvalid
	}
	return username, nil
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}

func NormalizeProfileInput(bioRaw string, avatarRaw string) (string, string, error) {
	bio := strings.TrimSpace(bioRaw)
	avatarURL := strings.TrimSpace(avatarRaw)
	if utf8.RuneCountInString(bio) > maxBioLength {
		return "", "", errors.Join(ErrProfileInvalid, newValidationError("bio", "is too long"))
	}
	if len(avatarURL) > maxAvatarURLLength {
		return "", "", errors.Join(ErrProfileInvalid, newValidationError("avatar_url", "is too long"))
	}
	return bio, avatarURL, nil
}
