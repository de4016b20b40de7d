package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenPurposeAccess  = "access"
	TokenPurposeRefresh = "refresh"
)

var (
	ErrSessionTokenMissing              = errors.New("missing session token")
	ErrSessionTokenInvalid              = errors.New("invalid session token")
	ErrSessionTokenInvalidPurpose       = errors.New("invalid session token purpose")
	ErrSessionTokenExpired              = errors.New("expired session token")
	ErrSessionTokenInvalidUserID        = errors.New("invalid session token user id")
	ErrSessionTokenInvalidPasswordState = errors.New("invalid session token password state")
)

// SessionClaims is the payload of access and refresh tokens. Refresh tokens
// also carry a fingerprint of the password hash so a password change
// revokes them.
type SessionClaims struct {
	UserID        string `json:"uid"`
	Purpose       string `json:"purpose"`
	PasswordState string `json:"password_state,omitempty"`
	jwt.RegisteredClaims
}

func BuildSessionToken(secretKey []byte, userID string, purpose string, passwordHash string, ttl time.Duration, now time.Time) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrSessionTokenInvalidUserID
	}
	if purpose != TokenPurposeAccess && purpose != TokenPurposeRefresh {
		return "", ErrSessionTokenInvalidPurpose
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if now.IsZero() {
		now = time.Now()
	}

	claims := SessionClaims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if purpose == TokenPurposeRefresh {
		claims.PasswordState = PasswordStateFingerprint(passwordHash)
		if claims.PasswordState == "" {
			return "", ErrSessionTokenInvalidPasswordState
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

func ParseSessionToken(secretKey []byte, rawToken string, purpose string, now time.Time) (*SessionClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrSessionTokenMissing
	}
	if now.IsZero() {
		now = time.Now()
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return secretKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionTokenExpired
		}
		return nil, ErrSessionTokenInvalid
	}
	if !token.Valid {
		return nil, ErrSessionTokenInvalid
	}
	if claims.Purpose != purpose {
		return nil, ErrSessionTokenInvalidPurpose
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return nil, ErrSessionTokenExpired
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrSessionTokenInvalidUserID
	}
	if purpose == TokenPurposeRefresh && strings.TrimSpace(claims.PasswordState) == "" {
		return nil, ErrSessionTokenInvalidPasswordState
	}
	return claims, nil
}

func PasswordStateFingerprint(passwordHash string) string {
	normalizedHash := strings.TrimSpace(passwordHash)
	if normalizedHash == "" {
		return ""
	}

	sum := sha256.Sum256([]byte("ritual.session.password-state.v1:" + normalizedHash))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func IsPasswordStateFingerprintMatch(expected string, passwordHash string) bool {
	actual := PasswordStateFingerprint(passwordHash)
	if strings.TrimSpace(expected) == "" || strings.TrimSpace(actual) == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
