package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenInvalid = errors.New("authorization token invalid")

// IssueToken signs an HS256 auth token for userID that expires after ttl
func IssueToken(secret []byte, userID string, ttl time.Duration) (string, error) {
	now := time.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"type":    "auth",
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})

	return t.SignedString(secret)
}

// ParseToken validates tokenStr and returns the user ID it was issued for.
// Expired tokens fail with jwt.ErrTokenExpired wrapped in ErrTokenInvalid
func ParseToken(secret []byte, tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w, %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrTokenInvalid
	}

	if typ, _ := claims["type"].(string); typ != "auth" {
		return "", fmt.Errorf("%w, wrong token type", ErrTokenInvalid)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("%w, no user id", ErrTokenInvalid)
	}

	return userID, nil
}
