package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Signer mints the short-lived session tokens matched users present to the
// collaboration service when joining their shared session.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner creates a signer with the given HMAC secret and token lifetime
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// Mint signs a token binding a user to a match
func (s *Signer) Mint(userID, matchID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"match_id": matchID,
		"exp":      time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token and returns the bound user and match ids
func (s *Signer) Verify(tokenString string) (userID, matchID string, err error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", "", fmt.Errorf("invalid session token")
	}
	userID, _ = claims["user_id"].(string)
	matchID, _ = claims["match_id"].(string)
	if userID == "" {
		return "", "", fmt.Errorf("session token missing user_id")
	}
	return userID, matchID, nil
}
