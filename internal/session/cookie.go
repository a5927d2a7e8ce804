package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the gateway's own session cookie
const CookieName = "libstack_session"

var cookieSecret []byte

// CookieClaims are the claims carried by the gateway session cookie
type CookieClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// InitializeCookieSecret sets the signing secret for gateway cookies
func InitializeCookieSecret(secret string) {
	cookieSecret = []byte(secret)
}

// IssueCookie signs a gateway cookie value binding the given session id
func IssueCookie(sessionID string, ttl time.Duration) (string, error) {
	if len(cookieSecret) == 0 {
		return "", fmt.Errorf("cookie secret not initialized")
	}

	claims := CookieClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cookieSecret)
}

// ParseCookie validates a gateway cookie value and returns the session id
func ParseCookie(value string) (string, error) {
	if len(cookieSecret) == 0 {
		return "", fmt.Errorf("cookie secret not initialized")
	}

	token, err := jwt.ParseWithClaims(value, &CookieClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cookieSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse cookie: %w", err)
	}

	if claims, ok := token.Claims.(*CookieClaims); ok && token.Valid {
		return claims.SessionID, nil
	}

	return "", fmt.Errorf("invalid cookie")
}
