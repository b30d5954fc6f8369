package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session is the authenticated identity threaded explicitly through the
// booking flow. An empty UserID means "not authenticated"; there is no
// process-wide auth singleton.
type Session struct {
	UserID uuid.UUID
	Email  string
}

func (s Session) Authenticated() bool {
	return s.UserID != uuid.Nil
}

var ErrInvalidToken = errors.New("invalid token")

// ParseToken validates an HS256 bearer token and extracts the session from
// its sub and email claims.
func ParseToken(raw, secret string) (Session, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Session{}, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Session{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return Session{UserID: userID, Email: email}, nil
}

// NewToken signs a session into an HS256 bearer token. Used by tests and by
// whatever issues credentials upstream of this service.
func NewToken(s Session, secret string, claims jwt.MapClaims) (string, error) {
	all := jwt.MapClaims{"sub": s.UserID.String(), "email": s.Email}
	for k, v := range claims {
		all[k] = v
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, all).SignedString([]byte(secret))
}

// BearerToken extracts the raw token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}
