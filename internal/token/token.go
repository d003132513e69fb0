// Package token issues and verifies the signed session tokens that
// stand in for server-side session storage.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/web-auth-service/internal/model"
)

// TTL is how long an issued session token stays valid. The session
// cookie's MaxAge is derived from this value so a cookie never outlives
// the token it carries.
const TTL = 24 * time.Hour

// ErrInvalidToken covers malformed input, a bad signature and expiry
// alike. Callers cannot tell the cases apart, so a failed verification
// leaks nothing about why it failed.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the decoded payload of a session token: the subject user id
// plus identity fields and the issued-at/expiry timestamps.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject the token was issued for.
func (c Claims) UserID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

// Service signs and verifies session tokens with a process-wide secret
// loaded once at startup. Issue and Verify are pure and safe for
// concurrent use.
type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

// Issue builds and signs an HS256 token for the user with issuedAt=now
// and expiresAt=now+TTL.
func (s *Service) Issue(u model.User) (string, error) {
	return s.IssueAt(u, s.now())
}

// IssueAt is Issue with an explicit issuance time. Expiry stays at
// issuance+TTL.
func (s *Service) IssueAt(u model.User, at time.Time) (string, error) {
	now := at.UTC()
	claims := Claims{
		Email:    u.Email,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature integrity and expiry. Any failure, including
// a token signed with a different method or secret, maps to
// ErrInvalidToken and is never fatal for the request.
func (s *Service) Verify(raw string) (Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens using a signing method other than HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
