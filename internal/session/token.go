package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "threesixnine"

type claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// issueToken signs an HS256 token for the account. A zero ttl issues a token
// without expiry.
func (s *Store) issueToken(a *account) (string, error) {
	now := s.clock.Now()
	c := claims{
		Name: a.displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  a.id,
			Issuer:   tokenIssuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.cfg.TokenTTL > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(s.cfg.TokenTTL))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.cfg.Secret)
}

// parseToken verifies a token against the store's secret and clock and
// returns the account ID it was issued for.
func (s *Store) parseToken(token string) (string, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.cfg.Secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(func() time.Time { return s.clock.Now() }),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return c.Subject, nil
}
