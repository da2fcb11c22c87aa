// Package share signs and verifies the tokens handed out in share URLs. A
// token is an HS256 JWT whose ID is the share link key and whose subject is
// the shared inspection.
package share

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vbonduro/depositdefender/internal/domain"
)

type Claims struct {
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	now    func() time.Time
}

type Option func(*Issuer)

func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer returns an Issuer signing with secret. An empty secret is
// replaced by random bytes, so tokens only survive as long as the process.
func NewIssuer(secret []byte, opts ...Option) (*Issuer, error) {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate share secret: %w", err)
		}
	}
	i := &Issuer{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Sign returns the signed token for link.
func (i *Issuer) Sign(link *domain.ShareableLink) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        link.Token,
			Subject:   link.InspectionID,
			ExpiresAt: jwt.NewNumericDate(link.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(i.now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign share token: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenString and returns its claims. Bad signatures, unknown
// algorithms and expired tokens all yield domain.ErrLinkInvalid.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Join(domain.ErrLinkInvalid, err)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("share token has no link id: %w", domain.ErrLinkInvalid)
	}
	return claims, nil
}
