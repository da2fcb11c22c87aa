package share

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/depositdefender/internal/domain"
)

var now = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func TestSignAndParse(t *testing.T) {
	iss, err := NewIssuer([]byte("secret"), WithClock(clock))
	require.NoError(t, err)

	link := &domain.ShareableLink{Token: "link-1", InspectionID: "insp-1", ExpiresAt: now.Add(24 * time.Hour)}
	tok, err := iss.Sign(link)
	require.NoError(t, err)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "link-1", claims.ID)
	assert.Equal(t, "insp-1", claims.Subject)
	assert.True(t, claims.ExpiresAt.Time.Equal(link.ExpiresAt))
}

func TestParse_Expired(t *testing.T) {
	iss, err := NewIssuer([]byte("secret"), WithClock(clock))
	require.NoError(t, err)

	tok, err := iss.Sign(&domain.ShareableLink{Token: "l", ExpiresAt: now.Add(-time.Minute)})
	require.NoError(t, err)

	_, err = iss.Parse(tok)
	assert.ErrorIs(t, err, domain.ErrLinkInvalid)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_WrongSecret(t *testing.T) {
	a, err := NewIssuer([]byte("one"), WithClock(clock))
	require.NoError(t, err)
	b, err := NewIssuer([]byte("two"), WithClock(clock))
	require.NoError(t, err)

	tok, err := a.Sign(&domain.ShareableLink{Token: "l", ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)

	_, err = b.Parse(tok)
	assert.ErrorIs(t, err, domain.ErrLinkInvalid)
}

func TestParse_RejectsNoneAlgorithm(t *testing.T) {
	iss, err := NewIssuer([]byte("secret"), WithClock(clock))
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{ID: "l", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = iss.Parse(tok)
	assert.ErrorIs(t, err, domain.ErrLinkInvalid)
}

func TestParse_Garbage(t *testing.T) {
	iss, err := NewIssuer(nil)
	require.NoError(t, err)

	_, err = iss.Parse("not-a-token")
	assert.ErrorIs(t, err, domain.ErrLinkInvalid)
}

func TestNewIssuer_RandomSecretsDiffer(t *testing.T) {
	a, err := NewIssuer(nil)
	require.NoError(t, err)
	b, err := NewIssuer(nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.secret, b.secret)
}
