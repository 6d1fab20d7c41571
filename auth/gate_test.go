package auth

import (
	"regexp"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, secret []byte, sn, ng string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
		Sn:               sn,
		Ng:               ng,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestGateRejectsMissingToken(t *testing.T) {
	g := NewGate([]byte("shh"), regexp.MustCompile(`([^/]+)\.m3u8`))

	_, err := g.Validate("", "/meca-foo.m3u8")

	require.Error(t, err)
	var rej *RejectError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, InvalidQuery, rej.Kind)
}

func TestGateAcceptsMatchingStreamName(t *testing.T) {
	secret := []byte("shh")
	g := NewGate(secret, regexp.MustCompile(`([^/]+)\.m3u8`))
	token := mintToken(t, secret, "meca-foo", "g1", time.Now().Add(time.Hour))

	claims, err := g.Validate(token, "/meca-foo.m3u8")

	require.NoError(t, err)
	assert.Equal(t, "meca-foo", claims.Sn)
	assert.Equal(t, "g1", claims.Ng)
}

func TestGateRejectsMismatchedStreamName(t *testing.T) {
	secret := []byte("shh")
	g := NewGate(secret, regexp.MustCompile(`([^/]+)\.m3u8`))
	token := mintToken(t, secret, "meca-foo", "g1", time.Now().Add(time.Hour))

	_, err := g.Validate(token, "/nonono.m3u8")

	require.Error(t, err)
	var rej *RejectError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, JWTStreamNameMismatch, rej.Kind)
}

func TestGateRejectsExpiredToken(t *testing.T) {
	secret := []byte("shh")
	g := NewGate(secret, regexp.MustCompile(`([^/]+)\.m3u8`))
	token := mintToken(t, secret, "meca-foo", "g1", time.Now().Add(-time.Hour))

	_, err := g.Validate(token, "/meca-foo.m3u8")

	require.Error(t, err)
	var rej *RejectError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, JWTTokenError, rej.Kind)
}

func TestGateRejectsWrongSecret(t *testing.T) {
	g := NewGate([]byte("shh"), regexp.MustCompile(`([^/]+)\.m3u8`))
	token := mintToken(t, []byte("wrong-secret"), "meca-foo", "g1", time.Now().Add(time.Hour))

	_, err := g.Validate(token, "/meca-foo.m3u8")

	require.Error(t, err)
	var rej *RejectError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, JWTTokenError, rej.Kind)
}

func TestGateRejectsWrongAlgorithm(t *testing.T) {
	secret := []byte("shh")
	g := NewGate(secret, regexp.MustCompile(`([^/]+)\.m3u8`))

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Sn:               "meca-foo",
		Ng:               "g1",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)

	_, err = g.Validate(signed, "/meca-foo.m3u8")

	require.Error(t, err)
	var rej *RejectError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, JWTTokenError, rej.Kind)
}
