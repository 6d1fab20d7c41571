package auth

import (
	"fmt"
	"regexp"

	"github.com/golang-jwt/jwt/v5"
)

// Kind enumerates the ways a request can be rejected by the gate, so
// callers (the router) can map each to the right HTTP status without
// string-matching error text.
type Kind int

const (
	// InvalidQuery means the jwt query parameter was absent or empty.
	InvalidQuery Kind = iota
	// JWTTokenError means signature, algorithm, or exp validation failed.
	JWTTokenError
	// JWTStreamNameMismatch means the path pattern didn't match the
	// token's sn claim.
	JWTStreamNameMismatch
)

// RejectError is returned by Gate.Validate on any rejection.
type RejectError struct {
	Kind Kind
	Err  error
}

func (e *RejectError) Error() string { return e.Err.Error() }
func (e *RejectError) Unwrap() error { return e.Err }

func reject(kind Kind, format string, args ...any) *RejectError {
	return &RejectError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Gate validates a request's jwt query parameter and binds its sn claim
// to the request path via a configured pattern with one capture group.
type Gate struct {
	secret            []byte
	streamNamePattern *regexp.Regexp
}

// NewGate builds a Gate validating HS512 tokens with secret, binding the
// sn claim against streamNamePattern's first capture group.
func NewGate(secret []byte, streamNamePattern *regexp.Regexp) Gate {
	return Gate{secret: secret, streamNamePattern: streamNamePattern}
}

// Validate decodes rawToken (the jwt query parameter's value, already
// extracted by the caller; pass "" if the parameter was absent) and
// checks its sn claim binds to path.
func (g Gate) Validate(rawToken, path string) (Claims, error) {
	if rawToken == "" {
		return Claims{}, reject(InvalidQuery, "missing jwt query parameter")
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(rawToken, &claims, func(*jwt.Token) (any, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{"HS512"}), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, reject(JWTTokenError, "jwt validation failed: %w", err)
	}

	matches := g.streamNamePattern.FindStringSubmatch(path)
	if len(matches) < 2 || matches[1] != claims.Sn {
		return Claims{}, reject(JWTStreamNameMismatch, "stream name %q does not match path %q", claims.Sn, path)
	}

	return claims, nil
}
