// Package auth validates the JWT carried on every playlist request and
// binds its stream-name claim to the request path, so a token minted for
// one stream can't be replayed against another.
package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the validated JWT payload. Constructed only by Gate.Validate
// on success; flows read-only through the rest of the request.
type Claims struct {
	jwt.RegisteredClaims
	Sn string `json:"sn"`
	Ng string `json:"ng"`
}
