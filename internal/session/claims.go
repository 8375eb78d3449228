package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
)

// Roles recognised by the RMS backend.
const (
	RoleStaff = "staff"
	RoleHead  = "head"
	RoleAdmin = "admin"
)

// ErrTokenExpired is returned when a stored access token has passed its
// expiry claim. Treated the same as a malformed token: the session is gone.
var ErrTokenExpired = errors.New("access token expired")

// AccessClaims are the claims embedded in the backend-issued access token.
// The token is decoded without signature verification; the signature is the
// backend's concern and every request is re-validated server side. Claims
// beyond the user id are last-resort fallback data only.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id,omitempty"`
	AltUserID int64  `json:"userId,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// SubjectID returns the user id claim, tolerating both spellings the backend
// has used. Zero means the token carries no usable subject id.
func (c *AccessClaims) SubjectID() int64 {
	if c.UserID != 0 {
		return c.UserID
	}
	return c.AltUserID
}

// DecodeAccessToken decodes the claims of an access token. An expired token
// is a decode failure: the caller treats it as "no session".
func DecodeAccessToken(token string) (*AccessClaims, error) {
	parser := jwt.NewParser()

	parsed, _, err := parser.ParseUnverified(token, &AccessClaims{})
	if err != nil {
		return nil, fmt.Errorf("decode access token: %w", err)
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok {
		return nil, errors.New("decode access token: unexpected claims type")
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

// Fingerprint returns a Base58-encoded SHA256 digest of the token, safe to
// log without leaking credential material.
func Fingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base58.Encode(hash[:])
}
