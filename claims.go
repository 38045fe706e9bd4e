package creatorconnect

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the read side of a validated identity assertion
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	AccountType() string
	ProfileReference() string
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete claim set embedded in issued assertions
type JWTClaims struct {
	jwt.RegisteredClaims
	UID        string `json:"uid,omitempty"`
	UserEmail  string `json:"email,omitempty"`
	Kind       string `json:"account_type,omitempty"`
	ProfileRef string `json:"profile_reference,omitempty"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the account id
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Email returns the account email
func (c *JWTClaims) Email() string {
	return c.UserEmail
}

// AccountType returns the account kind
func (c *JWTClaims) AccountType() string {
	return c.Kind
}

// ProfileReference returns the provisioned profile slug, if any
func (c *JWTClaims) ProfileReference() string {
	return c.ProfileRef
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IssuedAt returns the issue time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.IssuedAt.Time
}
