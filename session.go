package creatorconnect

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var _ Session = &SessionObject{}

type SessionObject struct {
	UserID         string         `json:"user_id,omitempty"`
	Audience       []string       `json:"audience,omitempty"`
	Issuer         string         `json:"issuer,omitempty"`
	IssuedAt       *time.Time     `json:"issued_at,omitempty"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetData() map[string]any {
	return s.Data
}

// Email returns the account email carried in the session data
func (s *SessionObject) Email() string {
	if s.Data == nil {
		return ""
	}
	email, _ := s.Data["email"].(string)
	return email
}

// AccountType returns the account kind carried in the session data
func (s *SessionObject) AccountType() string {
	if s.Data == nil {
		return ""
	}
	kind, _ := s.Data["account_type"].(string)
	return kind
}

// ProfileReference returns the profile slug carried in the session data
func (s *SessionObject) ProfileReference() string {
	if s.Data == nil {
		return ""
	}
	ref, _ := s.Data["profile_reference"].(string)
	return ref
}

// TODO: enable only in development!
func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s aud=%v iss=%s iat=%s data=%v",
		s.UserID,
		s.Audience,
		s.Issuer,
		issuedAt,
		s.Data,
	)
}

// sessionFromAuthClaims creates a SessionObject from validated claims
func sessionFromAuthClaims(claims AuthClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrUnableToDecodeSession
	}

	data := make(map[string]any)
	data["email"] = claims.Email()
	data["account_type"] = claims.AccountType()
	data["profile_reference"] = claims.ProfileReference()

	var audience []string
	var issuer string
	if jwtClaims, ok := claims.(*JWTClaims); ok {
		audience = append(audience, jwtClaims.RegisteredClaims.Audience...)
		issuer = jwtClaims.RegisteredClaims.Issuer
	}

	issuedAt := claims.IssuedAt()
	expiresAt := claims.Expires()

	return &SessionObject{
		UserID:         claims.UserID(),
		Audience:       audience,
		Issuer:         issuer,
		Data:           data,
		IssuedAt:       &issuedAt,
		ExpirationDate: &expiresAt,
	}, nil
}

// GetSession reads the claims the auth guard stored under key and
// derives the request session
func GetSession(c *fiber.Ctx, key string) (*SessionObject, error) {
	claims, ok := c.Locals(key).(AuthClaims)
	if !ok {
		return nil, ErrUnableToDecodeSession
	}
	return sessionFromAuthClaims(claims)
}

// SessionFromToken validates a raw token and derives its session
func SessionFromToken(tokens TokenService, token string) (Session, error) {
	claims, err := tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	return sessionFromAuthClaims(claims)
}
