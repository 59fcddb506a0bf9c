package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind tags a token as access or refresh. The two are structurally
// identical; only the kind claim and the TTL differ.
type TokenKind string

const (
	// TokenKindAccess is the short lived credential presented on every request.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is the long lived credential used only to mint new pairs.
	TokenKindRefresh TokenKind = "refresh"
)

// Claims is the signed claim set carried by both token kinds.
//
// Validate does not inspect Kind; every caller checks it against the
// kind it expects. The gate demands access, refresh demands refresh.
type Claims struct {
	jwt.RegisteredClaims
	UID      string    `json:"uid,omitempty"`
	UserRole Role      `json:"role,omitempty"`
	Kind     TokenKind `json:"kind,omitempty"`
}

// Subject returns the subject claim
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *Claims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// UserUUID parses the subject as a UUID
func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID())
}

// Role returns the role carried in the token
func (c *Claims) Role() Role {
	return c.UserRole
}

// IsKind reports whether the token was minted with the given kind.
func (c *Claims) IsKind(kind TokenKind) bool {
	return c.Kind == kind
}

// Expires returns the expiration time
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
