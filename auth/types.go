package auth

import (
	"fmt"
	"strings"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() Role
}

// Config holds the token signing options. It is built once at process
// start from the configuration surface and passed to constructors,
// never held in package state.
type Config struct {
	SigningKey      []byte
	Issuer          string
	AuthScheme      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// DefaultAuthScheme is the bearer prefix clients send in the
// Authorization header.
const DefaultAuthScheme = "Token"

func (c Config) scheme() string {
	if c.AuthScheme == "" {
		return DefaultAuthScheme
	}
	return c.AuthScheme
}

// TokenPair is the access/refresh pair returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type authIdentity struct {
	id       string
	username string
	email    string
	role     Role
}

func (i authIdentity) ID() string       { return i.id }
func (i authIdentity) Username() string { return i.username }
func (i authIdentity) Email() string    { return i.email }
func (i authIdentity) Role() Role       { return i.role }

// IdentityFromUser adapts a stored user to the Identity the policy
// predicates evaluate.
func IdentityFromUser(user *User) Identity {
	return authIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
		role:     user.Role,
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// NewNopLogger returns a logger that discards everything. Collaborating
// packages use it as their default until a real logger is injected.
func NewNopLogger() Logger {
	return nopLogger{}
}

type defLogger struct{}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func newline(format string) string {
	if !strings.HasSuffix(format, "\n") {
		format = format + "\n"
	}
	return format
}
