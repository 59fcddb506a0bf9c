package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// Authenticator owns the credential and token lifecycle: login mints a
// pair, refresh rotates it. Both are single-read flows against the
// users repository with no shared mutable state.
type Authenticator struct {
	users  Users
	tokens *TokenService
	logger Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(users Users, cfg Config) *Authenticator {
	return &Authenticator{
		users:  users,
		tokens: NewTokenService(cfg, defLogger{}),
		logger: defLogger{},
	}
}

func (s *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Authenticator) TokenService() *TokenService {
	return s.tokens
}

// Login verifies the submitted credentials and mints a token pair.
// Unknown email and wrong password return the same error value, so the
// response never reveals whether the account exists.
func (s *Authenticator) Login(ctx context.Context, email, password string) (TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return TokenPair{}, ErrMismatchedHashAndPassword
		}
		s.logger.Error("Login user lookup error", "error", err)
		return TokenPair{}, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	if user.IsBlocked {
		s.logger.Warn("Login rejected for blocked user", "user_id", user.ID)
		return TokenPair{}, ErrUserBlocked
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return TokenPair{}, ErrMismatchedHashAndPassword
	}

	return s.tokens.IssuePair(IdentityFromUser(user))
}

// Refresh validates a refresh token and mints a new pair. An access
// token submitted here is rejected: the kinds are not interchangeable.
func (s *Authenticator) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.tokens.Validate(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	if !claims.IsKind(TokenKindRefresh) {
		s.logger.Warn("Refresh rejected token of wrong kind", "kind", claims.Kind)
		return TokenPair{}, ErrTokenWrongKind
	}

	user, err := s.resolveSubject(ctx, claims)
	if err != nil {
		return TokenPair{}, err
	}

	return s.tokens.IssuePair(IdentityFromUser(user))
}

// resolveSubject loads the token's subject and enforces the blocked
// flag. Token validity alone never grants access.
func (s *Authenticator) resolveSubject(ctx context.Context, claims *Claims) (*User, error) {
	user, err := s.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUnauthenticated
		}
		s.logger.Error("Subject lookup error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve token subject")
	}

	if user.IsBlocked {
		return nil, ErrUserBlocked
	}

	return user, nil
}
