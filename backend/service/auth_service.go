package service

import (
	"context"
	"errors"
	"time"

	"archive-hub/backend/common"
	apperrors "archive-hub/backend/common/errors"
	"archive-hub/backend/model"
)

type AuthService struct {
	store     model.Store
	blacklist TokenBlacklist
}

func NewAuthService(store model.Store, blacklist TokenBlacklist) *AuthService {
	if blacklist == nil {
		blacklist = newMemoryBlacklist()
	}
	return &AuthService{store: store, blacklist: blacklist}
}

func invalidCredentials() error {
	return apperrors.New(apperrors.ErrInvalidCredentials, "invalid username or password")
}

// Login checks the username and password. Unknown users and wrong passwords
// produce the same error.
func (s *AuthService) Login(username string, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, invalidCredentials()
	}
	user, err := s.store.UserByUsername(username)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, apperrors.InternalServerError(err)
	}
	if !common.ValidatePasswordAndHash(password, user.Password) {
		return nil, invalidCredentials()
	}
	return user, nil
}

// CurrentUser resolves a session's user id. The returned error wraps
// model.ErrRecordNotFound when the user no longer exists so callers can
// drop the stale session.
func (s *AuthService) CurrentUser(id int64) (*model.User, error) {
	if id <= 0 {
		return nil, apperrors.New(apperrors.ErrUnauthorized, "not logged in")
	}
	user, err := s.store.UserByID(id)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return nil, apperrors.Wrap(err, apperrors.ErrUnauthorized, "session user no longer exists")
		}
		return nil, apperrors.InternalServerError(err)
	}
	return user, nil
}

func (s *AuthService) IssueToken(user *model.User) (string, error) {
	token, err := GenerateToken(user)
	if err != nil {
		return "", apperrors.InternalServerError(err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := ValidateToken(token)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUnauthorized, "invalid token")
	}
	if s.blacklist.Contains(ctx, token) {
		return nil, apperrors.New(apperrors.ErrUnauthorized, "token has been revoked")
	}
	return s.CurrentUser(claims.UserID)
}

// RevokeToken blacklists a bearer token for the rest of its lifetime.
// Invalid tokens are ignored.
func (s *AuthService) RevokeToken(ctx context.Context, token string) error {
	claims, err := ValidateToken(token)
	if err != nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.Add(ctx, token, ttl); err != nil {
		return apperrors.InternalServerError(err)
	}
	return nil
}
