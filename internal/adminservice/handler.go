package adminservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lazygardenertx/gardenlog/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("unauthorized access")
)

func NewAdminService(db *sql.DB, c *common.Cache) *AdminService {
	return &AdminService{
		m: newAdminModel(db),
		c: c,
	}
}

// CreateAdmin creates a new admin account.
func (s *AdminService) CreateAdmin(ctx context.Context, email, password string) (*Admin, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	a := Admin{
		Email:    email,
		Password: Password{Plain: password},
	}

	err := a.Password.set(a.Password.Plain)
	if err != nil {
		return nil, err
	}

	err = s.m.insert(ctx, &a)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// EnsureAdmin creates the admin account if it does not already exist. It is
// used to bootstrap the single admin from configuration at startup.
func (s *AdminService) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.CreateAdmin(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			return nil
		default:
			return err
		}
	}

	return nil
}

// Login verifies the credentials and creates a new session. Both an unknown
// email and a wrong password report ErrAuthenticationFailure.
func (s *AdminService) Login(ctx context.Context, email, password string) (*Session, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	admin, err := s.m.getByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := admin.Password.compare(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrAuthenticationFailure
	}

	return s.m.createSession(ctx, admin.ID, SessionTokenTime)
}

// Logout deletes the session matching the token. Logging out an unknown
// token is a no-op.
func (s *AdminService) Logout(ctx context.Context, token string) error {
	v := common.NewValidator()
	ValidateSessionToken(v, token)
	if !v.Valid() {
		return v.ValidationError()
	}

	hash := hashSessionToken(token)

	if err := s.m.deleteSessionByHash(ctx, hash); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyAdminBySessionToken(hash))

	return nil
}

// GetAdminBySessionToken returns the admin owning a live session, consulting
// the cache first.
func (s *AdminService) GetAdminBySessionToken(ctx context.Context, token string) (*Admin, error) {
	v := common.NewValidator()
	ValidateSessionToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashSessionToken(token)

	if cached, ok := s.c.Get(common.CacheKeyAdminBySessionToken(hash)); ok {
		if admin, ok := cached.(*Admin); ok {
			return admin, nil
		}
	}

	admin, err := s.m.getAdminBySessionHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyAdminBySessionToken(hash), admin, 5*time.Minute)

	return admin, nil
}

// DeleteExpiredSessions removes sessions past their expiry time.
func (s *AdminService) DeleteExpiredSessions(ctx context.Context) error {
	return s.m.deleteExpiredSessions(ctx)
}

func (a *Admin) IsAnonymous() bool {
	return a == &AnonymousAdmin
}
