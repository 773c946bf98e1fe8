package adminservice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lazygardenertx/gardenlog/internal/common"
)

func setupTestEnvironment(t *testing.T) (*AdminService, *sql.DB, *common.Cache, func() error) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	cleanup := func() error {
		_, err := db.Exec("DELETE FROM admins")
		if err != nil {
			return err
		}

		cache.Flush()

		return nil
	}

	return NewAdminService(db, cache), db, cache, cleanup
}

func TestCreateAdmin(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		email       string
		password    string
		expectedErr error
	}{
		{
			name:        "valid admin",
			email:       "admin@example.com",
			password:    "correct-horse-battery",
			expectedErr: nil,
		},
		{
			name:        "invalid email",
			email:       "not-an-email",
			password:    "correct-horse-battery",
			expectedErr: common.ValidationError{Errors: map[string]string{"email": "must be a valid email address"}},
		},
		{
			name:        "short password",
			email:       "admin@example.com",
			password:    "short",
			expectedErr: common.ValidationError{Errors: map[string]string{"password": "must be between 8 and 72 characters long"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			admin, err := s.CreateAdmin(ctx, tc.email, tc.password)
			assert.Equal(t, tc.expectedErr, err)

			if err == nil {
				assert.NotZero(t, admin.ID)

				var count int
				err := db.QueryRow("SELECT COUNT(*) FROM admins").Scan(&count)
				assert.NoError(t, err)
				assert.Equal(t, 1, count)
			}

			t.Cleanup(func() {
				err := cleanup()
				assert.NoError(t, err)
			})
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.CreateAdmin(ctx, "admin@example.com", "correct-horse-battery")
		assert.NoError(t, err)

		_, err = s.CreateAdmin(ctx, "admin@example.com", "another-password")
		assert.ErrorIs(t, err, ErrDuplicateEmail)

		t.Cleanup(func() {
			err := cleanup()
			assert.NoError(t, err)
		})
	})
}

func TestEnsureAdmin(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)

	ctx := context.Background()

	err := s.EnsureAdmin(ctx, "admin@example.com", "correct-horse-battery")
	assert.NoError(t, err)

	// second call with the same email must be a no-op
	err = s.EnsureAdmin(ctx, "admin@example.com", "correct-horse-battery")
	assert.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM admins").Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	t.Cleanup(func() {
		err := cleanup()
		assert.NoError(t, err)
	})
}

func TestLogin(t *testing.T) {
	s, _, _, cleanup := setupTestEnvironment(t)

	ctx := context.Background()

	_, err := s.CreateAdmin(ctx, "admin@example.com", "correct-horse-battery")
	assert.NoError(t, err)

	testCases := []struct {
		name        string
		email       string
		password    string
		expectedErr error
	}{
		{
			name:        "valid credentials",
			email:       "admin@example.com",
			password:    "correct-horse-battery",
			expectedErr: nil,
		},
		{
			name:        "unknown email",
			email:       "nobody@example.com",
			password:    "correct-horse-battery",
			expectedErr: ErrAuthenticationFailure,
		},
		{
			name:        "wrong password",
			email:       "admin@example.com",
			password:    "wrong-password-entirely",
			expectedErr: ErrAuthenticationFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			session, err := s.Login(ctx, tc.email, tc.password)
			assert.Equal(t, tc.expectedErr, err)

			if err == nil {
				assert.Len(t, session.Plain, 26)
				assert.True(t, session.Expiry.After(time.Now()))
			}
		})
	}

	t.Cleanup(func() {
		err := cleanup()
		assert.NoError(t, err)
	})
}

func TestGetAdminBySessionToken(t *testing.T) {
	s, db, cache, cleanup := setupTestEnvironment(t)

	ctx := context.Background()

	_, err := s.CreateAdmin(ctx, "admin@example.com", "correct-horse-battery")
	assert.NoError(t, err)

	session, err := s.Login(ctx, "admin@example.com", "correct-horse-battery")
	assert.NoError(t, err)

	t.Run("valid session", func(t *testing.T) {
		admin, err := s.GetAdminBySessionToken(ctx, session.Plain)
		assert.NoError(t, err)
		assert.Equal(t, "admin@example.com", admin.Email)

		// the lookup is cached
		_, ok := cache.Get(common.CacheKeyAdminBySessionToken(hashSessionToken(session.Plain)))
		assert.True(t, ok)
	})

	t.Run("cached session survives a database miss", func(t *testing.T) {
		_, err := db.Exec("DELETE FROM sessions")
		assert.NoError(t, err)

		admin, err := s.GetAdminBySessionToken(ctx, session.Plain)
		assert.NoError(t, err)
		assert.Equal(t, "admin@example.com", admin.Email)

		cache.Flush()
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := s.GetAdminBySessionToken(ctx, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := s.GetAdminBySessionToken(ctx, "too-short")
		assert.Equal(t, common.ValidationError{Errors: map[string]string{"token": "invalid token"}}, err)
	})

	t.Run("expired session", func(t *testing.T) {
		expired, err := newSession(1, -time.Hour)
		assert.NoError(t, err)

		_, err = db.Exec("INSERT INTO sessions (hash, admin_id, expiry) SELECT $1, id, $2 FROM admins", expired.Hash, expired.Expiry)
		assert.NoError(t, err)

		_, err = s.GetAdminBySessionToken(ctx, expired.Plain)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Cleanup(func() {
		err := cleanup()
		assert.NoError(t, err)
	})
}

func TestLogout(t *testing.T) {
	s, _, _, cleanup := setupTestEnvironment(t)

	ctx := context.Background()

	_, err := s.CreateAdmin(ctx, "admin@example.com", "correct-horse-battery")
	assert.NoError(t, err)

	session, err := s.Login(ctx, "admin@example.com", "correct-horse-battery")
	assert.NoError(t, err)

	_, err = s.GetAdminBySessionToken(ctx, session.Plain)
	assert.NoError(t, err)

	err = s.Logout(ctx, session.Plain)
	assert.NoError(t, err)

	_, err = s.GetAdminBySessionToken(ctx, session.Plain)
	assert.ErrorIs(t, err, ErrNotFound)

	// logging out again is a no-op
	err = s.Logout(ctx, session.Plain)
	assert.NoError(t, err)

	t.Cleanup(func() {
		err := cleanup()
		assert.NoError(t, err)
	})
}

func TestDeleteExpiredSessions(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)

	ctx := context.Background()

	_, err := s.CreateAdmin(ctx, "admin@example.com", "correct-horse-battery")
	assert.NoError(t, err)

	live, err := s.Login(ctx, "admin@example.com", "correct-horse-battery")
	assert.NoError(t, err)

	expired, err := newSession(1, -time.Hour)
	assert.NoError(t, err)

	_, err = db.Exec("INSERT INTO sessions (hash, admin_id, expiry) SELECT $1, id, $2 FROM admins", expired.Hash, expired.Expiry)
	assert.NoError(t, err)

	err = s.DeleteExpiredSessions(ctx)
	assert.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = s.GetAdminBySessionToken(ctx, live.Plain)
	assert.NoError(t, err)

	t.Cleanup(func() {
		err := cleanup()
		assert.NoError(t, err)
	})
}
