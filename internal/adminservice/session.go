package adminservice

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base32"
	"errors"
	"time"
)

func hashSessionToken(token string) []byte {
	hash := sha256.Sum256([]byte(token))
	return hash[:]
}

func newSession(adminID int, ttl time.Duration) (*Session, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return nil, err
	}

	session := &Session{
		Plain:   base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes),
		AdminID: adminID,
		Expiry:  time.Now().Add(ttl),
	}

	session.Hash = hashSessionToken(session.Plain)

	return session, nil
}

func (m *AdminModel) insertSession(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (hash, admin_id, expiry)
		VALUES ($1, $2, $3)`

	_, err := m.db.ExecContext(ctx, query, session.Hash, session.AdminID, session.Expiry)
	return err
}

func (m *AdminModel) createSession(ctx context.Context, adminID int, ttl time.Duration) (*Session, error) {
	session, err := newSession(adminID, ttl)
	if err != nil {
		return nil, err
	}

	err = m.insertSession(ctx, session)
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (m *AdminModel) getAdminBySessionHash(ctx context.Context, hash []byte) (*Admin, error) {
	var admin Admin

	query := `
		SELECT a.id, a.email, a.created_at
		FROM admins a
		INNER JOIN sessions s ON a.id = s.admin_id
		WHERE s.hash = $1 AND s.expiry > $2`

	err := m.db.QueryRowContext(ctx, query, hash, time.Now()).Scan(&admin.ID, &admin.Email, &admin.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &admin, nil
}

func (m *AdminModel) deleteSessionByHash(ctx context.Context, hash []byte) error {
	query := `
		DELETE FROM sessions
		WHERE hash = $1`

	_, err := m.db.ExecContext(ctx, query, hash)
	return err
}

// deleteExpiredSessions clears out sessions past their expiry time.
func (m *AdminModel) deleteExpiredSessions(ctx context.Context) error {
	query := `
		DELETE FROM sessions
		WHERE expiry <= $1`

	_, err := m.db.ExecContext(ctx, query, time.Now())
	return err
}
