package adminservice

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrNotFound       = errors.New("admin not found")
)

func newAdminModel(db *sql.DB) *AdminModel {
	return &AdminModel{db: db}
}

func (m *AdminModel) insert(ctx context.Context, a *Admin) error {
	query := `
		INSERT INTO admins (email, password)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, a.Email, a.Password.hash).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		switch {
		case err.Error() == "pq: duplicate key value violates unique constraint \"admins_email_key\"":
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

func (m *AdminModel) getByEmail(ctx context.Context, email string) (*Admin, error) {
	query := `
		SELECT id, email, password, created_at
		FROM admins
		WHERE email = $1`

	var a Admin

	err := m.db.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.Email, &a.Password.hash, &a.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &a, nil
}
