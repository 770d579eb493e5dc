package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/nightblog/internal/common"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
)

func NewUserModel(db *sql.DB) *UserModel {
	return &UserModel{db: db}
}

const userColumns = `id, email, username, name, picture, bio, theme_color, created_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User

	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Name, &u.Picture, &u.Bio, &u.ThemeColor, &u.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *UserModel) insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, email, username, name, picture, bio, theme_color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	args := []any{u.ID, u.Email, u.Username, u.Name, u.Picture, u.Bio, u.ThemeColor, u.CreatedAt}

	_, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "users_username_key"):
			return ErrDuplicateUsername
		case common.UniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

func (m *UserModel) getByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUser(m.db.QueryRowContext(ctx, query, id))
}

func (m *UserModel) getByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return scanUser(m.db.QueryRowContext(ctx, query, email))
}

func (m *UserModel) getByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	return scanUser(m.db.QueryRowContext(ctx, query, username))
}

func (m *UserModel) usernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool

	err := m.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)

	return exists, err
}

// updateProfile writes the mutable profile fields; id, email and username never change here.
func (m *UserModel) updateProfile(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET bio = $1, theme_color = $2, picture = $3
		WHERE id = $4
		RETURNING ` + userColumns

	updated, err := scanUser(m.db.QueryRowContext(ctx, query, u.Bio, u.ThemeColor, u.Picture, u.ID))
	if err != nil {
		return err
	}

	*u = *updated

	return nil
}
