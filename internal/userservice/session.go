package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/sushihentaime/nightblog/internal/common"
)

func NewSessionModel(db *sql.DB) *SessionModel {
	return &SessionModel{db: db}
}

func hashToken(token string) []byte {
	hash := sha3.Sum256([]byte(token))
	return hash[:]
}

// insert stores the session. Re-exchanging the same provider token refreshes its expiry.
func (m *SessionModel) insert(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO sessions (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token_hash) DO UPDATE
		SET user_id = EXCLUDED.user_id, expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at`

	_, err := m.db.ExecContext(ctx, query, s.TokenHash, s.UserID, s.ExpiresAt, s.CreatedAt)
	return err
}

func (m *SessionModel) getByHash(ctx context.Context, hash []byte) (*Session, error) {
	query := `
		SELECT token_hash, user_id, expires_at, created_at
		FROM sessions
		WHERE token_hash = $1`

	var s Session

	err := m.db.QueryRowContext(ctx, query, hash).Scan(&s.TokenHash, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &s, nil
}

func (m *SessionModel) deleteByHash(ctx context.Context, hash []byte) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, hash)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return common.ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *SessionModel) deleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
