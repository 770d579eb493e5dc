package userservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/sushihentaime/nightblog/internal/common"
	"github.com/sushihentaime/nightblog/internal/mediaservice"
)

const (
	SessionTTL        time.Duration = 7 * 24 * time.Hour
	DefaultThemeColor               = "#00ff88"
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	users    userStore
	sessions sessionStore
	idp      IdentityProvider
	media    mediaservice.Uploader
	mb       common.MessageProducer
	logger   Logger
	now      func() time.Time
}

// Logger receives failures that must not fail the request, such as event publication.
type Logger interface {
	Error(msg string, args ...any)
}

type userStore interface {
	insert(ctx context.Context, u *User) error
	getByID(ctx context.Context, id string) (*User, error)
	getByEmail(ctx context.Context, email string) (*User, error)
	getByUsername(ctx context.Context, username string) (*User, error)
	usernameExists(ctx context.Context, username string) (bool, error)
	updateProfile(ctx context.Context, u *User) error
}

type sessionStore interface {
	insert(ctx context.Context, s *Session) error
	getByHash(ctx context.Context, hash []byte) (*Session, error)
	deleteByHash(ctx context.Context, hash []byte) error
	deleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type UserModel struct {
	db *sql.DB
}

type SessionModel struct {
	db *sql.DB
}

type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Username   string    `json:"username"`
	Picture    *string   `json:"picture"`
	Bio        string    `json:"bio"`
	ThemeColor string    `json:"theme_color"`
	CreatedAt  time.Time `json:"created_at"`
}

// Session binds a token to a user. Only the hash of the token is persisted.
type Session struct {
	TokenHash []byte
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Identity is the set of claims the identity provider returns for a session id.
type Identity struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

type LoginResult struct {
	User      *User     `json:"user"`
	Token     string    `json:"session_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UpdateProfileRequest struct {
	Bio        string
	ThemeColor string
	// Picture holds the raw bytes of a new profile picture; nil keeps the current one.
	Picture []byte
}
