package userservice

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sushihentaime/nightblog/internal/common"
	"github.com/sushihentaime/nightblog/internal/mediaservice"
)

type memoryUsers struct {
	mu    sync.Mutex
	users []User
}

func (m *memoryUsers) insert(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == u.Username {
			return ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}

	m.users = append(m.users, *u)
	return nil
}

func (m *memoryUsers) find(match func(User) bool) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}

	return nil, common.ErrRecordNotFound
}

func (m *memoryUsers) getByID(ctx context.Context, id string) (*User, error) {
	return m.find(func(u User) bool { return u.ID == id })
}

func (m *memoryUsers) getByEmail(ctx context.Context, email string) (*User, error) {
	return m.find(func(u User) bool { return u.Email == email })
}

func (m *memoryUsers) getByUsername(ctx context.Context, username string) (*User, error) {
	return m.find(func(u User) bool { return u.Username == username })
}

func (m *memoryUsers) usernameExists(ctx context.Context, username string) (bool, error) {
	_, err := m.getByUsername(ctx, username)
	return err == nil, nil
}

func (m *memoryUsers) updateProfile(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.users {
		if m.users[i].ID == u.ID {
			m.users[i].Bio = u.Bio
			m.users[i].ThemeColor = u.ThemeColor
			m.users[i].Picture = u.Picture
			*u = m.users[i]
			return nil
		}
	}

	return common.ErrRecordNotFound
}

func (m *memoryUsers) delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return
		}
	}
}

type memorySessions struct {
	mu       sync.Mutex
	sessions []Session
}

func (m *memorySessions) insert(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.sessions {
		if bytes.Equal(m.sessions[i].TokenHash, s.TokenHash) {
			m.sessions[i] = *s
			return nil
		}
	}

	m.sessions = append(m.sessions, *s)
	return nil
}

func (m *memorySessions) getByHash(ctx context.Context, hash []byte) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if bytes.Equal(s.TokenHash, hash) {
			found := s
			return &found, nil
		}
	}

	return nil, common.ErrRecordNotFound
}

func (m *memorySessions) deleteByHash(ctx context.Context, hash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.sessions {
		if bytes.Equal(m.sessions[i].TokenHash, hash) {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			return nil
		}
	}

	return common.ErrRecordNotFound
}

func (m *memorySessions) deleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var kept []Session
	for _, s := range m.sessions {
		if !s.ExpiresAt.Before(now) {
			kept = append(kept, s)
		}
	}

	n := int64(len(m.sessions) - len(kept))
	m.sessions = kept

	return n, nil
}

func (m *memorySessions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SessionData(ctx context.Context, sessionID string) (*Identity, error) {
	args := m.Called(sessionID)
	identity, _ := args.Get(0).(*Identity)
	return identity, args.Error(1)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, req *mediaservice.UploadRequest) (string, error) {
	args := m.Called(req)
	return args.String(0), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	args := m.Called(msg, key, exchange)
	return args.Error(0)
}
