package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sushihentaime/nightblog/internal/common"
	"github.com/sushihentaime/nightblog/internal/mediaservice"
)

// NewUserService wires the postgres models. mb may be nil, in which case no user.created
// events are published.
func NewUserService(db *sql.DB, idp IdentityProvider, media mediaservice.Uploader, mb common.MessageProducer, logger Logger) *UserService {
	return &UserService{
		users:    NewUserModel(db),
		sessions: NewSessionModel(db),
		idp:      idp,
		media:    media,
		mb:       mb,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateSession exchanges the provider session id for a session. The user is created on the
// first login for an email and reused unchanged afterwards.
func (s *UserService) CreateSession(ctx context.Context, sessionID string) (*LoginResult, error) {
	v := common.NewValidator()
	validateSessionID(v, sessionID)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	identity, err := s.idp.SessionData(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, common.ErrUpstreamAuth) {
			err = upstreamError(err)
		}
		return nil, err
	}

	user, err := s.findOrCreateUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &Session{
		TokenHash: hashToken(identity.SessionToken),
		UserID:    user.ID,
		ExpiresAt: now.Add(SessionTTL),
		CreatedAt: now,
	}

	err = s.sessions.insert(ctx, session)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Token: identity.SessionToken, ExpiresAt: session.ExpiresAt}, nil
}

func (s *UserService) findOrCreateUser(ctx context.Context, identity *Identity) (*User, error) {
	user, err := s.users.getByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		return user, nil
	case !errors.Is(err, common.ErrRecordNotFound):
		return nil, err
	}

	var picture *string
	if identity.Picture != "" {
		picture = &identity.Picture
	}

	base := baseUsername(identity.Name, identity.Email)

	// a concurrent signup can take the probed username between the probe and the insert
	for attempt := 0; attempt < 2; attempt++ {
		username, err := s.nextUsername(ctx, base)
		if err != nil {
			return nil, err
		}

		user = &User{
			ID:         uuid.NewString(),
			Email:      identity.Email,
			Name:       identity.Name,
			Username:   username,
			Picture:    picture,
			ThemeColor: DefaultThemeColor,
			CreatedAt:  s.now(),
		}

		err = s.users.insert(ctx, user)
		switch {
		case err == nil:
			s.publishUserCreated(ctx, user)
			return user, nil
		case errors.Is(err, ErrDuplicateEmail):
			return s.users.getByEmail(ctx, identity.Email)
		case errors.Is(err, ErrDuplicateUsername):
			continue
		default:
			return nil, err
		}
	}

	return nil, ErrDuplicateUsername
}

func (s *UserService) publishUserCreated(ctx context.Context, u *User) {
	if s.mb == nil {
		return
	}

	event := common.UserCreatedEvent{Email: u.Email, Name: u.Name, Username: u.Username}

	err := common.PublishUserCreated(ctx, s.mb, event)
	if err != nil && s.logger != nil {
		s.logger.Error("could not publish user created event", slog.String("user_id", u.ID), slog.String("error", err.Error()))
	}
}

// Authenticate resolves a session token to its user. An expired session is deleted on the
// spot and reported as common.ErrSessionExpired.
func (s *UserService) Authenticate(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	hash := hashToken(token)

	session, err := s.sessions.getByHash(ctx, hash)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, common.ErrUnauthenticated
		default:
			return nil, err
		}
	}

	if s.now().After(session.ExpiresAt) {
		err := s.sessions.deleteByHash(ctx, hash)
		if err != nil && !errors.Is(err, common.ErrRecordNotFound) {
			return nil, err
		}
		return nil, common.ErrSessionExpired
	}

	user, err := s.users.getByID(ctx, session.UserID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, common.ErrUnauthenticated
		default:
			return nil, err
		}
	}

	return user, nil
}

// Logout deletes the session for the token. Unknown or empty tokens are not an error.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	err := s.sessions.deleteByHash(ctx, hashToken(token))
	if err != nil && !errors.Is(err, common.ErrRecordNotFound) {
		return err
	}

	return nil
}

// GetUserByUsername returns the public profile for the username.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, common.ErrRecordNotFound
	}

	return s.users.getByUsername(ctx, username)
}

// UpdateProfile sets bio and theme color and, when a picture is supplied, uploads it under a
// key derived from the user id. Nothing is written if the upload fails.
func (s *UserService) UpdateProfile(ctx context.Context, user *User, req *UpdateProfileRequest) (*User, error) {
	if req.ThemeColor == "" {
		req.ThemeColor = DefaultThemeColor
	}

	v := common.NewValidator()
	validateBio(v, req.Bio)
	validateThemeColor(v, req.ThemeColor)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	updated := *user
	updated.Bio = req.Bio
	updated.ThemeColor = req.ThemeColor

	if req.Picture != nil {
		url, err := s.media.Upload(ctx, mediaservice.ProfilePicture(user.ID, req.Picture))
		if err != nil {
			return nil, err
		}
		updated.Picture = &url
	}

	err := s.users.updateProfile(ctx, &updated)
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// SweepExpiredSessions removes every session past its expiry and returns how many went.
func (s *UserService) SweepExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.deleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}

	return n, nil
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}
