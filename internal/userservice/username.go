package userservice

import (
	"context"
	"fmt"
	"strings"
)

// baseUsername lowercases the display name and replaces spaces with underscores. An empty
// name falls back to the local part of the email address.
func baseUsername(name, email string) string {
	if strings.TrimSpace(name) == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// nextUsername probes base, base_1, base_2, ... and returns the first one not taken.
func (s *UserService) nextUsername(ctx context.Context, base string) (string, error) {
	candidate := base

	for i := 1; ; i++ {
		taken, err := s.users.usernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}

		if !taken {
			return candidate, nil
		}

		candidate = fmt.Sprintf("%s_%d", base, i)
	}
}
