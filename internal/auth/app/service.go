package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/dwikikusuma/storefront/internal/auth/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type Service struct {
	codec TokenCodec
	users map[string]string
}

// NewService authenticates against a static username -> password table.
func NewService(codec TokenCodec, users map[string]string) *Service {
	return &Service{codec: codec, users: users}
}

func (s *Service) Login(ctx context.Context, username, password string) (string, domain.Identity, error) {
	username = strings.TrimSpace(username)
	want, ok := s.users[username]
	if username == "" || !ok || subtle.ConstantTimeCompare([]byte(want), []byte(password)) != 1 {
		return "", domain.Identity{}, ErrInvalidCredentials
	}

	id := domain.Identity{UserID: username, Name: username}
	token, err := s.codec.Issue(id)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("issue token: %w", err)
	}
	return token, id, nil
}

func (s *Service) Verify(token string) (domain.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return domain.Identity{}, ErrInvalidToken
	}
	id, err := s.codec.Parse(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return id, nil
}
