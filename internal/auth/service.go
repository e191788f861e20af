// Package auth implements password hashing, session tokens, and the
// register/login flow.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/stanblog/stanblog/internal/model"
	"github.com/stanblog/stanblog/internal/store"
)

var (
	ErrMissingFields    = errors.New("username and password required")
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongCredentials = errors.New("wrong credentials")
)

type Service struct {
	store  store.Store
	tokens *Tokens
}

func NewService(store store.Store, tokens *Tokens) *Service {
	return &Service{store: store, tokens: tokens}
}

// Register creates a user with a hashed password. The plaintext is never
// stored or returned.
func (s *Service) Register(ctx context.Context, username, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.User{}, ErrMissingFields
	}
	hash, err := HashPassword(password)
	if err != nil {
		return model.User{}, err
	}
	user := model.User{Username: username, PasswordHash: hash}
	id, err := s.store.CreateUser(ctx, &user)
	if err != nil {
		return model.User{}, err
	}
	user.ID = id
	return user, nil
}

// Login checks the credentials and issues a session token on success.
func (s *Service) Login(ctx context.Context, username, password string) (model.User, string, error) {
	user, err := s.store.GetUserByName(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.User{}, "", ErrUserNotFound
		}
		return model.User{}, "", err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return model.User{}, "", ErrWrongCredentials
	}
	token, err := s.tokens.Issue(model.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return model.User{}, "", err
	}
	return user, token, nil
}

// Profile resolves the identity carried by a session token. It is stateless;
// there is no server-side session record to look up.
func (s *Service) Profile(token string) (model.Identity, error) {
	return s.tokens.Verify(token)
}
