package service

import (
	"context"
	"strings"
	"time"

	"github.com/linkstash/server/internal/model"
	appErr "github.com/linkstash/server/internal/pkg/errors"
	"github.com/linkstash/server/internal/pkg/jwt"
	"github.com/linkstash/server/internal/pkg/password"
	"github.com/linkstash/server/internal/repo"
)

type AuthService struct {
	users  *repo.UserRepo
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users *repo.UserRepo, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, ttl: ttl}
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, email, nickname, plain string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	nickname = strings.TrimSpace(nickname)
	if email == "" || nickname == "" || len(plain) < 8 {
		return nil, appErr.ErrInvalid
	}
	hash, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}
	user := &model.User{Email: email, Nickname: nickname, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, plain string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.ErrUnauthorized
		}
		return nil, err
	}
	if err := password.Compare(user.PasswordHash, plain); err != nil {
		return nil, appErr.ErrUnauthorized
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := jwt.GenerateToken(user.ID, user.Nickname, s.secret, s.ttl)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
