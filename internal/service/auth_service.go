package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shapelessblog/internal/db"
	"github.com/shapelessblog/internal/metrics"
	"github.com/sirupsen/logrus"
)

const bearerScheme = "Bearer"

// AuthService 负责登录签发令牌，以及把 Authorization 头解析为用户 ID。
type AuthService struct {
	users  *UserService
	tokens *TokenService
	ttl    time.Duration
}

// NewAuthService creates an AuthService issuing tokens valid for ttl.
func NewAuthService(users *UserService, tokens *TokenService, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{users: users, tokens: tokens, ttl: ttl}
}

// Login 校验用户名与密码，成功后签发新令牌。同一用户可以同时持有多个有效令牌。
func (s *AuthService) Login(ctx context.Context, username, password string) (*db.Token, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := db.VerifyPassword(password, user.HashedPassword)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.tokens.Issue(ctx, user.ID, s.ttl)
}

// Authenticate resolves an Authorization header value to a user id.
//
// 一次调用只做一次令牌查询；遇到过期令牌时顺带清理所有过期令牌，
// 清理结果不影响返回值。
func (s *AuthService) Authenticate(ctx context.Context, header string) (int64, error) {
	if header == "" {
		return 0, ErrNoAuthorizationHeader
	}

	scheme, value, found := strings.Cut(header, " ")
	if !found {
		return 0, ErrNoAuthorizationHeader
	}
	if scheme != bearerScheme {
		return 0, ErrInvalidAuthScheme
	}

	token, err := s.tokens.Lookup(ctx, value)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrInvalidToken
		}
		return 0, err
	}

	if s.tokens.IsExpired(token) {
		s.sweep(ctx)
		return 0, ErrExpiredToken
	}

	return token.UserID, nil
}

func (s *AuthService) sweep(ctx context.Context) {
	removed, err := s.tokens.SweepExpired(ctx)
	switch {
	case err != nil:
		metrics.TokenSweeps.WithLabelValues("failed").Inc()
		logrus.WithError(err).Debug("expired token sweep failed")
	case removed:
		metrics.TokenSweeps.WithLabelValues("removed").Inc()
	default:
		metrics.TokenSweeps.WithLabelValues("empty").Inc()
	}
}
