package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shapelessblog/internal/db"
	"gorm.io/gorm"
)

// DefaultTokenTTL 是登录令牌的默认有效期。
const DefaultTokenTTL = 24 * time.Hour

const tokenBytes = 32

// TokenService 负责不透明令牌的签发、查询与过期清理。
type TokenService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTokenService creates a TokenService instance.
func NewTokenService(gdb *gorm.DB) *TokenService {
	return &TokenService{db: gdb, now: time.Now}
}

// Issue 为用户生成 32 字节随机令牌（十六进制编码为 64 个字符），有效期为 ttl。
func (s *TokenService) Issue(ctx context.Context, userID int64, ttl time.Duration) (*db.Token, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	value, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	token := db.Token{
		UserID:      userID,
		Token:       value,
		ExpiredTime: s.now().UTC().Add(ttl),
	}
	if err := s.db.WithContext(ctx).Create(&token).Error; err != nil {
		return nil, fmt.Errorf("insert token for user %d: %w", userID, err)
	}
	return &token, nil
}

// Lookup finds a token row by its opaque string.
func (s *TokenService) Lookup(ctx context.Context, value string) (*db.Token, error) {
	var token db.Token
	if err := s.db.WithContext(ctx).Where("token = ?", value).First(&token).Error; err != nil {
		return nil, notFoundOr(err, "lookup token")
	}
	return &token, nil
}

// IsExpired 使用服务时钟判断令牌是否过期。
func (s *TokenService) IsExpired(token *db.Token) bool {
	return token.IsExpiredAt(s.now())
}

// SweepExpired 删除所有已过期的令牌，返回是否删除了记录。
func (s *TokenService) SweepExpired(ctx context.Context) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("expired_time < ?", s.now().UTC()).
		Delete(&db.Token{})
	if result.Error != nil {
		return false, fmt.Errorf("sweep expired tokens: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RevokeAllForUser removes every token issued to the user.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID int64) (bool, error) {
	result := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&db.Token{})
	if result.Error != nil {
		return false, fmt.Errorf("revoke tokens for user %d: %w", userID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
