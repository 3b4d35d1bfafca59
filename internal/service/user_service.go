package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shapelessblog/internal/db"
	"gorm.io/gorm"
)

// UserService wraps user related database operations.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Create 对密码做哈希后插入新用户，用户名冲突时返回 DuplicateUsernameError。
func (s *UserService) Create(ctx context.Context, username, password string) (*db.User, error) {
	user := db.User{
		Username:       username,
		HashedPassword: db.MustHashPassword(password),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, &DuplicateUsernameError{Username: username}
		}
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return &user, nil
}

// Register 先按用户名查询，只有确认不存在时才插入，避免失败的插入消耗自增 ID。
func (s *UserService) Register(ctx context.Context, username, password string) (*db.User, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	existing, err := s.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, &DuplicateUsernameError{Username: existing.Username}
	case errors.Is(err, ErrNotFound):
		return s.Create(ctx, username, password)
	default:
		return nil, err
	}
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "get user %d", id)
	}
	return &user, nil
}

// GetByUsername fetches a user by unique username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "get user %q", username)
	}
	return &user, nil
}

// Update 以 (id, version) 为条件更新用户名与密码哈希，成功时版本号加一并返回新记录。
func (s *UserService) Update(ctx context.Context, user *db.User) (*db.User, error) {
	var updated db.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&db.User{}).
			Where("id = ? AND version = ?", user.ID, user.Version).
			Updates(map[string]interface{}{
				"username":        user.Username,
				"hashed_password": user.HashedPassword,
				"version":         gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			if isDuplicateKey(result.Error) {
				return &DuplicateUsernameError{Username: user.Username}
			}
			return fmt.Errorf("update user %d: %w", user.ID, result.Error)
		}
		if result.RowsAffected == 0 {
			return missingOrStale(tx, &db.User{}, user.ID)
		}
		return tx.First(&updated, user.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a user row. A missing id is not an error.
func (s *UserService) Delete(ctx context.Context, id int64) (bool, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&db.User{})
	if result.Error != nil {
		return false, fmt.Errorf("delete user %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UpdateAccount 是用户自助修改账号的流程：只能修改自己，可选地校验客户端持有的版本号。
func (s *UserService) UpdateAccount(ctx context.Context, actorID, id int64, username, password string, version *int64) (*db.User, error) {
	if actorID != id {
		return nil, ErrUnauthorized
	}
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if version != nil && *version != current.Version {
		return nil, ErrVersionConflict
	}

	current.Username = username
	current.HashedPassword = db.MustHashPassword(password)
	return s.Update(ctx, current)
}

// DeleteAccount 删除用户本人及其令牌、文章与标签，全部在同一事务内完成。
func (s *UserService) DeleteAccount(ctx context.Context, actorID, id int64) error {
	if actorID != id {
		return ErrUnauthorized
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&db.Blog{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("blog_id IN (?)", owned).Delete(&db.Tag{}).Error; err != nil {
			return fmt.Errorf("delete tags of user %d: %w", id, err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&db.Blog{}).Error; err != nil {
			return fmt.Errorf("delete blogs of user %d: %w", id, err)
		}
		if _, err := NewTokenService(tx).RevokeAllForUser(ctx, id); err != nil {
			return err
		}

		deleted, err := NewUserService(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		return nil
	})
}

func validateCredentials(username, password string) error {
	if username == "" {
		return &InvalidInputError{Field: "username", Reason: "must not be empty"}
	}
	if password == "" {
		return &InvalidInputError{Field: "password", Reason: "must not be empty"}
	}
	if len(password) > db.MaxPasswordBytes {
		return &InvalidInputError{Field: "password", Reason: fmt.Sprintf("must be at most %d bytes", db.MaxPasswordBytes)}
	}
	return nil
}

// missingOrStale 在条件更新未命中任何行时区分“记录不存在”和“版本已过期”。
func missingOrStale(tx *gorm.DB, model interface{}, id int64) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check existence of %d: %w", id, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrVersionConflict
}
