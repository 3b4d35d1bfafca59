package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shapelessblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrVersionConflict = errors.New("version conflict")
	ErrUnauthorized    = errors.New("operation not permitted")
	ErrInvalidInput    = errors.New("invalid input")

	ErrDuplicateUsername = errors.New("username already exists")

	ErrNoAuthorizationHeader  = errors.New("no authorization header")
	ErrInvalidAuthScheme      = errors.New("authorization scheme is not Bearer")
	ErrInvalidToken           = errors.New("token not recognised")
	ErrExpiredToken           = errors.New("token expired")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrCredentialVerification = db.ErrCredentialVerification
)

// DuplicateUsernameError 携带冲突的用户名，便于边界层生成提示。
type DuplicateUsernameError struct {
	Username string
}

func (e *DuplicateUsernameError) Error() string {
	return fmt.Sprintf("username %s already exists", e.Username)
}

func (e *DuplicateUsernameError) Is(target error) bool {
	return target == ErrDuplicateUsername
}

// InvalidInputError wraps a field-level validation failure.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

const pgUniqueViolation = "23505"

// isDuplicateKey 识别唯一约束冲突：优先使用 gorm 的错误翻译，
// 其次检查 Postgres 的 SQLSTATE，最后回退到 SQLite 的错误文本。
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
