package db

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrCredentialVerification 表示存储的密码哈希无法被解析。
var ErrCredentialVerification = errors.New("credential verification failed")

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// HashPassword 使用 bcrypt 默认代价生成密码哈希。
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// MustHashPassword 在哈希原语本身出错时终止进程。
// 调用方需要先校验密码长度，这样剩下的失败只可能来自运行环境。
func MustHashPassword(password string) string {
	hashed, err := HashPassword(password)
	if err != nil {
		logrus.WithError(err).Fatal("cannot hash password")
	}
	return hashed
}

// VerifyPassword compares a plaintext password with a stored bcrypt hash.
func VerifyPassword(password, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrCredentialVerification, err)
	}
}
