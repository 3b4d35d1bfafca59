package db

import "time"

// Token 是登录后签发的不透明令牌。过期后的记录保留到下一次清理为止。
type Token struct {
	UserID      int64     `gorm:"index;not null" json:"user_id"`
	Token       string    `gorm:"uniqueIndex;size:64;not null" json:"token"`
	ExpiredTime time.Time `gorm:"not null" json:"expired_time"`
}

// IsExpired reports whether the token is no longer valid at the current time.
func (t Token) IsExpired() bool {
	return t.IsExpiredAt(time.Now())
}

// IsExpiredAt 判断令牌在给定时间点是否已过期（now >= expired_time 即视为过期）。
func (t Token) IsExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiredTime)
}
