package db

// User 定义了用户模型，Version 作为乐观锁令牌，每次成功更新加一。
type User struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username       string `gorm:"uniqueIndex;not null" json:"username"`
	HashedPassword string `gorm:"not null" json:"-"`
	Version        int64  `gorm:"not null" json:"version"`
}
