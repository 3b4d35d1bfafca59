package db

import "time"

// Blog 定义了文章模型
type Blog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"index;not null" json:"user_id"`
	URL        string    `gorm:"index;not null" json:"url"`
	Title      string    `gorm:"not null" json:"title"`
	Preview    string    `gorm:"type:text;not null" json:"preview"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreateTime time.Time `gorm:"not null" json:"create_time"`
	EditTime   time.Time `gorm:"not null" json:"edit_time"`
	Version    int64     `gorm:"not null" json:"version"`
}
