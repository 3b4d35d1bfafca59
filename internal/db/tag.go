package db

// Tag 没有独立主键，总是以文章为单位整体写入或删除，同一文章允许重复标签。
type Tag struct {
	Name   string `gorm:"index;not null" json:"name"`
	BlogID int64  `gorm:"index;not null" json:"blog_id"`
}
