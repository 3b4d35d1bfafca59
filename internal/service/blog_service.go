package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shapelessblog/internal/db"
	"gorm.io/gorm"
)

// BlogService wraps blog related database operations.
type BlogService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewBlog 描述普通创建时由调用方提供的字段，时间戳由服务端生成。
type NewBlog struct {
	UserID  int64
	URL     string
	Title   string
	Preview string
	Content string
}

// ForceNewBlog 与 NewBlog 相同，但创建与编辑时间由调用方原样提供（导入/管理路径）。
type ForceNewBlog struct {
	NewBlog
	CreateTime time.Time
	EditTime   time.Time
}

// NewBlogService creates a BlogService instance.
func NewBlogService(gdb *gorm.DB) *BlogService {
	return newBlogServiceWithClock(gdb, time.Now)
}

func newBlogServiceWithClock(gdb *gorm.DB, now func() time.Time) *BlogService {
	if now == nil {
		now = time.Now
	}
	return &BlogService{db: gdb, now: now}
}

// Create inserts a blog with create_time = edit_time = now and version 0.
func (s *BlogService) Create(ctx context.Context, input NewBlog) (*db.Blog, error) {
	now := s.now().UTC()
	return s.insert(ctx, input, now, now)
}

// ForceCreate inserts a blog with caller supplied timestamps.
func (s *BlogService) ForceCreate(ctx context.Context, input ForceNewBlog) (*db.Blog, error) {
	return s.insert(ctx, input.NewBlog, input.CreateTime.UTC(), input.EditTime.UTC())
}

func (s *BlogService) insert(ctx context.Context, input NewBlog, createTime, editTime time.Time) (*db.Blog, error) {
	blog := db.Blog{
		UserID:     input.UserID,
		URL:        input.URL,
		Title:      input.Title,
		Preview:    input.Preview,
		Content:    input.Content,
		CreateTime: createTime,
		EditTime:   editTime,
	}
	if err := s.db.WithContext(ctx).Create(&blog).Error; err != nil {
		return nil, fmt.Errorf("create blog %q: %w", input.URL, err)
	}
	return &blog, nil
}

// Update 以 (id, version) 为条件写入合并后的字段，edit_time 刷新为当前时间，版本号加一。
func (s *BlogService) Update(ctx context.Context, blog *db.Blog) (*db.Blog, error) {
	return s.conditionalUpdate(ctx, blog, map[string]interface{}{
		"url":       blog.URL,
		"title":     blog.Title,
		"preview":   blog.Preview,
		"content":   blog.Content,
		"edit_time": s.now().UTC(),
		"version":   gorm.Expr("version + 1"),
	})
}

// ForceUpdate 与 Update 的条件相同，但两个时间戳都取自调用方。
func (s *BlogService) ForceUpdate(ctx context.Context, blog *db.Blog) (*db.Blog, error) {
	return s.conditionalUpdate(ctx, blog, map[string]interface{}{
		"url":         blog.URL,
		"title":       blog.Title,
		"preview":     blog.Preview,
		"content":     blog.Content,
		"create_time": blog.CreateTime.UTC(),
		"edit_time":   blog.EditTime.UTC(),
		"version":     gorm.Expr("version + 1"),
	})
}

func (s *BlogService) conditionalUpdate(ctx context.Context, blog *db.Blog, values map[string]interface{}) (*db.Blog, error) {
	var updated db.Blog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&db.Blog{}).
			Where("id = ? AND version = ?", blog.ID, blog.Version).
			Updates(values)
		if result.Error != nil {
			return fmt.Errorf("update blog %d: %w", blog.ID, result.Error)
		}
		if result.RowsAffected == 0 {
			return missingOrStale(tx, &db.Blog{}, blog.ID)
		}
		return tx.First(&updated, blog.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Get returns the bare blog row.
func (s *BlogService) Get(ctx context.Context, id int64) (*db.Blog, error) {
	var blog db.Blog
	if err := s.db.WithContext(ctx).First(&blog, id).Error; err != nil {
		return nil, notFoundOr(err, "get blog %d", id)
	}
	return &blog, nil
}

// GetOwnerID 只读取 user_id，用于删除前的权限校验。
func (s *BlogService) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	var blog db.Blog
	if err := s.db.WithContext(ctx).Select("id", "user_id").First(&blog, id).Error; err != nil {
		return 0, notFoundOr(err, "get owner of blog %d", id)
	}
	return blog.UserID, nil
}

// GetFullByID returns the blog joined with its tags.
func (s *BlogService) GetFullByID(ctx context.Context, id int64) (*FullBlog, error) {
	var rows []blogTagRow
	if err := s.joined(ctx, true).
		Where("blogs.id = ?", id).
		Order("tags.name asc").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get full blog %d: %w", id, err)
	}
	return firstFull(rows)
}

// GetFullByURL 按 url 读取文章；url 不唯一时取 ID 最大（最新）的一篇。
func (s *BlogService) GetFullByURL(ctx context.Context, url string) (*FullBlog, error) {
	var rows []blogTagRow
	if err := s.joined(ctx, true).
		Where("blogs.url = ?", url).
		Order("blogs.id desc").
		Order("tags.name asc").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get full blog by url %q: %w", url, err)
	}
	return firstFull(rows)
}

// GetSimple returns the listing projection of a single blog.
func (s *BlogService) GetSimple(ctx context.Context, id int64) (*SimpleBlog, error) {
	var rows []blogTagRow
	if err := s.joined(ctx, false).
		Where("blogs.id = ?", id).
		Order("tags.name asc").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get simple blog %d: %w", id, err)
	}
	blogs := foldSimple(rows)
	if len(blogs) == 0 {
		return nil, ErrNotFound
	}
	return &blogs[0], nil
}

// ListSimple 返回全部（带标签的）文章摘要，按创建时间降序。
func (s *BlogService) ListSimple(ctx context.Context) ([]SimpleBlog, error) {
	var rows []blogTagRow
	if err := s.joined(ctx, false).
		Order("blogs.create_time desc").
		Order("blogs.id desc").
		Order("tags.name asc").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list simple blogs: %w", err)
	}
	return foldSimple(rows), nil
}

// Delete removes the blog row and reports whether it existed.
func (s *BlogService) Delete(ctx context.Context, id int64) (bool, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&db.Blog{})
	if result.Error != nil {
		return false, fmt.Errorf("delete blog %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *BlogService) joined(ctx context.Context, withContent bool) *gorm.DB {
	columns := []string{
		"blogs.id", "blogs.user_id", "blogs.url", "blogs.title", "blogs.preview",
		"blogs.create_time", "blogs.edit_time", "blogs.version", "tags.name AS tag_name",
	}
	if withContent {
		columns = append(columns, "blogs.content")
	}
	return s.db.WithContext(ctx).
		Table("blogs").
		Select(columns).
		Joins("JOIN tags ON blogs.id = tags.blog_id")
}
