package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shapelessblog/internal/db"
	"gorm.io/gorm"
)

// TagService wraps tag related operations. Tags are always written per blog.
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// CreateBatch 以单条批量 INSERT 写入 (name, blog_id)，空列表直接返回。
func (s *TagService) CreateBatch(ctx context.Context, names []string, blogID int64) error {
	if len(names) == 0 {
		return nil
	}

	rows := make([]db.Tag, 0, len(names))
	for _, name := range names {
		rows = append(rows, db.Tag{Name: name, BlogID: blogID})
	}

	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert tags for blog %d: %w", blogID, err)
	}
	return nil
}

// DeleteAllForBlog removes every tag row of the blog and reports whether any existed.
func (s *TagService) DeleteAllForBlog(ctx context.Context, blogID int64) (bool, error) {
	result := s.db.WithContext(ctx).Where("blog_id = ?", blogID).Delete(&db.Tag{})
	if result.Error != nil {
		return false, fmt.Errorf("delete tags for blog %d: %w", blogID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListNamesDistinct 返回系统内全部去重后的标签名，按字典序升序。
func (s *TagService) ListNamesDistinct(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	if err := s.db.WithContext(ctx).
		Model(&db.Tag{}).
		Distinct().
		Order("name asc").
		Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("list tag names: %w", err)
	}
	return names, nil
}

// FindBlogIDsByTagName 返回带有该标签的文章 ID，按 ID 降序（近似于由新到旧）。
func (s *TagService) FindBlogIDsByTagName(ctx context.Context, name string) ([]int64, error) {
	ids := make([]int64, 0)
	if err := s.db.WithContext(ctx).
		Table("blogs").
		Joins("JOIN tags ON blogs.id = tags.blog_id").
		Where("tags.name = ?", name).
		Distinct().
		Order("blogs.id desc").
		Pluck("blogs.id", &ids).Error; err != nil {
		return nil, fmt.Errorf("find blogs by tag %q: %w", name, err)
	}
	return ids, nil
}

// ListSimpleBlogsByTagName resolves the blogs carrying a tag, newest id first.
func (s *TagService) ListSimpleBlogsByTagName(ctx context.Context, name string) ([]SimpleBlog, error) {
	ids, err := s.FindBlogIDsByTagName(ctx, name)
	if err != nil {
		return nil, err
	}

	blogs := NewBlogService(s.db)
	result := make([]SimpleBlog, 0, len(ids))
	for _, id := range ids {
		blog, err := blogs.GetSimple(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, *blog)
	}
	return result, nil
}

// normalizeTags 去除首尾空白并拒绝空标签；文章必须至少带一个标签才能出现在聚合读取中。
func normalizeTags(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, &InvalidInputError{Field: "tags", Reason: "at least one tag is required"}
	}

	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			return nil, &InvalidInputError{Field: "tags", Reason: "tag names must not be empty"}
		}
		normalized = append(normalized, trimmed)
	}
	return normalized, nil
}
