package service

import (
	"time"

	"github.com/shapelessblog/internal/db"
)

// FullBlog 是单篇文章视图：文章字段加上有序的标签名列表。
type FullBlog struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Preview    string    `json:"preview"`
	Content    string    `json:"content"`
	CreateTime time.Time `json:"create_time"`
	EditTime   time.Time `json:"edit_time"`
	Version    int64     `json:"version"`
	Tags       []string  `json:"tags"`
}

// SimpleBlog is the listing projection; it omits content.
type SimpleBlog struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Preview    string    `json:"preview"`
	CreateTime time.Time `json:"create_time"`
	EditTime   time.Time `json:"edit_time"`
	Version    int64     `json:"version"`
	Tags       []string  `json:"tags"`
}

// NewFullBlog builds the aggregate from a stored row and the tags written with it.
func NewFullBlog(blog db.Blog, tags []string) *FullBlog {
	copied := make([]string, len(tags))
	copy(copied, tags)
	return &FullBlog{
		ID:         blog.ID,
		UserID:     blog.UserID,
		URL:        blog.URL,
		Title:      blog.Title,
		Preview:    blog.Preview,
		Content:    blog.Content,
		CreateTime: blog.CreateTime,
		EditTime:   blog.EditTime,
		Version:    blog.Version,
		Tags:       copied,
	}
}

// blogTagRow 是 blogs JOIN tags 的一行，每个标签一行，随后按文章折叠。
type blogTagRow struct {
	ID         int64
	UserID     int64
	URL        string
	Title      string
	Preview    string
	Content    string
	CreateTime time.Time
	EditTime   time.Time
	Version    int64
	TagName    string
}

func firstFull(rows []blogTagRow) (*FullBlog, error) {
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	first := rows[0]
	full := &FullBlog{
		ID:         first.ID,
		UserID:     first.UserID,
		URL:        first.URL,
		Title:      first.Title,
		Preview:    first.Preview,
		Content:    first.Content,
		CreateTime: first.CreateTime,
		EditTime:   first.EditTime,
		Version:    first.Version,
		Tags:       make([]string, 0, len(rows)),
	}
	for _, row := range rows {
		if row.ID != first.ID {
			break
		}
		full.Tags = append(full.Tags, row.TagName)
	}
	return full, nil
}

// foldSimple 依赖输入中同一文章的行是连续的（查询按文章排序）。
func foldSimple(rows []blogTagRow) []SimpleBlog {
	blogs := make([]SimpleBlog, 0)
	for _, row := range rows {
		if n := len(blogs); n > 0 && blogs[n-1].ID == row.ID {
			blogs[n-1].Tags = append(blogs[n-1].Tags, row.TagName)
			continue
		}
		blogs = append(blogs, SimpleBlog{
			ID:         row.ID,
			UserID:     row.UserID,
			URL:        row.URL,
			Title:      row.Title,
			Preview:    row.Preview,
			CreateTime: row.CreateTime,
			EditTime:   row.EditTime,
			Version:    row.Version,
			Tags:       []string{row.TagName},
		})
	}
	return blogs
}
