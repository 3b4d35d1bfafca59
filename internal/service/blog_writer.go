package service

import (
	"context"
	"time"

	"github.com/shapelessblog/internal/db"
	"gorm.io/gorm"
)

// BlogInput 是创建文章时的字段与标签。
type BlogInput struct {
	URL     string
	Title   string
	Preview string
	Content string
	Tags    []string
}

// ForceBlogInput carries every field including explicit timestamps.
type ForceBlogInput struct {
	BlogInput
	CreateTime time.Time
	EditTime   time.Time
}

// BlogPatch 是部分更新：nil 字段保留原值，Tags 为 nil 时不触碰标签。
// Version 非空时必须与当前版本一致。
type BlogPatch struct {
	URL     *string
	Title   *string
	Preview *string
	Content *string
	Tags    []string
	Version *int64
}

// BlogWriter 把涉及 blogs 与 tags 两张表的写操作放进同一个事务，
// 任一步失败时整体回滚，读者不会看到部分生效的标签集合。
type BlogWriter struct {
	db  *gorm.DB
	now func() time.Time
}

// NewBlogWriter creates a BlogWriter instance.
func NewBlogWriter(gdb *gorm.DB) *BlogWriter {
	return &BlogWriter{db: gdb, now: time.Now}
}

type txStores struct {
	blogs *BlogService
	tags  *TagService
}

func (w *BlogWriter) inTx(ctx context.Context, fn func(stores txStores) error) error {
	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txStores{
			blogs: newBlogServiceWithClock(tx, w.now),
			tags:  NewTagService(tx),
		})
	})
}

// Create 在一个事务内写入文章及其标签。
func (w *BlogWriter) Create(ctx context.Context, ownerID int64, input BlogInput) (*FullBlog, error) {
	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}

	var created *db.Blog
	err = w.inTx(ctx, func(stores txStores) error {
		blog, err := stores.blogs.Create(ctx, NewBlog{
			UserID:  ownerID,
			URL:     input.URL,
			Title:   input.Title,
			Preview: input.Preview,
			Content: input.Content,
		})
		if err != nil {
			return err
		}
		if err := stores.tags.CreateBatch(ctx, tags, blog.ID); err != nil {
			return err
		}
		created = blog
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewFullBlog(*created, tags), nil
}

// ForceCreate is Create with caller supplied timestamps.
func (w *BlogWriter) ForceCreate(ctx context.Context, ownerID int64, input ForceBlogInput) (*FullBlog, error) {
	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}

	var created *db.Blog
	err = w.inTx(ctx, func(stores txStores) error {
		blog, err := stores.blogs.ForceCreate(ctx, ForceNewBlog{
			NewBlog: NewBlog{
				UserID:  ownerID,
				URL:     input.URL,
				Title:   input.Title,
				Preview: input.Preview,
				Content: input.Content,
			},
			CreateTime: input.CreateTime,
			EditTime:   input.EditTime,
		})
		if err != nil {
			return err
		}
		if err := stores.tags.CreateBatch(ctx, tags, blog.ID); err != nil {
			return err
		}
		created = blog
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewFullBlog(*created, tags), nil
}

// Update 合并补丁字段后按版本号条件更新；提供了标签时整体替换（先删后插）。
func (w *BlogWriter) Update(ctx context.Context, actorID, blogID int64, patch BlogPatch) (*db.Blog, error) {
	if blogID < 0 {
		return nil, ErrNotFound
	}

	var tags []string
	if patch.Tags != nil {
		normalized, err := normalizeTags(patch.Tags)
		if err != nil {
			return nil, err
		}
		tags = normalized
	}

	var updated *db.Blog
	err := w.inTx(ctx, func(stores txStores) error {
		blog, err := stores.blogs.Get(ctx, blogID)
		if err != nil {
			return err
		}
		if blog.UserID != actorID {
			return ErrUnauthorized
		}
		if patch.Version != nil && *patch.Version != blog.Version {
			return ErrVersionConflict
		}

		if patch.URL != nil {
			blog.URL = *patch.URL
		}
		if patch.Title != nil {
			blog.Title = *patch.Title
		}
		if patch.Preview != nil {
			blog.Preview = *patch.Preview
		}
		if patch.Content != nil {
			blog.Content = *patch.Content
		}

		updated, err = stores.blogs.Update(ctx, blog)
		if err != nil {
			return err
		}

		if tags != nil {
			return replaceTags(ctx, stores.tags, blogID, tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ForceUpdate 覆盖全部字段（包括两个时间戳）并总是替换标签。
func (w *BlogWriter) ForceUpdate(ctx context.Context, actorID, blogID int64, input ForceBlogInput, version *int64) (*db.Blog, error) {
	if blogID < 0 {
		return nil, ErrNotFound
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}

	var updated *db.Blog
	err = w.inTx(ctx, func(stores txStores) error {
		blog, err := stores.blogs.Get(ctx, blogID)
		if err != nil {
			return err
		}
		if blog.UserID != actorID {
			return ErrUnauthorized
		}
		if version != nil && *version != blog.Version {
			return ErrVersionConflict
		}

		blog.URL = input.URL
		blog.Title = input.Title
		blog.Preview = input.Preview
		blog.Content = input.Content
		blog.CreateTime = input.CreateTime
		blog.EditTime = input.EditTime

		updated, err = stores.blogs.ForceUpdate(ctx, blog)
		if err != nil {
			return err
		}
		return replaceTags(ctx, stores.tags, blogID, tags)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a blog and its tags after checking ownership.
func (w *BlogWriter) Delete(ctx context.Context, actorID, blogID int64) error {
	if blogID < 0 {
		return ErrNotFound
	}

	return w.inTx(ctx, func(stores txStores) error {
		ownerID, err := stores.blogs.GetOwnerID(ctx, blogID)
		if err != nil {
			return err
		}
		if ownerID != actorID {
			return ErrUnauthorized
		}

		if _, err := stores.tags.DeleteAllForBlog(ctx, blogID); err != nil {
			return err
		}
		deleted, err := stores.blogs.Delete(ctx, blogID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		return nil
	})
}

func replaceTags(ctx context.Context, tags *TagService, blogID int64, names []string) error {
	if _, err := tags.DeleteAllForBlog(ctx, blogID); err != nil {
		return err
	}
	return tags.CreateBatch(ctx, names, blogID)
}
