package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shapelessblog/internal/config"
	"github.com/shapelessblog/internal/db"
	"github.com/shapelessblog/internal/logging"
	"github.com/shapelessblog/internal/service"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type seedUser struct {
	username string
	password string
}

type seedPost struct {
	url     string
	title   string
	preview string
	content string
	tags    []string
	created string
}

var (
	seedUsers = []seedUser{
		{username: "admin", password: "admin123"},
		{username: "testuser", password: "user123"},
	}

	seedPosts = []seedPost{
		{
			url:     "building-web-services-in-go",
			title:   "使用Go语言构建高性能Web服务",
			preview: "探索如何使用Go语言构建高性能的Web服务，包括框架选择与性能优化。",
			content: "## 为什么是 Go\n\nGo 语言因其出色的并发性能和简洁的语法，成为构建 Web 服务的理想选择。\n\n- goroutine 与 channel\n- 标准库 net/http\n- 丰富的生态",
			tags:    []string{"Go", "Web开发", "技术"},
			created: "2023-03-12",
		},
		{
			url:     "optimistic-locking",
			title:   "用版本号实现乐观锁",
			preview: "在不加锁的前提下避免并发写覆盖。",
			content: "每条记录带一个 `version` 字段，更新时附带 `WHERE version = ?`，影响行数为 0 即说明发生了冲突。",
			tags:    []string{"数据库", "技术"},
			created: "2023-05-02",
		},
		{
			url:     "markdown-rendering",
			title:   "Markdown 渲染与 XSS 清洗",
			preview: "goldmark 负责渲染，bluemonday 负责清洗。",
			content: "```go\nmarkdownEngine.Convert(src, &buf)\n```\n\n渲染结果必须经过清洗再输出到页面。",
			tags:    []string{"教程", "Web开发"},
			created: "2023-08-20",
		},
		{
			url:     "weekend-notes",
			title:   "周末随笔",
			preview: "慢下来，记录生活。",
			content: "天气很好，适合散步和读书。",
			tags:    []string{"生活"},
			created: "2024-01-06",
		},
		{
			url:     "long-term-thinking",
			title:   "关于长期主义的思考",
			preview: "复利来自持续的小改进。",
			content: "> 日拱一卒，功不唐捐。\n\n持续记录是最好的复盘方式。",
			tags:    []string{"思考", "生活"},
			created: "2024-04-18",
		},
	}
)

// 测试数据生成器
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("加载配置失败: %v", err)
	}
	cfg.LogDir = ""
	if _, err := logging.Setup(cfg); err != nil {
		logrus.Fatalf("初始化日志失败: %v", err)
	}

	gdb, err := db.Open(db.Options{
		Driver: cfg.DatabaseDriver,
		DSN:    cfg.DatabaseDSN,
		Logger: logging.GormLogger(),
	})
	if err != nil {
		logrus.Fatalf("数据库初始化失败: %v", err)
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("数据库迁移失败: %v", err)
	}

	fmt.Println("开始生成测试数据...")
	created, err := seed(context.Background(), gdb)
	if err != nil {
		logrus.Fatalf("生成测试数据失败: %v", err)
	}
	fmt.Printf("测试数据生成完成，新增文章 %d 篇\n", created)
	fmt.Println("用户: admin (密码: admin123)")
}

// seed 创建演示用户与文章。已存在的用户会被跳过，库里已有文章时不再写入文章。
func seed(ctx context.Context, gdb *gorm.DB) (int, error) {
	users := service.NewUserService(gdb)

	var owner *db.User
	for _, u := range seedUsers {
		user, err := users.Register(ctx, u.username, u.password)
		if errors.Is(err, service.ErrDuplicateUsername) {
			user, err = users.GetByUsername(ctx, u.username)
		}
		if err != nil {
			return 0, fmt.Errorf("seed user %s: %w", u.username, err)
		}
		if owner == nil {
			owner = user
		}
	}

	var count int64
	if err := gdb.WithContext(ctx).Model(&db.Blog{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		fmt.Println("文章已存在，跳过创建")
		return 0, nil
	}

	writer := service.NewBlogWriter(gdb)
	for _, post := range seedPosts {
		created, err := time.ParseInLocation("2006-01-02", post.created, time.UTC)
		if err != nil {
			return 0, err
		}
		_, err = writer.ForceCreate(ctx, owner.ID, service.ForceBlogInput{
			BlogInput: service.BlogInput{
				URL:     post.url,
				Title:   post.title,
				Preview: post.preview,
				Content: post.content,
				Tags:    post.tags,
			},
			CreateTime: created,
			EditTime:   created,
		})
		if err != nil {
			return 0, fmt.Errorf("seed post %s: %w", post.url, err)
		}
	}

	fmt.Println("✅ 测试文章创建完成")
	return len(seedPosts), nil
}
