package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shapelessblog/internal/service"
	"gorm.io/gorm"
)

// Options 是 handler 层需要的运行期配置。
type Options struct {
	TokenTTL time.Duration
	SiteName string
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	users    *service.UserService
	tokens   *service.TokenService
	auth     *service.AuthService
	blogs    *service.BlogService
	tags     *service.TagService
	writer   *service.BlogWriter
	siteName string
}

const defaultSiteName = "shapeless blog"

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, opts Options) *API {
	users := service.NewUserService(db)
	tokens := service.NewTokenService(db)

	siteName := strings.TrimSpace(opts.SiteName)
	if siteName == "" {
		siteName = defaultSiteName
	}

	return &API{
		db:       db,
		users:    users,
		tokens:   tokens,
		auth:     service.NewAuthService(users, tokens, opts.TokenTTL),
		blogs:    service.NewBlogService(db),
		tags:     service.NewTagService(db),
		writer:   service.NewBlogWriter(db),
		siteName: siteName,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}
	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = a.siteName
	}

	c.HTML(status, template, payload)
}
