package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shapelessblog/internal/handler"
	"github.com/shapelessblog/internal/logging"
	"github.com/shapelessblog/internal/metrics"
	"github.com/shapelessblog/internal/view"
)

// Options 控制路由装配中与部署相关的开关。
type Options struct {
	OpenRegistration bool
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestID(), logging.RequestLogger(), metrics.Middleware())

	// 加载内嵌模板
	tmpl, err := view.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 公开页面
	r.GET("/", api.ShowHome)
	r.GET("/posts/:url", api.ShowPost)
	r.GET("/tags/", api.ShowTagList)
	r.GET("/tags/:name", api.ShowTag)

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/authentication", api.Login)

		// 需要认证的接口
		auth := apiGroup.Group("")
		auth.Use(api.AuthRequired())
		{
			auth.GET("/user/:id", api.ShowUser)
			auth.PUT("/user/:id", api.UpdateUser)
			auth.DELETE("/user/:id", api.DeleteUser)

			auth.POST("/blog/", api.CreateBlog)
			auth.GET("/blog/:id", api.ShowBlog)
			auth.PATCH("/blog/:id", api.UpdateBlog)
			auth.DELETE("/blog/:id", api.DeleteBlog)
			auth.GET("/blogs/", api.ListBlogs)

			auth.POST("/force-blog/", api.ForceCreateBlog)
			auth.PUT("/force-blog/:id", api.ForceUpdateBlog)

			auth.GET("/tags/", api.ListTags)
		}

		if opts.OpenRegistration {
			apiGroup.POST("/user/", api.CreateUser)
		} else {
			auth.POST("/user/", api.CreateUser)
		}
	}

	r.NoRoute(api.NotFoundPage)

	return r, nil
}
