package handler

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shapelessblog/internal/logging"
	"github.com/shapelessblog/internal/view"
)

// trimHTMLExtension 去掉 .html 后缀；带其他扩展名时返回空串，调用方按 404 处理。
func trimHTMLExtension(name string) string {
	ext := path.Ext(name)
	if ext == "" || ext == name {
		return name
	}
	if ext == ".html" {
		return strings.TrimSuffix(name, ext)
	}
	return ""
}

// ShowHome 渲染首页文章列表
func (a *API) ShowHome(c *gin.Context) {
	blogs, err := a.blogs.ListSimple(c.Request.Context())
	if err != nil {
		a.renderWebError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"blogs": blogs,
	})
}

// ShowPost 按 url 渲染单篇文章
func (a *API) ShowPost(c *gin.Context) {
	url := trimHTMLExtension(c.Param("url"))
	if url == "" {
		a.renderNotFound(c)
		return
	}

	blog, err := a.blogs.GetFullByURL(c.Request.Context(), url)
	if err != nil {
		a.renderWebError(c, err)
		return
	}

	content, err := view.RenderMarkdown(blog.Content)
	if err != nil {
		a.renderWebError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "post.html", gin.H{
		"title":   blog.Title,
		"blog":    blog,
		"content": content,
	})
}

// ShowTagList 渲染全部标签
func (a *API) ShowTagList(c *gin.Context) {
	names, err := a.tags.ListNamesDistinct(c.Request.Context())
	if err != nil {
		a.renderWebError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "tags.html", gin.H{
		"title": "tags",
		"tags":  names,
	})
}

// ShowTag 渲染某个标签下的文章
func (a *API) ShowTag(c *gin.Context) {
	name := trimHTMLExtension(c.Param("name"))
	if name == "" {
		a.renderNotFound(c)
		return
	}

	blogs, err := a.tags.ListSimpleBlogsByTagName(c.Request.Context(), name)
	if err != nil {
		a.renderWebError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "tag.html", gin.H{
		"title": name,
		"tag":   name,
		"blogs": blogs,
	})
}

// NotFoundPage 作为 NoRoute 处理器：/api 下返回 JSON，其余返回页面。
func (a *API) NotFoundPage(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		respondError(c, http.StatusNotFound, msgNotFound)
		return
	}
	a.renderNotFound(c)
}

func (a *API) renderNotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{"title": "not found"})
}

func (a *API) renderWebError(c *gin.Context, err error) {
	mapped := toAPIError(err)
	if mapped.status == http.StatusNotFound {
		a.renderNotFound(c)
		return
	}

	_ = c.Error(err)
	logging.FromContext(c).WithError(err).Error("render page failed")
	a.renderHTML(c, http.StatusInternalServerError, "server_error.html", gin.H{"title": "error"})
}
