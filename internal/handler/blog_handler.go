package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shapelessblog/internal/service"
)

type blogRequest struct {
	URL     string   `json:"url" binding:"required"`
	Title   string   `json:"title" binding:"required"`
	Preview string   `json:"preview"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type blogPatchRequest struct {
	URL     *string  `json:"url"`
	Title   *string  `json:"title"`
	Preview *string  `json:"preview"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
	Version *int64   `json:"version"`
}

type forceBlogRequest struct {
	blogRequest
	CreateTime string `json:"create_time" binding:"required"`
	EditTime   string `json:"edit_time" binding:"required"`
	Version    *int64 `json:"version"`
}

var errInvalidTimeString = errors.New("invalid time string")

func (r blogRequest) toInput() service.BlogInput {
	return service.BlogInput{
		URL:     r.URL,
		Title:   r.Title,
		Preview: r.Preview,
		Content: r.Content,
		Tags:    r.Tags,
	}
}

func (r forceBlogRequest) toInput() (service.ForceBlogInput, error) {
	createTime, err := parseTimeString(r.CreateTime)
	if err != nil {
		return service.ForceBlogInput{}, err
	}
	editTime, err := parseTimeString(r.EditTime)
	if err != nil {
		return service.ForceBlogInput{}, err
	}
	return service.ForceBlogInput{
		BlogInput:  r.blogRequest.toInput(),
		CreateTime: createTime,
		EditTime:   editTime,
	}, nil
}

// parseTimeString 接受 YYYY-MM-DD（按 UTC 零点）或 RFC 3339。
func parseTimeString(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation("2006-01-02", raw, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errInvalidTimeString
}

// CreateBlog 创建文章及其标签
func (a *API) CreateBlog(c *gin.Context) {
	ownerID, _ := currentUserID(c)

	var req blogRequest
	if !bindJSON(c, &req, msgInvalidRequest) {
		return
	}

	blog, err := a.writer.Create(c.Request.Context(), ownerID, req.toInput())
	if err != nil {
		respondServiceError(c, "blog", err)
		return
	}

	c.JSON(http.StatusCreated, blog)
}

// ShowBlog 获取单篇文章（含标签）
func (a *API) ShowBlog(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil || id < 0 {
		respondError(c, http.StatusNotFound, msgNotFound)
		return
	}

	blog, err := a.blogs.GetFullByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "blog", err)
		return
	}

	c.JSON(http.StatusOK, blog)
}

// UpdateBlog 部分更新文章，未提供的字段保持不变
func (a *API) UpdateBlog(c *gin.Context) {
	actorID, _ := currentUserID(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, msgNotFound)
		return
	}

	var req blogPatchRequest
	if !bindJSON(c, &req, msgInvalidRequest) {
		return
	}

	patch := service.BlogPatch{
		URL:     req.URL,
		Title:   req.Title,
		Preview: req.Preview,
		Content: req.Content,
		Tags:    req.Tags,
		Version: req.Version,
	}
	if _, err := a.writer.Update(c.Request.Context(), actorID, id, patch); err != nil {
		respondServiceError(c, "blog", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteBlog 删除文章及其标签
func (a *API) DeleteBlog(c *gin.Context) {
	actorID, _ := currentUserID(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, msgNotFound)
		return
	}

	if err := a.writer.Delete(c.Request.Context(), actorID, id); err != nil {
		respondServiceError(c, "blog", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListBlogs 返回所有文章摘要，按创建时间倒序
func (a *API) ListBlogs(c *gin.Context) {
	blogs, err := a.blogs.ListSimple(c.Request.Context())
	if err != nil {
		respondServiceError(c, "blog", err)
		return
	}

	c.JSON(http.StatusOK, blogs)
}

// ForceCreateBlog 以调用方给定的时间戳创建文章，用于导入历史内容
func (a *API) ForceCreateBlog(c *gin.Context) {
	ownerID, _ := currentUserID(c)

	var req forceBlogRequest
	if !bindJSON(c, &req, msgInvalidRequest) {
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidTime)
		return
	}

	blog, err := a.writer.ForceCreate(c.Request.Context(), ownerID, input)
	if err != nil {
		respondServiceError(c, "blog", err)
		return
	}

	c.JSON(http.StatusCreated, blog)
}

// ForceUpdateBlog 覆盖文章全部字段，包括两个时间戳与标签
func (a *API) ForceUpdateBlog(c *gin.Context) {
	actorID, _ := currentUserID(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, msgNotFound)
		return
	}

	var req forceBlogRequest
	if !bindJSON(c, &req, msgInvalidRequest) {
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidTime)
		return
	}

	if _, err := a.writer.ForceUpdate(c.Request.Context(), actorID, id, input, req.Version); err != nil {
		respondServiceError(c, "blog", err)
		return
	}

	c.Status(http.StatusNoContent)
}
