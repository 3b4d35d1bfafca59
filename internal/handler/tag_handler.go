package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListTags 获取去重后的全部标签名
func (a *API) ListTags(c *gin.Context) {
	names, err := a.tags.ListNamesDistinct(c.Request.Context())
	if err != nil {
		respondServiceError(c, "tag", err)
		return
	}

	c.JSON(http.StatusOK, names)
}
