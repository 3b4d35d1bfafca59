package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shapelessblog/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// parseIDParam 解析路径中的 int64 ID。负数可以解析成功，由 service 层按不存在处理。
func parseIDParam(c *gin.Context, key string) (int64, error) {
	raw := c.Param(key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return id, nil
}

// currentUserID returns the id stored by AuthRequired, falling back to the request context.
func currentUserID(c *gin.Context) (int64, bool) {
	if value, exists := c.Get(userIDContextKey); exists {
		if id, ok := value.(int64); ok {
			return id, true
		}
	}
	return service.UserIDFrom(c.Request.Context())
}
