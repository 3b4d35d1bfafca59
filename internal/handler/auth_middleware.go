package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shapelessblog/internal/metrics"
	"github.com/shapelessblog/internal/service"
)

const userIDContextKey = "user_id"

// AuthRequired 校验 Bearer 令牌，成功后把用户 ID 写入 gin 上下文与请求 context。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := a.auth.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		metrics.AuthAttempts.WithLabelValues(authResult(err)).Inc()
		if err != nil {
			mapped := toAPIError(err)
			logServiceError(c, mapped.status, err)
			abortWithError(c, mapped.status, mapped.message)
			return
		}

		c.Set(userIDContextKey, userID)
		c.Request = c.Request.WithContext(service.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func authResult(err error) string {
	switch {
	case err == nil:
		return metrics.AuthOK
	case errors.Is(err, service.ErrNoAuthorizationHeader):
		return metrics.AuthMissingHeader
	case errors.Is(err, service.ErrInvalidAuthScheme):
		return metrics.AuthBadScheme
	case errors.Is(err, service.ErrInvalidToken):
		return metrics.AuthUnknownToken
	case errors.Is(err, service.ErrExpiredToken):
		return metrics.AuthExpired
	default:
		return metrics.AuthError
	}
}
