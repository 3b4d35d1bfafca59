package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shapelessblog/internal/logging"
	"github.com/shapelessblog/internal/metrics"
	"github.com/shapelessblog/internal/service"
)

// StatusClientClosedRequest 表示客户端在响应前断开了连接。
const StatusClientClosedRequest = 499

const (
	msgNotFound       = "the requested resource could not be found"
	msgUnauthorized   = "you are not allowed to do this operation"
	msgInternal       = "internal server error"
	msgInvalidTime    = "invalid time string"
	msgInvalidRequest = "invalid request body"
)

type apiError struct {
	status  int
	message string
}

// toAPIError 把 service 层错误映射为 HTTP 状态码与对外消息。未知错误一律 500，原始错误只写日志。
func toAPIError(err error) apiError {
	var dup *service.DuplicateUsernameError
	var invalid *service.InvalidInputError

	switch {
	case errors.Is(err, service.ErrNotFound):
		return apiError{http.StatusNotFound, msgNotFound}
	case errors.Is(err, service.ErrVersionConflict):
		return apiError{http.StatusConflict, "the resource was modified by another request, reload and try again"}
	case errors.As(err, &dup):
		return apiError{http.StatusConflict, dup.Error()}
	case errors.Is(err, service.ErrDuplicateUsername):
		return apiError{http.StatusConflict, "username already exists"}
	case errors.As(err, &invalid):
		return apiError{http.StatusBadRequest, invalid.Error()}
	case errors.Is(err, service.ErrInvalidInput):
		return apiError{http.StatusBadRequest, msgInvalidRequest}
	case errors.Is(err, service.ErrUnauthorized):
		return apiError{http.StatusUnauthorized, msgUnauthorized}
	case errors.Is(err, service.ErrNoAuthorizationHeader):
		return apiError{http.StatusUnauthorized, "no authorization header"}
	case errors.Is(err, service.ErrInvalidAuthScheme):
		return apiError{http.StatusUnauthorized, "invalid authorization scheme"}
	case errors.Is(err, service.ErrInvalidToken):
		return apiError{http.StatusUnauthorized, "invalid token"}
	case errors.Is(err, service.ErrExpiredToken):
		return apiError{http.StatusUnauthorized, "your token has expired"}
	case errors.Is(err, service.ErrInvalidCredentials):
		return apiError{http.StatusUnauthorized, "invalid username or password"}
	case errors.Is(err, service.ErrCredentialVerification):
		return apiError{http.StatusInternalServerError, "the password cannot be verified"}
	case errors.Is(err, context.Canceled):
		return apiError{StatusClientClosedRequest, "request canceled"}
	default:
		return apiError{http.StatusInternalServerError, msgInternal}
	}
}

// respondServiceError 是 API 的统一错误出口。
func respondServiceError(c *gin.Context, resource string, err error) {
	mapped := toAPIError(err)
	logServiceError(c, mapped.status, err)
	if errors.Is(err, service.ErrVersionConflict) {
		metrics.OptimisticConflicts.WithLabelValues(resource).Inc()
	}
	respondError(c, mapped.status, mapped.message)
}

func logServiceError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	entry := logging.FromContext(c).WithError(err)
	switch {
	case status == StatusClientClosedRequest:
		entry.Info("client closed request")
	case status >= http.StatusInternalServerError:
		entry.Error("request failed")
	default:
		entry.Debug("request rejected")
	}
}
