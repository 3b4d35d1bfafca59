package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shapelessblog/internal/db"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Version  *int64 `json:"version"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func newUserResponse(user *db.User) userResponse {
	return userResponse{ID: user.ID, Username: user.Username}
}

// CreateUser 注册新用户
func (a *API) CreateUser(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req, msgInvalidRequest) {
		return
	}

	user, err := a.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, "user", err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

// ShowUser 获取用户公开信息
func (a *API) ShowUser(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, msgNotFound)
		return
	}

	user, err := a.users.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "user", err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

// UpdateUser 修改自己的用户名和密码
func (a *API) UpdateUser(c *gin.Context) {
	actorID, _ := currentUserID(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, msgNotFound)
		return
	}

	var req updateUserRequest
	if !bindJSON(c, &req, msgInvalidRequest) {
		return
	}

	if _, err := a.users.UpdateAccount(c.Request.Context(), actorID, id, req.Username, req.Password, req.Version); err != nil {
		respondServiceError(c, "user", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteUser 删除自己的账号及其全部文章与令牌
func (a *API) DeleteUser(c *gin.Context) {
	actorID, _ := currentUserID(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, msgNotFound)
		return
	}

	if err := a.users.DeleteAccount(c.Request.Context(), actorID, id); err != nil {
		respondServiceError(c, "user", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Login 校验用户名密码并签发令牌
func (a *API) Login(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req, msgInvalidRequest) {
		return
	}

	token, err := a.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, "token", err)
		return
	}

	c.JSON(http.StatusCreated, token)
}
