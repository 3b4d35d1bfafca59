package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shapelessblog/internal/db"
	"github.com/shapelessblog/internal/view"
	"gorm.io/gorm/logger"
)

var handlerDBSeq atomic.Int64

func setupTestDB(t *testing.T) (*API, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d-%d?mode=memory&cache=shared", time.Now().UnixNano(), handlerDBSeq.Add(1))
	gdb, err := db.Open(db.Options{
		Driver:       db.DriverSQLite,
		DSN:          dsn,
		MaxOpenConns: 1,
		Logger:       logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return NewAPI(gdb, Options{TokenTTL: time.Hour, SiteName: "test blog"}), func() {
		_ = db.Close(gdb)
	}
}

// newTestEngine wires the handlers the same way the router does, without metrics or logging middleware.
func newTestEngine(t *testing.T, api *API) *gin.Engine {
	t.Helper()

	tmpl, err := view.Templates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	r.GET("/", api.ShowHome)
	r.GET("/posts/:url", api.ShowPost)
	r.GET("/tags/", api.ShowTagList)
	r.GET("/tags/:name", api.ShowTag)

	public := r.Group("/api")
	public.POST("/authentication", api.Login)
	public.POST("/user/", api.CreateUser)

	protected := r.Group("/api", api.AuthRequired())
	protected.GET("/user/:id", api.ShowUser)
	protected.PUT("/user/:id", api.UpdateUser)
	protected.DELETE("/user/:id", api.DeleteUser)
	protected.POST("/blog/", api.CreateBlog)
	protected.GET("/blog/:id", api.ShowBlog)
	protected.PATCH("/blog/:id", api.UpdateBlog)
	protected.DELETE("/blog/:id", api.DeleteBlog)
	protected.GET("/blogs/", api.ListBlogs)
	protected.POST("/force-blog/", api.ForceCreateBlog)
	protected.PUT("/force-blog/:id", api.ForceUpdateBlog)
	protected.GET("/tags/", api.ListTags)

	r.NoRoute(api.NotFoundPage)
	return r
}

func doJSON(r http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates a user through the services and returns its id and a fresh token.
func registerAndLogin(t *testing.T, api *API, username string) (int64, string) {
	t.Helper()
	ctx := context.Background()

	user, err := api.users.Register(ctx, username, "secret1")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	token, err := api.auth.Login(ctx, username, "secret1")
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return user.ID, token.Token
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return payload.Error
}
