package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shapelessblog/internal/service"
)

func seedWebBlog(t *testing.T, api *API, ownerID int64, url, content string, tags ...string) {
	t.Helper()
	at := time.Date(2022, 8, 9, 15, 0, 0, 0, time.UTC)
	_, err := api.writer.ForceCreate(t.Context(), ownerID, service.ForceBlogInput{
		BlogInput:  service.BlogInput{URL: url, Title: "Title " + url, Preview: "preview " + url, Content: content, Tags: tags},
		CreateTime: at,
		EditTime:   at,
	})
	if err != nil {
		t.Fatalf("seed blog: %v", err)
	}
}

func getPage(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestShowHomeListsBlogs(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()
	r := newTestEngine(t, api)
	userID, _ := registerAndLogin(t, api, "alice")
	seedWebBlog(t, api, userID, "first-post", "body", "go")

	w := getPage(r, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"test blog", "Title first-post", "2022-08-09", `href="/posts/first-post"`, `href="/tags/go"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected home page to contain %q, got %s", want, body)
		}
	}
}

func TestShowPostRendersMarkdown(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()
	r := newTestEngine(t, api)
	userID, _ := registerAndLogin(t, api, "alice")
	seedWebBlog(t, api, userID, "md", "## Section\n\n<script>alert(1)</script>", "go")

	for _, path := range []string{"/posts/md", "/posts/md.html"} {
		w := getPage(r, path)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", path, w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "<h2") {
			t.Fatalf("expected rendered heading, got %s", body)
		}
		if strings.Contains(body, "<script>alert(1)</script>") {
			t.Fatalf("expected script to be sanitized")
		}
	}

	for _, path := range []string{"/posts/md.txt", "/posts/missing"} {
		if w := getPage(r, path); w.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for %s, got %d", path, w.Code)
		}
	}
}

func TestTagPages(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()
	r := newTestEngine(t, api)
	userID, _ := registerAndLogin(t, api, "alice")
	seedWebBlog(t, api, userID, "one", "body", "go", "db")
	seedWebBlog(t, api, userID, "two", "body", "rust")

	w := getPage(r, "/tags/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	for _, want := range []string{`href="/tags/db"`, `href="/tags/go"`, `href="/tags/rust"`} {
		if !strings.Contains(w.Body.String(), want) {
			t.Fatalf("expected tag list to contain %q", want)
		}
	}

	w = getPage(r, "/tags/go.html")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Title one") || strings.Contains(w.Body.String(), "Title two") {
		t.Fatalf("unexpected tag page %s", w.Body.String())
	}
}

func TestNotFoundPage(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()
	r := newTestEngine(t, api)

	w := getPage(r, "/nowhere")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "404") {
		t.Fatalf("expected html 404, got %d %s", w.Code, w.Body.String())
	}

	w = getPage(r, "/api/nowhere")
	if w.Code != http.StatusNotFound || decodeError(t, w) != msgNotFound {
		t.Fatalf("expected json 404, got %d %s", w.Code, w.Body.String())
	}
}
