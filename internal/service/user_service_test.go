package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shapelessblog/internal/db"
)

func TestUserService_RegisterHashesPassword(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	user, err := svc.Register(context.Background(), "  alice ", "wonderland")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("expected trimmed username, got %q", user.Username)
	}
	if user.Version != 0 {
		t.Fatalf("expected version 0, got %d", user.Version)
	}
	if user.HashedPassword == "wonderland" {
		t.Fatalf("password must not be stored in clear text")
	}

	ok, err := db.VerifyPassword("wonderland", user.HashedPassword)
	if err != nil || !ok {
		t.Fatalf("expected stored hash to verify, ok=%v err=%v", ok, err)
	}
}

func TestUserService_RegisterDuplicateKeepsIDsDense(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)
	ctx := context.Background()

	first, err := svc.Register(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}

	_, err = svc.Register(ctx, "alice", "other")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if err.Error() != "username alice already exists" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	second, err := svc.Register(ctx, "bob", "secret2")
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if second.ID != first.ID+1 {
		t.Fatalf("expected dense ids, got %d after %d", second.ID, first.ID)
	}
}

func TestUserService_CreateTranslatesUniqueViolation(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("create alice: %v", err)
	}

	_, err := svc.Create(ctx, "alice", "secret2")
	var dup *DuplicateUsernameError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateUsernameError, got %v", err)
	}
	if dup.Username != "alice" {
		t.Fatalf("unexpected username in error: %q", dup.Username)
	}
}

func TestUserService_RegisterValidatesCredentials(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "   ", password: "secret"},
		{name: "empty password", username: "alice", password: ""},
		{name: "password too long", username: "alice", password: strings.Repeat("x", db.MaxPasswordBytes+1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.password)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUserService_UpdateBumpsVersion(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)
	ctx := context.Background()

	user := seedUser(t, gdb, "alice")
	stale := *user

	user.Username = "alice2"
	updated, err := svc.Update(ctx, user)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != stale.Version+1 {
		t.Fatalf("expected version %d, got %d", stale.Version+1, updated.Version)
	}
	if updated.Username != "alice2" {
		t.Fatalf("expected username alice2, got %q", updated.Username)
	}

	stale.Username = "alice3"
	if _, err := svc.Update(ctx, &stale); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict for stale version, got %v", err)
	}

	reloaded, err := svc.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded.Username != "alice2" || reloaded.Version != updated.Version {
		t.Fatalf("stale update must not change the row, got %+v", reloaded)
	}
}

func TestUserService_UpdateMissingUser(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	_, err := svc.Update(context.Background(), &db.User{ID: 42, Username: "ghost", HashedPassword: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_DeleteReportsExistence(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)
	ctx := context.Background()
	user := seedUser(t, gdb, "alice")

	deleted, err := svc.Delete(ctx, user.ID)
	if err != nil || !deleted {
		t.Fatalf("expected first delete to succeed, deleted=%v err=%v", deleted, err)
	}

	deleted, err = svc.Delete(ctx, user.ID)
	if err != nil || deleted {
		t.Fatalf("expected second delete to report false, deleted=%v err=%v", deleted, err)
	}

	if _, err := svc.Get(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUserService_UpdateAccountRequiresSelf(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)
	ctx := context.Background()

	alice := seedUser(t, gdb, "alice")
	bob := seedUser(t, gdb, "bob")

	if _, err := svc.UpdateAccount(ctx, bob.ID, alice.ID, "mallory", "secret", nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if _, err := svc.UpdateAccount(ctx, alice.ID, alice.ID, "alice", "newpass", int64Ptr(7)); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	updated, err := svc.UpdateAccount(ctx, alice.ID, alice.ID, "alice", "newpass", int64Ptr(0))
	if err != nil {
		t.Fatalf("update account: %v", err)
	}
	if updated.Version != 1 {
		t.Fatalf("expected version 1, got %d", updated.Version)
	}
	ok, err := db.VerifyPassword("newpass", updated.HashedPassword)
	if err != nil || !ok {
		t.Fatalf("expected new password to verify, ok=%v err=%v", ok, err)
	}

	if _, err := svc.UpdateAccount(ctx, alice.ID, alice.ID, "bob", "newpass", nil); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername when renaming onto bob, got %v", err)
	}
}

func TestUserService_DeleteAccountCascades(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)
	ctx := context.Background()

	alice := seedUser(t, gdb, "alice")
	bob := seedUser(t, gdb, "bob")

	writer := NewBlogWriter(gdb)
	aliceBlog, err := writer.Create(ctx, alice.ID, BlogInput{URL: "a", Title: "A", Tags: []string{"go"}})
	if err != nil {
		t.Fatalf("create alice blog: %v", err)
	}
	bobBlog, err := writer.Create(ctx, bob.ID, BlogInput{URL: "b", Title: "B", Tags: []string{"go"}})
	if err != nil {
		t.Fatalf("create bob blog: %v", err)
	}
	if _, err := NewTokenService(gdb).Issue(ctx, alice.ID, time.Hour); err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if err := svc.DeleteAccount(ctx, bob.ID, alice.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := svc.DeleteAccount(ctx, alice.ID, alice.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	if _, err := svc.Get(ctx, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected alice to be gone, got %v", err)
	}
	if _, err := NewBlogService(gdb).Get(ctx, aliceBlog.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected alice blog to be gone, got %v", err)
	}

	var tokenCount, tagCount int64
	gdb.Model(&db.Token{}).Where("user_id = ?", alice.ID).Count(&tokenCount)
	gdb.Model(&db.Tag{}).Where("blog_id = ?", aliceBlog.ID).Count(&tagCount)
	if tokenCount != 0 || tagCount != 0 {
		t.Fatalf("expected tokens and tags removed, tokens=%d tags=%d", tokenCount, tagCount)
	}

	if _, err := NewBlogService(gdb).GetFullByID(ctx, bobBlog.ID); err != nil {
		t.Fatalf("bob blog must survive: %v", err)
	}

	if err := svc.DeleteAccount(ctx, alice.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
