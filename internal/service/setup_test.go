package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shapelessblog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d-%d?mode=memory&cache=shared", time.Now().UnixNano(), testDBSeq.Add(1))
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

	t.Cleanup(func() {
		_ = db.Close(gdb)
	})
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, username string) *db.User {
	t.Helper()
	user, err := NewUserService(gdb).Register(context.Background(), username, "secret1")
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func strPtr(v string) *string { return &v }

func int64Ptr(v int64) *int64 { return &v }
