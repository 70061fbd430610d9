package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewWithDB(db, logger)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func createTestUser(t *testing.T, store *Store, username string) *User {
	t.Helper()
	user := &User{Username: username, Password: "hashed"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestUserLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := createTestUser(t, store, "alice")
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	fetched, err := store.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if fetched.Username != "alice" {
		t.Fatalf("username = %q", fetched.Username)
	}

	byName, err := store.GetUserByUsername(ctx, "alice")
	if err != nil || byName.ID != created.ID {
		t.Fatalf("get by username: %v", err)
	}

	updated, err := store.UpdateUser(ctx, created.ID, map[string]any{
		"first_name": "Alice",
		"email":      "alice@example.edu",
	})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.FirstName == nil || *updated.FirstName != "Alice" {
		t.Fatalf("first name not updated: %+v", updated)
	}

	if err := store.AddUserStudyHours(ctx, created.ID, 3); err != nil {
		t.Fatalf("add study hours: %v", err)
	}
	if err := store.AddUserStudyHours(ctx, created.ID, 2); err != nil {
		t.Fatalf("add study hours: %v", err)
	}
	fetched, _ = store.GetUser(ctx, created.ID)
	if fetched.StudyHours != 5 {
		t.Fatalf("study hours = %d, want 5", fetched.StudyHours)
	}
}

func TestUserNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetUser(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetUserByUsername(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.AddUserStudyHours(ctx, 404, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.UpdateUser(ctx, 404, map[string]any{"first_name": "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
