package store

import (
	"context"
	"errors"
	"testing"
)

func TestPostLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "alice")

	post := &CommunityPost{
		UserID:  user.ID,
		Title:   "How do I approach epsilon-delta proofs?",
		Content: "Every proof I write gets rejected by my TA.",
		Tags:    StringList{"analysis"},
		Likes:   42,
	}
	if err := store.CreatePost(ctx, post); err != nil {
		t.Fatalf("create post: %v", err)
	}

	fetched, err := store.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if fetched.Likes != 0 || fetched.Solved {
		t.Fatalf("engagement counters must start clean: %+v", fetched)
	}

	updated, err := store.UpdatePost(ctx, post.ID, map[string]any{
		"likes":  3,
		"solved": true,
	})
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	if updated.Likes != 3 || !updated.Solved {
		t.Fatalf("update did not apply: %+v", updated)
	}

	posts, err := store.ListPosts(ctx)
	if err != nil || len(posts) != 1 {
		t.Fatalf("list posts: %v (%d)", err, len(posts))
	}

	if err := store.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if _, err := store.GetPost(ctx, post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
