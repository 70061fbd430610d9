package store

import (
	"context"
	"errors"
	"testing"
)

func createTestPaper(t *testing.T, store *Store, userID int64, title string) *QuestionPaper {
	t.Helper()
	paper := &QuestionPaper{
		UserID:       userID,
		Title:        title,
		Subject:      "Mathematics",
		Difficulty:   "Medium",
		PaperContent: "Q1. Integrate x^2 dx.",
		Tags:         StringList{"calculus", "integration"},
	}
	if err := store.CreatePaper(context.Background(), paper); err != nil {
		t.Fatalf("create paper: %v", err)
	}
	return paper
}

func TestPaperStartsUnanalyzed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "alice")

	paper := createTestPaper(t, store, user.ID, "Calculus Final 2024")
	fetched, err := store.GetPaper(ctx, paper.ID)
	if err != nil {
		t.Fatalf("get paper: %v", err)
	}
	if fetched.Analyzed {
		t.Fatalf("new paper must start unanalyzed")
	}
	if fetched.AnalysisResults != nil {
		t.Fatalf("new paper must have no analysis results")
	}
	if len(fetched.Tags) != 2 || fetched.Tags[0] != "calculus" {
		t.Fatalf("tags did not round-trip: %v", fetched.Tags)
	}
}

func TestMarkPaperAnalyzed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "alice")
	paper := createTestPaper(t, store, user.ID, "Calculus Final 2024")

	results := JSONMap{
		"topics":     []any{"Integration"},
		"difficulty": "Medium",
	}
	updated, err := store.MarkPaperAnalyzed(ctx, paper.ID, results)
	if err != nil {
		t.Fatalf("mark analyzed: %v", err)
	}
	if !updated.Analyzed {
		t.Fatalf("paper not marked analyzed")
	}
	if updated.AnalysisResults["difficulty"] != "Medium" {
		t.Fatalf("results did not round-trip: %v", updated.AnalysisResults)
	}

	if _, err := store.MarkPaperAnalyzed(ctx, paper.ID, nil); err == nil {
		t.Fatalf("expected error for empty results")
	}
	if _, err := store.MarkPaperAnalyzed(ctx, 404, results); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAndDeletePapers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	createTestPaper(t, store, alice.ID, "Paper A")
	createTestPaper(t, store, alice.ID, "Paper B")
	createTestPaper(t, store, bob.ID, "Paper C")

	papers, err := store.ListPapersByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list papers: %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("expected 2 papers, got %d", len(papers))
	}

	if err := store.DeletePaper(ctx, papers[0].ID); err != nil {
		t.Fatalf("delete paper: %v", err)
	}
	if err := store.DeletePaper(ctx, papers[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	papers, _ = store.ListPapersByUser(ctx, alice.ID)
	if len(papers) != 1 {
		t.Fatalf("expected 1 paper after delete, got %d", len(papers))
	}
}
