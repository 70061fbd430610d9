package store

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestIncrementAnalyticsSameDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "alice")

	morning := time.Date(2025, 4, 2, 9, 15, 0, 0, time.UTC)
	evening := time.Date(2025, 4, 2, 21, 40, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := store.IncrementAnalytics(ctx, user.ID, CounterPapersAnalyzed, 1, morning); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	if err := store.IncrementAnalytics(ctx, user.ID, CounterPapersAnalyzed, 2, evening); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := store.IncrementAnalytics(ctx, user.ID, CounterAIInteractions, 1, evening); err != nil {
		t.Fatalf("increment: %v", err)
	}

	rows, err := store.ListDailyAnalytics(ctx, user.ID, 30)
	if err != nil {
		t.Fatalf("list daily: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row for one day, got %d", len(rows))
	}
	if rows[0].PapersAnalyzed != 5 {
		t.Fatalf("papersAnalyzed = %d, want 5", rows[0].PapersAnalyzed)
	}
	if rows[0].AIInteractions != 1 {
		t.Fatalf("aiInteractions = %d, want 1", rows[0].AIInteractions)
	}
}

func TestIncrementAnalyticsConcurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "alice")
	day := time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC)

	// The (user, day) row does not exist yet. Every increment races through
	// the same conditional upsert and none may be lost.
	const workers = 16
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.IncrementAnalytics(ctx, user.ID, CounterStudyHours, 1, day)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	rows, err := store.ListDailyAnalytics(ctx, user.ID, 30)
	if err != nil {
		t.Fatalf("list daily: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0].StudyHours != workers {
		t.Fatalf("studyHours = %d, want %d", rows[0].StudyHours, workers)
	}
}

func TestIncrementAnalyticsSeparateDays(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "alice")

	day1 := time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	if err := store.IncrementAnalytics(ctx, user.ID, CounterStudyHours, 2, day1); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := store.IncrementAnalytics(ctx, user.ID, CounterStudyHours, 4, day2); err != nil {
		t.Fatalf("increment: %v", err)
	}

	rows, err := store.ListDailyAnalytics(ctx, user.ID, 30)
	if err != nil {
		t.Fatalf("list daily: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected two rows for two days, got %d", len(rows))
	}
	if !rows[0].Date.After(rows[1].Date) {
		t.Fatalf("rows not ordered newest first")
	}

	summary, err := store.GetAnalyticsSummary(ctx, user.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.StudyHours != 6 || summary.DaysActive != 2 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestIncrementAnalyticsGuards(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "alice")
	now := time.Now()

	if err := store.IncrementAnalytics(ctx, user.ID, CounterField("bogus"), 1, now); err == nil {
		t.Fatalf("expected error for unknown counter")
	}
	if err := store.IncrementAnalytics(ctx, user.ID, CounterStudyHours, 0, now); err != nil {
		t.Fatalf("zero amount must be a no-op, got %v", err)
	}

	rows, _ := store.ListDailyAnalytics(ctx, user.ID, 30)
	if len(rows) != 0 {
		t.Fatalf("expected no rows after no-op increments, got %d", len(rows))
	}
}

func TestAnalyticsSummaryEmpty(t *testing.T) {
	store := newTestStore(t)
	user := createTestUser(t, store, "alice")

	summary, err := store.GetAnalyticsSummary(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.PapersAnalyzed != 0 || summary.DaysActive != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}
