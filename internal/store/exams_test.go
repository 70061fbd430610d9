package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExamLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "alice")

	later := time.Now().AddDate(0, 1, 0)
	sooner := time.Now().AddDate(0, 0, 7)

	finals := &ExamSchedule{
		UserID:        user.ID,
		ExamName:      "Calculus Final",
		ExamType:      "final",
		Date:          later,
		RelatedPapers: Int64List{1, 2},
	}
	quiz := &ExamSchedule{
		UserID:   user.ID,
		ExamName: "Algebra Quiz",
		ExamType: "quiz",
		Date:     sooner,
	}
	for _, exam := range []*ExamSchedule{finals, quiz} {
		if err := store.CreateExam(ctx, exam); err != nil {
			t.Fatalf("create exam: %v", err)
		}
	}

	exams, err := store.ListExamsByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list exams: %v", err)
	}
	if len(exams) != 2 || exams[0].ExamName != "Algebra Quiz" {
		t.Fatalf("expected date-ordered exams, got %v", exams)
	}

	updated, err := store.UpdateExam(ctx, finals.ID, map[string]any{"readiness_level": 60})
	if err != nil {
		t.Fatalf("update exam: %v", err)
	}
	if updated.ReadinessLevel != 60 {
		t.Fatalf("readiness = %d, want 60", updated.ReadinessLevel)
	}
	if len(updated.RelatedPapers) != 2 {
		t.Fatalf("related papers did not round-trip: %v", updated.RelatedPapers)
	}

	if err := store.DeleteExam(ctx, quiz.ID); err != nil {
		t.Fatalf("delete exam: %v", err)
	}
	if err := store.DeleteExam(ctx, quiz.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
