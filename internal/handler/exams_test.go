package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/studyace/studyace-server/internal/ai"
)

func TestExamLifecycle(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "minji.kim")

	w := f.do(t, http.MethodPost, "/api/exam-schedule", map[string]any{
		"userId":   1,
		"examName": "Operating Systems Final",
		"examType": "final",
		"date":     time.Now().Add(14 * 24 * time.Hour).Format(time.RFC3339),
		"location": "Engineering Hall 204",
	})
	assertStatus(t, w, http.StatusCreated)

	w = f.do(t, http.MethodGet, "/api/exam-schedule?userId=1", nil)
	assertStatus(t, w, http.StatusOK)
	var exams []map[string]any
	decodeJSON(t, w, &exams)
	if len(exams) != 1 {
		t.Fatalf("expected 1 exam, got %d", len(exams))
	}

	w = f.do(t, http.MethodPatch, "/api/exam-schedule/1", map[string]any{
		"readinessLevel": 70,
	})
	assertStatus(t, w, http.StatusOK)
	var updated map[string]any
	decodeJSON(t, w, &updated)
	if updated["readinessLevel"] != float64(70) {
		t.Fatalf("unexpected readiness level: %v", updated["readinessLevel"])
	}

	w = f.do(t, http.MethodDelete, "/api/exam-schedule/1", nil)
	assertStatus(t, w, http.StatusOK)

	w = f.do(t, http.MethodPatch, "/api/exam-schedule/1", map[string]any{"readinessLevel": 10})
	assertStatus(t, w, http.StatusNotFound)
}

func TestStudyPlanRequiresTopics(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "minji.kim")
	createTestExam(t, f, user.ID, time.Now().Add(7*24*time.Hour))

	w := f.do(t, http.MethodPost, "/api/exam-schedule/1/study-plan", map[string]any{})
	assertStatus(t, w, http.StatusUnprocessableEntity)

	w = f.do(t, http.MethodPost, "/api/exam-schedule/1/study-plan", map[string]any{
		"topics": []string{},
	})
	assertStatus(t, w, http.StatusUnprocessableEntity)
}

func TestGenerateStudyPlan(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "minji.kim")
	createTestExam(t, f, user.ID, time.Now().Add(10*24*time.Hour))
	f.relay.plan = &ai.StudyPlan{
		StudyPlan: []ai.PlanDay{
			{
				Day:        1,
				Date:       "2026-09-01",
				Topics:     []string{"schedulers"},
				Duration:   2,
				Activities: []string{"summarize notes"},
				Resources:  []string{"lecture slides week 4"},
			},
		},
		KeyMilestones:   []ai.Milestone{{Date: "2026-09-05", Milestone: "finish past papers"}},
		OverallStrategy: "alternate theory and practice days",
	}

	w := f.do(t, http.MethodPost, "/api/exam-schedule/1/study-plan", map[string]any{
		"topics": []string{"scheduling", "virtual memory"},
	})
	assertStatus(t, w, http.StatusOK)

	var plan ai.StudyPlan
	decodeJSON(t, w, &plan)
	if plan.OverallStrategy != "alternate theory and practice days" {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	if plan.StudyPlan[0].Date != "2026-09-01" || plan.StudyPlan[0].Duration != 2 {
		t.Fatalf("day fields lost on the wire: %+v", plan.StudyPlan[0])
	}
	if len(plan.StudyPlan[0].Resources) != 1 {
		t.Fatalf("resources lost on the wire: %+v", plan.StudyPlan[0])
	}
	if plan.KeyMilestones[0].Date != "2026-09-05" {
		t.Fatalf("milestone date lost on the wire: %+v", plan.KeyMilestones[0])
	}

	if f.relay.planExamName != "Operating Systems Final" {
		t.Fatalf("unexpected exam name passed to relay: %q", f.relay.planExamName)
	}
	if f.relay.planDays < 9 || f.relay.planDays > 11 {
		t.Fatalf("unexpected plan horizon: %d", f.relay.planDays)
	}
	if len(f.relay.planTopics) != 2 {
		t.Fatalf("unexpected topics passed to relay: %v", f.relay.planTopics)
	}

	summary, err := f.store.GetAnalyticsSummary(context.Background(), user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if summary.AIInteractions != 1 {
		t.Fatalf("expected aiInteractions counter 1, got %d", summary.AIInteractions)
	}
	stored, err := f.store.GetUser(context.Background(), user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.AIInteractions != 1 {
		t.Fatalf("expected lifetime aiInteractions 1, got %d", stored.AIInteractions)
	}
}

func TestStudyPlanRelayFailure(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "minji.kim")
	createTestExam(t, f, user.ID, time.Now().Add(3*24*time.Hour))
	f.relay.planErr = &ai.ParseError{Reason: "empty study plan"}

	w := f.do(t, http.MethodPost, "/api/exam-schedule/1/study-plan", map[string]any{
		"topics": []string{"scheduling"},
	})
	assertStatus(t, w, http.StatusBadGateway)

	summary, err := f.store.GetAnalyticsSummary(context.Background(), user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if summary.AIInteractions != 0 {
		t.Fatalf("failed plan must not bump counters, got %d", summary.AIInteractions)
	}
}

func createTestExam(t *testing.T, f *fixture, userID int64, date time.Time) {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/exam-schedule", map[string]any{
		"userId":   userID,
		"examName": "Operating Systems Final",
		"examType": "final",
		"date":     date.Format(time.RFC3339),
	})
	assertStatus(t, w, http.StatusCreated)
}
