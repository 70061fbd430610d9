package handler

import (
	"net/http"
	"testing"
	"time"
)

func TestDashboardUnknownUser(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/dashboard/8", nil)
	assertStatus(t, w, http.StatusNotFound)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "minji.kim")
	f.createPaper(t, user.ID)
	createTestExam(t, f, user.ID, time.Now().Add(5*24*time.Hour))

	w := f.do(t, http.MethodPost, "/api/analytics/1/study-hours", map[string]any{"hours": 4})
	assertStatus(t, w, http.StatusOK)

	w = f.do(t, http.MethodGet, "/api/dashboard/1", nil)
	assertStatus(t, w, http.StatusOK)

	var resp DashboardResponse
	decodeJSON(t, w, &resp)
	if resp.User == nil || resp.User.Username != "minji.kim" {
		t.Fatalf("unexpected user section: %+v", resp.User)
	}
	if resp.Analytics == nil || resp.Analytics.StudyHours != 4 {
		t.Fatalf("unexpected analytics section: %+v", resp.Analytics)
	}
	if len(resp.Papers) != 1 {
		t.Fatalf("expected 1 paper, got %d", len(resp.Papers))
	}
	if len(resp.Exams) != 1 {
		t.Fatalf("expected 1 exam, got %d", len(resp.Exams))
	}
	if len(resp.RecentActivity) != 1 {
		t.Fatalf("expected 1 activity row, got %d", len(resp.RecentActivity))
	}
	if resp.Resources == nil {
		t.Fatal("resources section must be present")
	}
}
