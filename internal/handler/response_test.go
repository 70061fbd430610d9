package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "12"}}

	id, ok := parseIDParam(c, "id")
	if !ok || id != 12 {
		t.Fatalf("unexpected id: %d", id)
	}
}

func TestParseIDParamInvalid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, raw := range []string{"", "abc", "0", "-4"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		if _, ok := parseIDParam(c, "id"); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", raw, w.Code)
		}
	}
}

func TestParseUserIDQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?userId=7", nil)
	userID, has, ok := parseUserIDQuery(c, true)
	if !ok || !has || userID != 7 {
		t.Fatalf("unexpected result: %d %v %v", userID, has, ok)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	_, has, ok = parseUserIDQuery(c, false)
	if !ok || has {
		t.Fatal("optional absent userId must be ok without a value")
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if _, _, ok = parseUserIDQuery(c, true); ok {
		t.Fatal("required absent userId must fail")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestParseDays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?days=3", nil)

	days, ok := parseDays(c, 7)
	if !ok || days != 3 {
		t.Fatalf("unexpected days: %d", days)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	days, ok = parseDays(c, 7)
	if !ok || days != 7 {
		t.Fatalf("expected default 7, got %d", days)
	}
}
