package webserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pdevulapally/fakeverifier/src/api/types"
)

func testTokensRouter(t *testing.T) (*gin.Engine, *Tokens) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testDB(t)
	tk := NewTokens(db)
	r := gin.New()
	r.GET("/api/user-tokens", tk.Remaining)
	r.GET("/api/user-plan", tk.Plan)
	r.POST("/api/update-plan", tk.UpdatePlan)
	return r, &tk
}

func TestUpdatePlanCreatesAccount(t *testing.T) {
	r, tk := testTokensRouter(t)

	body, _ := json.Marshal(map[string]string{"uid": "fresh", "plan": "pro", "timezone": "Europe/London"})
	req := httptest.NewRequest(http.MethodPost, "/api/update-plan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var usage types.TokenUsage
	if err := tk.db.First(&usage, "uid = ?", "fresh").Error; err != nil {
		t.Fatalf("read usage: %v", err)
	}
	if usage.Plan != types.PlanPro {
		t.Errorf("plan = %q, want pro", usage.Plan)
	}
	if usage.LimitDaily != 500 || usage.LimitMonthly != 10000 {
		t.Errorf("limits = %d/%d, want 500/10000", usage.LimitDaily, usage.LimitMonthly)
	}
	if usage.Timezone != "Europe/London" {
		t.Errorf("timezone = %q", usage.Timezone)
	}
}

func TestUpdatePlanRejectsBadTimezone(t *testing.T) {
	r, _ := testTokensRouter(t)

	body, _ := json.Marshal(map[string]string{"uid": "u1", "plan": "free", "timezone": "Mars/Olympus"})
	req := httptest.NewRequest(http.MethodPost, "/api/update-plan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUpdatePlanRejectsUnknownTier(t *testing.T) {
	r, _ := testTokensRouter(t)

	body, _ := json.Marshal(map[string]string{"uid": "u1", "plan": "platinum"})
	req := httptest.NewRequest(http.MethodPost, "/api/update-plan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRemainingUnknownUser(t *testing.T) {
	r, _ := testTokensRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/user-tokens?uid=nobody", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestRemainingAfterUpdatePlan(t *testing.T) {
	r, tk := testTokensRouter(t)
	seedPlan(t, tk.db, "u5", "free", 10, 50)

	req := httptest.NewRequest(http.MethodGet, "/api/user-tokens?uid=u5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Daily   int64  `json:"daily"`
		Monthly int64  `json:"monthly"`
		Plan    string `json:"plan"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Daily != 40 {
		t.Errorf("daily = %d, want 40", body.Daily)
	}
	if body.Plan != "free" {
		t.Errorf("plan = %q, want free", body.Plan)
	}
}

func TestPlanEndpoint(t *testing.T) {
	r, tk := testTokensRouter(t)
	seedPlan(t, tk.db, "u6", "enterprise", 0, 5000)

	req := httptest.NewRequest(http.MethodGet, "/api/user-plan?uid=u6", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "enterprise") {
		t.Errorf("body = %s", w.Body.String())
	}
}
