package webserver

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pdevulapally/fakeverifier/src/api/types"
)

func TestFeedbackCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testDB(t)
	h := NewFeedbackHandler(db, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("uid", "u1") })
	r.POST("/api/feedback", h.Create)

	w := doJSON(t, r, http.MethodPost, "/api/feedback", map[string]interface{}{
		"verdict": "Likely Fake",
		"helpful": false,
		"comment": "missed the AP wire story",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var row types.Feedback
	if err := db.First(&row, "uid = ?", "u1").Error; err != nil {
		t.Fatalf("read feedback: %v", err)
	}
	if row.Verdict != "Likely Fake" || row.Helpful {
		t.Errorf("stored row = %+v", row)
	}
}

func TestFeedbackRequiresHelpfulFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testDB(t)
	h := NewFeedbackHandler(db, nil)

	r := gin.New()
	r.POST("/api/feedback", h.Create)

	w := doJSON(t, r, http.MethodPost, "/api/feedback", map[string]interface{}{
		"verdict": "Mixed",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
