package webserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pdevulapally/fakeverifier/src/api/types"
	"github.com/pdevulapally/fakeverifier/src/feedback"
)

type FeedbackHandler struct {
	db    *gorm.DB
	hints *feedback.HintStore
}

func NewFeedbackHandler(db *gorm.DB, hints *feedback.HintStore) FeedbackHandler {
	return FeedbackHandler{db: db, hints: hints}
}

// Create stores the feedback row and refreshes the global preference hint
// that nudges later judge prompts. The hint update is best-effort.
func (h FeedbackHandler) Create(c *gin.Context) {
	var req struct {
		Verdict string `json:"verdict" binding:"required"`
		Helpful *bool  `json:"helpful" binding:"required"`
		Comment string `json:"comment" binding:"max=1024"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row := types.Feedback{
		UID:     c.GetString("uid"),
		Verdict: req.Verdict,
		Helpful: *req.Helpful,
		Comment: req.Comment,
	}
	if err := h.db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sentiment := "helpful"
	if !*req.Helpful {
		sentiment = "unhelpful"
	}
	hint := fmt.Sprintf("the most recent %q verdict was rated %s by a user", req.Verdict, sentiment)
	_ = h.hints.Record(c.Request.Context(), hint)

	c.JSON(http.StatusCreated, gin.H{"id": row.ID})
}
