package webserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/pdevulapally/fakeverifier/src/api/types"
	"github.com/pdevulapally/fakeverifier/src/quota"
	"github.com/pdevulapally/fakeverifier/src/verify"
)

type VerifyHandler struct {
	db        *gorm.DB
	pipe      *verify.Pipeline
	cost      int64
	sanitizer *bluemonday.Policy
}

func NewVerifyHandler(db *gorm.DB, pipe *verify.Pipeline, cost int64) VerifyHandler {
	if cost <= 0 {
		cost = 1
	}
	return VerifyHandler{
		db:        db,
		pipe:      pipe,
		cost:      cost,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (h VerifyHandler) Verify(c *gin.Context) {
	var req struct {
		UID   string `json:"uid" binding:"required"`
		Input struct {
			Raw             string `json:"raw"`
			Context         string `json:"context"`
			PreviousContext string `json:"previousContext"`
		} `json:"input"`
		Model  string   `json:"model"`
		Images []string `json:"imageBase64Array"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Input.Raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "input.raw is required"})
		return
	}

	// A caller can only verify against its own account.
	if jwtUID := c.GetString("uid"); jwtUID != "" && jwtUID != req.UID {
		c.JSON(http.StatusForbidden, gin.H{"error": "uid mismatch"})
		return
	}

	var usage types.TokenUsage
	if err := h.db.First(&usage, "uid = ?", req.UID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no usage record for user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if allowed := types.ImageLimit(usage.Plan); len(req.Images) > allowed {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "too many images for plan",
			"allowed":  allowed,
			"received": len(req.Images),
		})
		return
	}

	if err := quota.Ensure(c.Request.Context(), h.db, req.UID, h.cost); err != nil {
		switch {
		case errors.Is(err, quota.ErrExceeded):
			remaining, _ := quota.GetRemaining(c.Request.Context(), h.db, req.UID)
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "quota", "remaining": remaining})
		case errors.Is(err, quota.ErrNoAccount):
			c.JSON(http.StatusNotFound, gin.H{"error": "no usage record for user"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	vreq := &verify.Request{
		UID:             req.UID,
		Raw:             h.sanitizer.Sanitize(req.Input.Raw),
		Context:         h.sanitizer.Sanitize(req.Input.Context),
		PreviousContext: h.sanitizer.Sanitize(req.Input.PreviousContext),
		Model:           req.Model,
		Images:          req.Images,
	}

	resp, err := h.pipe.Run(c.Request.Context(), vreq, usage.Plan)
	if err != nil {
		// Pro-tier agent failure has no fallback and surfaces raw.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
