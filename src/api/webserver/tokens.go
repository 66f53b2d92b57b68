package webserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pdevulapally/fakeverifier/src/api/types"
	"github.com/pdevulapally/fakeverifier/src/quota"
)

// planLimits are the daily/monthly allowances per tier.
var planLimits = map[string][2]int64{
	types.PlanFree:       {50, 500},
	types.PlanPro:        {500, 10000},
	types.PlanEnterprise: {5000, 100000},
}

type Tokens struct {
	db *gorm.DB
}

func NewTokens(db *gorm.DB) Tokens {
	return Tokens{db: db}
}

// Remaining returns the counters left for the day and month.
func (t Tokens) Remaining(c *gin.Context) {
	uid := c.Query("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid is required"})
		return
	}
	remaining, err := quota.GetRemaining(c.Request.Context(), t.db, uid)
	if err != nil {
		if errors.Is(err, quota.ErrNoAccount) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no usage record for user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, remaining)
}

// Plan returns the user's current plan tier.
func (t Tokens) Plan(c *gin.Context) {
	uid := c.Query("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid is required"})
		return
	}
	var usage types.TokenUsage
	if err := t.db.First(&usage, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no usage record for user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": usage.Plan})
}

// UpdatePlan sets the plan tier and its limits, creating the usage row on
// first call. This is the only place accounts come into existence; the
// quota gate never creates them.
func (t Tokens) UpdatePlan(c *gin.Context) {
	var req struct {
		UID      string `json:"uid" binding:"required"`
		Plan     string `json:"plan" binding:"required,oneof=free pro enterprise"`
		Timezone string `json:"timezone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if jwtUID := c.GetString("uid"); jwtUID != "" && jwtUID != req.UID {
		c.JSON(http.StatusForbidden, gin.H{"error": "uid mismatch"})
		return
	}

	limits := planLimits[req.Plan]
	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timezone"})
		return
	}

	var usage types.TokenUsage
	err := t.db.First(&usage, "uid = ?", req.UID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		usage = types.TokenUsage{
			UID:          req.UID,
			Plan:         req.Plan,
			LimitDaily:   limits[0],
			LimitMonthly: limits[1],
			Timezone:     tz,
			LastUpdated:  time.Now(),
		}
		if err := t.db.Create(&usage).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	default:
		usage.Plan = req.Plan
		usage.LimitDaily = limits[0]
		usage.LimitMonthly = limits[1]
		usage.Timezone = tz
		if err := t.db.Save(&usage).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"plan": usage.Plan, "limitsDaily": usage.LimitDaily, "limitsMonthly": usage.LimitMonthly})
}
