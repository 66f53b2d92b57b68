package webserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pdevulapally/fakeverifier/src/api/config"
	"github.com/pdevulapally/fakeverifier/src/feedback"
	"github.com/pdevulapally/fakeverifier/src/verify"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client, pipe *verify.Pipeline, hints *feedback.HintStore) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, db, rdb, pipe, hints)
	return g
}

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client, pipe *verify.Pipeline, hints *feedback.HintStore) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://fakeverifier.co.uk"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	verifyH := NewVerifyHandler(db, pipe, cfg.VerifyCost)
	tokensH := NewTokens(db)
	convH := NewConversations(db)
	feedbackH := NewFeedbackHandler(db, hints)
	limiter := NewRateLimiter(20, time.Minute)

	api := r.Group("/api")
	{
		api.GET("/verify/stream", NewStream(pipe).Run)
		api.GET("/user-tokens", tokensH.Remaining)
		api.GET("/user-plan", tokensH.Plan)

		secured := api.Use(JWTMiddleware([]byte(cfg.JWTSecret)), RateLimitMiddleware(limiter))
		secured.POST("/verify", verifyH.Verify)
		secured.POST("/update-plan", tokensH.UpdatePlan)
		secured.POST("/feedback", feedbackH.Create)
		secured.POST("/conversations", convH.Create)
		secured.GET("/conversations", convH.List)
		secured.GET("/conversations/:id", convH.Get)
		secured.PUT("/conversations/:id", convH.Update)
		secured.DELETE("/conversations/:id", convH.Delete)
		secured.POST("/conversations/:id/react", convH.React)
	}
}
