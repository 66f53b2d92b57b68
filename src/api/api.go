// File: src/api/api.go

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pdevulapally/fakeverifier/src/ai/core"
	"github.com/pdevulapally/fakeverifier/src/ai/hf"
	"github.com/pdevulapally/fakeverifier/src/api/config"
	"github.com/pdevulapally/fakeverifier/src/api/data"
	"github.com/pdevulapally/fakeverifier/src/api/webserver"
	"github.com/pdevulapally/fakeverifier/src/feedback"
	"github.com/pdevulapally/fakeverifier/src/retrieval"
	"github.com/pdevulapally/fakeverifier/src/verify"

	// Provider registration.
	_ "github.com/pdevulapally/fakeverifier/src/ai/agent"
	_ "github.com/pdevulapally/fakeverifier/src/ai/anthropic"
	_ "github.com/pdevulapally/fakeverifier/src/ai/openai"
)

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	if err := data.LoadSettings(db); err != nil {
		log.Printf("Failed to load settings: %v", err)
	}
	rdb := data.MustRedis(cfg.RedisURL)

	hints := feedback.NewHintStore(rdb, 0)

	freeClient, err := core.NewClient(core.FactoryConfig{
		Provider:  "openai",
		OpenAIKey: cfg.OpenAIKey,
		BaseURL:   data.GetSetting("openai_base_url"),
	})
	if err != nil {
		log.Fatalf("openai client: %v", err)
	}
	agentClient, err := core.NewClient(core.FactoryConfig{
		Provider:  "agent",
		OpenAIKey: cfg.OpenAIKey,
		BaseURL:   data.GetSetting("openai_base_url"),
	})
	if err != nil {
		log.Fatalf("agent client: %v", err)
	}
	var fallbackClient core.Client
	if cfg.ClaudeKey != "" {
		fallbackClient, err = core.NewClient(core.FactoryConfig{
			Provider:  "anthropic",
			ClaudeKey: cfg.ClaudeKey,
			BaseURL:   data.GetSetting("anthropic_base_url"),
		})
		if err != nil {
			log.Fatalf("anthropic client: %v", err)
		}
	}
	classifier := hf.NewClassifier(cfg.HFKey, data.GetSetting("hf_base_url"), data.GetSetting("hf_model"))

	reader := retrieval.NewPageReader(10 * time.Second)
	aggregator := retrieval.NewAggregator(
		retrieval.NewTavilySearcher(cfg.TavilyKey, data.GetSetting("tavily_base_url")),
		retrieval.NewBraveSearcher(cfg.BraveKey, data.GetSetting("brave_base_url")),
		retrieval.NewNewsFetcher(cfg.NewsAPIKey, data.GetSetting("newsapi_base_url")),
		retrieval.NewLiveFeeds(cfg.LiveFeeds),
		reader,
	)

	pipe := verify.NewPipeline(
		aggregator,
		verify.NewCrossChecker(freeClient),
		verify.NewJudge(freeClient, agentClient, fallbackClient, classifier, hints),
		verify.NewPacker(freeClient),
		verify.NewFormatter(freeClient, reader),
	)

	router := webserver.New(cfg, db, rdb, pipe, hints)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	log.Printf("FakeVerifier API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
