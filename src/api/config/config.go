package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MySQLDSN  string
	RedisURL  string
	JWTSecret string
	Port      string

	OpenAIKey string
	ClaudeKey string
	HFKey     string

	TavilyKey  string
	BraveKey   string
	NewsAPIKey string
	LiveFeeds  []string

	// VerifyCost is charged against the quota per verification call.
	VerifyCost int64
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	// Optional .env for local development; ignored when absent.
	_ = godotenv.Load()

	cost, _ := strconv.ParseInt(getenv("VERIFY_COST", "1"), 10, 64)

	var feeds []string
	if raw := os.Getenv("LIVE_FEEDS"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				feeds = append(feeds, f)
			}
		}
	}

	return Config{
		MySQLDSN:   getenv("MYSQL_DSN", "fakeverifier:dev@tcp(localhost:3306)/fakeverifier?parseTime=true"),
		RedisURL:   getenv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:  getenv("JWT_SECRET", ""),
		Port:       getenv("PORT", "8080"),
		OpenAIKey:  os.Getenv("OPENAI_API_KEY"),
		ClaudeKey:  os.Getenv("ANTHROPIC_API_KEY"),
		HFKey:      os.Getenv("HF_API_KEY"),
		TavilyKey:  os.Getenv("TAVILY_API_KEY"),
		BraveKey:   os.Getenv("BRAVE_API_KEY"),
		NewsAPIKey: os.Getenv("NEWSAPI_KEY"),
		LiveFeeds:  feeds,
		VerifyCost: cost,
	}
}
