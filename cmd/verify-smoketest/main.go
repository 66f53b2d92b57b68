// verify-smoketest exercises the judge providers against a live claim
// without going through the HTTP server. Useful for checking API keys and
// provider wiring after deployment changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	aicore "github.com/pdevulapally/fakeverifier/src/ai/core"
	"github.com/pdevulapally/fakeverifier/src/ai/hf"
	"github.com/pdevulapally/fakeverifier/src/verify"

	_ "github.com/pdevulapally/fakeverifier/src/ai/agent"
	_ "github.com/pdevulapally/fakeverifier/src/ai/anthropic"
	_ "github.com/pdevulapally/fakeverifier/src/ai/openai"
)

var (
	providersFlag = flag.String("providers", "openai", "Comma-separated provider list or 'all'")
	claimFlag     = flag.String("claim", "The Eiffel Tower is in Berlin", "Claim to judge")
	tierFlag      = flag.String("tier", "free", "Plan tier to route as (free|pro|enterprise)")
	timeoutFlag   = flag.Duration("timeout", 60*time.Second, "Per-provider timeout")
)

var allProviders = []string{"openai", "anthropic", "agent", "hf"}

func main() {
	log.SetFlags(0)
	flag.Parse()

	providers := resolveProviders(*providersFlag)
	if len(providers) == 0 {
		log.Fatal("no providers specified")
	}

	for _, provider := range providers {
		if err := runProvider(provider); err != nil {
			log.Printf("[%s] ERROR: %v", provider, err)
		}
	}
}

func runProvider(provider string) error {
	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	req := &verify.Request{UID: "smoketest", Raw: *claimFlag}

	var judge *verify.Judge
	if provider == "hf" {
		classifier := hf.NewClassifier(os.Getenv("HF_API_KEY"), "", "")
		judge = verify.NewJudge(nil, nil, nil, classifier, nil)
		req.Model = "hf"
	} else {
		client, err := aicore.NewClient(aicore.FactoryConfig{
			Provider:  provider,
			OpenAIKey: os.Getenv("OPENAI_API_KEY"),
			ClaudeKey: os.Getenv("ANTHROPIC_API_KEY"),
		})
		if err != nil {
			return err
		}
		// The same client serves every judge slot so routing lands on it
		// regardless of tier.
		judge = verify.NewJudge(client, client, client, nil, nil)
	}

	decision, err := judge.Decide(ctx, req, *tierFlag)
	if err != nil {
		return err
	}

	fmt.Printf("[%s] %s (%d%%) via %s/%s\n%s\n\n",
		provider, decision.Verdict, decision.Confidence,
		decision.ModelUsed.Vendor, decision.ModelUsed.Name, decision.Explanation)
	return nil
}

func resolveProviders(raw string) []string {
	if strings.EqualFold(strings.TrimSpace(raw), "all") {
		return allProviders
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
