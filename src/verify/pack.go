package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/pdevulapally/fakeverifier/src/ai/core"
)

var packSchema = map[string]interface{}{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"evidence"},
	"properties": map[string]interface{}{
		"evidence": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"url", "support", "quote", "score"},
				"properties": map[string]interface{}{
					"url":           map[string]interface{}{"type": "string"},
					"title":         map[string]interface{}{"type": "string"},
					"publisher":     map[string]interface{}{"type": "string"},
					"publishedTime": map[string]interface{}{"type": "string"},
					"support": map[string]interface{}{
						"type": "string",
						"enum": []string{SupportSupports, SupportRefutes, SupportNeutral},
					},
					"quote": map[string]interface{}{"type": "string"},
					"score": map[string]interface{}{"type": "number"},
				},
			},
		},
	},
}

// Packer asks the model to merge cross-check findings and judge sources
// into one deduplicated, score-sorted evidence list. There is no local
// sort or dedup here; the model owns the ordering. Malformed output
// degrades to an empty list.
type Packer struct {
	client core.Client
}

func NewPacker(client core.Client) *Packer {
	return &Packer{client: client}
}

func (p *Packer) Pack(ctx context.Context, checks []CrossCheck, decision *Decision) []PackedEvidence {
	if len(checks) == 0 && len(decision.SourcesChecked) == 0 {
		return []PackedEvidence{}
	}

	raw, err := p.client.CompleteJSON(ctx, p.prompt(checks, decision), packSchema, core.Options{
		SystemPrompt: "You consolidate fact-checking evidence. Merge duplicates, keep the strongest quote per URL, sort by score descending.",
	})
	if err != nil {
		log.Printf("pack: model failed: %v", err)
		return []PackedEvidence{}
	}

	var parsed struct {
		Evidence []PackedEvidence `json:"evidence"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Printf("pack: malformed model output: %v", err)
		return []PackedEvidence{}
	}
	if parsed.Evidence == nil {
		return []PackedEvidence{}
	}
	return parsed.Evidence
}

func (p *Packer) prompt(checks []CrossCheck, decision *Decision) string {
	var b strings.Builder
	b.WriteString("Cross-check findings:\n")
	for _, check := range checks {
		fmt.Fprintf(&b, "Claim: %s\n", check.Claim)
		for _, f := range check.Findings {
			fmt.Fprintf(&b, "- %s | %s | %.2f | %q\n", f.URL, f.Support, f.Score, f.Quote)
		}
	}
	b.WriteString("\nSources the judge consulted:\n")
	for _, url := range decision.SourcesChecked {
		fmt.Fprintf(&b, "- %s\n", url)
	}
	fmt.Fprintf(&b, "\nJudge verdict: %s (confidence %d). %s\n", decision.Verdict, decision.Confidence, decision.Explanation)
	b.WriteString("\nProduce the final evidence list: one entry per unique URL, sorted by score descending.")
	return b.String()
}
