package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/pdevulapally/fakeverifier/src/ai/core"
	"github.com/pdevulapally/fakeverifier/src/api/types"
	"github.com/pdevulapally/fakeverifier/src/retrieval"
)

// maxEvidenceChars bounds how much of each source's text reaches the
// cross-check prompt.
const maxEvidenceChars = 1500

var crossCheckSchema = map[string]interface{}{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"results"},
	"properties": map[string]interface{}{
		"results": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"claim", "findings"},
				"properties": map[string]interface{}{
					"claim": map[string]interface{}{"type": "string"},
					"findings": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":                 "object",
							"additionalProperties": false,
							"required":             []string{"url", "support", "quote", "score"},
							"properties": map[string]interface{}{
								"url": map[string]interface{}{"type": "string"},
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
			},
		},
	},
}

// CrossChecker labels each evidence source as supporting, refuting or
// neutral toward each claim.
type CrossChecker struct {
	client core.Client
}

func NewCrossChecker(client core.Client) *CrossChecker {
	return &CrossChecker{client: client}
}

// Check runs the cross-check for free-tier requests. Paid tiers skip it:
// their judge agent weighs sources itself, so this stage returns empty
// results immediately rather than failing.
func (c *CrossChecker) Check(ctx context.Context, claims []string, sources []retrieval.Source, tier string) []CrossCheck {
	switch strings.ToLower(tier) {
	case types.PlanPro, types.PlanEnterprise:
		return []CrossCheck{}
	}
	if len(claims) == 0 || len(sources) == 0 {
		return []CrossCheck{}
	}

	raw, err := c.client.CompleteJSON(ctx, c.prompt(claims, sources), crossCheckSchema, core.Options{
		SystemPrompt: "You label evidence stance for a fact checker. Quote verbatim from the provided text only.",
	})
	if err != nil {
		log.Printf("crosscheck: model failed: %v", err)
		return []CrossCheck{}
	}

	var parsed struct {
		Results []CrossCheck `json:"results"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Printf("crosscheck: malformed model output: %v", err)
		return []CrossCheck{}
	}
	return parsed.Results
}

func (c *CrossChecker) prompt(claims []string, sources []retrieval.Source) string {
	var b strings.Builder
	b.WriteString("Claims:\n")
	for i, claim := range claims {
		fmt.Fprintf(&b, "%d. %s\n", i+1, claim)
	}
	b.WriteString("\nEvidence sources:\n")
	for _, s := range sources {
		text := s.Text
		if len(text) > maxEvidenceChars {
			text = text[:maxEvidenceChars]
		}
		fmt.Fprintf(&b, "URL: %s\nTitle: %s\nText: %s\n---\n", s.URL, s.Title, text)
	}
	b.WriteString("\nFor every claim, label each source as supports, refutes or neutral, with a short verbatim quote and a relevance score between 0 and 1.")
	return b.String()
}
