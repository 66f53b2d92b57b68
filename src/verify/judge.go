package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/pdevulapally/fakeverifier/src/ai/core"
	"github.com/pdevulapally/fakeverifier/src/ai/hf"
	"github.com/pdevulapally/fakeverifier/src/api/types"
)

const judgeSystemPrompt = `You are FakeVerifier, a rigorous fact-checking assistant.
Judge the credibility of the user's claim. Weigh source authority, recency and
cross-source agreement. Be conservative: prefer "Likely Fake" over speculation
only when the evidence supports it.`

// decisionSchema constrains the judge output. The schema itself only
// admits the two definite labels; Mixed and Unverified enter through the
// cross-check and gate paths.
var decisionSchema = map[string]interface{}{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"verdict", "confidence", "explanation", "sourcesChecked"},
	"properties": map[string]interface{}{
		"verdict": map[string]interface{}{
			"type": "string",
			"enum": []string{VerdictLikelyReal, VerdictLikelyFake},
		},
		"confidence": map[string]interface{}{
			"type":    "integer",
			"minimum": 0,
			"maximum": 100,
		},
		"explanation":    map[string]interface{}{"type": "string"},
		"sourcesChecked": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
	},
}

// HintSource supplies the best-effort feedback hint injected into system
// prompts. Implementations may return an empty string.
type HintSource interface {
	Hint(ctx context.Context) string
}

// Judge routes a claim to the model matching the plan tier (or an explicit
// override) and returns a decision.
type Judge struct {
	free       core.Client // general LLM, JSON-schema output
	agent      core.Client // agent workflow with built-in web search
	fallback   core.Client // enterprise fallback vendor
	classifier *hf.Classifier
	hints      HintSource
}

func NewJudge(free, agent, fallback core.Client, classifier *hf.Classifier, hints HintSource) *Judge {
	return &Judge{free: free, agent: agent, fallback: fallback, classifier: classifier, hints: hints}
}

// Decide evaluates the claim. The sensitive-attribute gate runs first and
// suppresses every model call when it trips. An error is returned only for
// the pro tier's agent path, which has no fallback.
func (j *Judge) Decide(ctx context.Context, req *Request, tier string) (*Decision, error) {
	if IsSensitivePersonalClaim(req.Raw) {
		return sensitiveDecision(), nil
	}

	if strings.EqualFold(strings.TrimSpace(req.Model), "hf") {
		return j.classify(ctx, req)
	}

	switch core.ProviderForTier(tier, req.Model) {
	case "agent":
		return j.judgeAgent(ctx, req, tier)
	default:
		return j.judgeFree(ctx, req)
	}
}

func (j *Judge) judgeFree(ctx context.Context, req *Request) (*Decision, error) {
	raw, err := j.free.CompleteJSON(ctx, j.prompt(ctx, req), decisionSchema, core.Options{
		SystemPrompt: j.systemPrompt(ctx),
		Images:       req.Images,
	})
	if err != nil {
		// Upstream failure degrades to an unverified decision rather than
		// failing the request.
		log.Printf("judge: free-tier model failed: %v", err)
		return errorDecision(err, ModelRef{Vendor: "openai", Name: "default"}), nil
	}
	return parseDecision(raw, ModelRef{Vendor: "openai", Name: "default"}), nil
}

func (j *Judge) judgeAgent(ctx context.Context, req *Request, tier string) (*Decision, error) {
	raw, err := j.agent.CompleteJSON(ctx, j.prompt(ctx, req), decisionSchema, core.Options{
		SystemPrompt:    j.systemPrompt(ctx),
		EnableWebSearch: true,
	})
	if err == nil {
		return parseDecision(raw, ModelRef{Vendor: "openai", Name: "agent"}), nil
	}

	if !strings.EqualFold(tier, types.PlanEnterprise) || j.fallback == nil {
		// Pro tier has no fallback path.
		return nil, fmt.Errorf("judge agent: %w", err)
	}

	log.Printf("judge: agent failed (%v), falling back to anthropic", err)
	raw, ferr := j.fallback.CompleteJSON(ctx, j.prompt(ctx, req), decisionSchema, core.Options{
		SystemPrompt: j.systemPrompt(ctx),
		Images:       req.Images,
	})
	if ferr != nil {
		log.Printf("judge: fallback failed: %v", ferr)
		return errorDecision(ferr, ModelRef{Vendor: "anthropic", Name: "fallback"}), nil
	}
	return parseDecision(raw, ModelRef{Vendor: "anthropic", Name: "fallback"}), nil
}

// classify routes through the hosted classification model. Its FAKE/REAL
// labels map onto the verdict enumeration with the label probability as
// confidence.
func (j *Judge) classify(ctx context.Context, req *Request) (*Decision, error) {
	if j.classifier == nil {
		return errorDecision(fmt.Errorf("classifier not configured"), ModelRef{Vendor: "huggingface", Name: "unconfigured"}), nil
	}
	labels, err := j.classifier.Classify(ctx, req.Raw)
	if err != nil {
		log.Printf("judge: classifier failed: %v", err)
		return errorDecision(err, ModelRef{Vendor: "huggingface", Name: j.classifier.Model()}), nil
	}

	top := labels[0]
	verdict := VerdictUnverified
	switch strings.ToUpper(top.Label) {
	case "FAKE", "LABEL_0":
		verdict = VerdictLikelyFake
	case "REAL", "TRUE", "LABEL_1":
		verdict = VerdictLikelyReal
	}
	return &Decision{
		Verdict:        verdict,
		Confidence:     clampConfidence(int(top.Score * 100)),
		Explanation:    fmt.Sprintf("Hosted classifier labelled this claim %q with probability %.2f.", top.Label, top.Score),
		SourcesChecked: []string{},
		ModelUsed:      ModelRef{Vendor: "huggingface", Name: j.classifier.Model()},
	}, nil
}

func (j *Judge) prompt(ctx context.Context, req *Request) string {
	var b strings.Builder
	b.WriteString("Claim to verify:\n")
	b.WriteString(req.Raw)
	if req.Context != "" {
		b.WriteString("\n\nAdditional context from the user:\n")
		b.WriteString(req.Context)
	}
	if req.PreviousContext != "" {
		b.WriteString("\n\nEarlier conversation context:\n")
		b.WriteString(req.PreviousContext)
	}
	return b.String()
}

func (j *Judge) systemPrompt(ctx context.Context) string {
	prompt := judgeSystemPrompt
	if j.hints != nil {
		if hint := j.hints.Hint(ctx); hint != "" {
			prompt += "\n\nRecent user feedback to keep in mind: " + hint
		}
	}
	return prompt
}

// parseDecision decodes judge JSON. Malformed output yields a default
// Unverified decision instead of an error.
func parseDecision(raw []byte, model ModelRef) *Decision {
	var d Decision
	if err := json.Unmarshal(raw, &d); err != nil {
		log.Printf("judge: malformed model output: %v", err)
		return errorDecision(err, model)
	}
	if !validVerdict(d.Verdict) {
		d.Verdict = VerdictUnverified
	}
	d.Confidence = clampConfidence(d.Confidence)
	if d.SourcesChecked == nil {
		d.SourcesChecked = []string{}
	}
	d.ModelUsed = model
	return &d
}

func errorDecision(err error, model ModelRef) *Decision {
	return &Decision{
		Verdict:        VerdictUnverified,
		Confidence:     0,
		Explanation:    "The verification model did not return a usable result: " + err.Error(),
		SourcesChecked: []string{},
		ModelUsed:      model,
	}
}

func validVerdict(v string) bool {
	switch v {
	case VerdictLikelyReal, VerdictLikelyFake, VerdictMixed, VerdictUnverified:
		return true
	}
	return false
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
