package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/pdevulapally/fakeverifier/src/ai/core"
	"github.com/pdevulapally/fakeverifier/src/retrieval"
)

const (
	maxReportSources = 10
	maxSnippets      = 6
)

// staticFollowUps is the fallback when the follow-up model call fails.
var staticFollowUps = []string{
	"What are the original sources for this claim?",
	"Has this claim been fact-checked by other organisations?",
	"When and where did this claim first appear?",
	"Is there more recent information that could change this verdict?",
}

var followUpSchema = map[string]interface{}{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"questions"},
	"properties": map[string]interface{}{
		"questions": map[string]interface{}{
			"type":     "array",
			"minItems": 3,
			"maxItems": 5,
			"items":    map[string]interface{}{"type": "string"},
		},
	},
}

// Formatter assembles the final payload: merged source list, evidence
// snippets, follow-up questions and the markdown report.
type Formatter struct {
	client core.Client
	reader *retrieval.PageReader
}

func NewFormatter(client core.Client, reader *retrieval.PageReader) *Formatter {
	return &Formatter{client: client, reader: reader}
}

// Format builds the response body from a decision and its evidence.
func (f *Formatter) Format(ctx context.Context, req *Request, decision *Decision, corpus []retrieval.Source, evidence []PackedEvidence) *Response {
	sources := f.mergeSources(corpus, decision.SourcesChecked)
	f.backfillTitles(ctx, sources)
	snippets := extractSnippets(req.Raw, sources)
	followUps := f.followUps(ctx, req.Raw, decision)

	return &Response{
		Verdict:          decision.Verdict,
		Confidence:       decision.Confidence,
		Explanation:      decision.Explanation,
		Sources:          sources,
		Evidence:         evidence,
		EvidenceSnippets: snippets,
		FollowUps:        followUps,
		MessageMarkdown:  buildMarkdown(req.Raw, decision, sources, snippets, followUps),
		ModelUsed:        decision.ModelUsed,
	}
}

// mergeSources combines the retrieval corpus with the judge's own source
// list, keyed by the raw URL string, capped at maxReportSources. Note this
// intentionally differs from the retrieval aggregator's normalized dedup
// key, matching long-standing behavior; unifying the two would change
// observable source counts.
func (f *Formatter) mergeSources(corpus []retrieval.Source, judged []string) []retrieval.Source {
	seen := make(map[string]bool)
	var out []retrieval.Source
	add := func(s retrieval.Source) {
		if s.URL == "" || seen[s.URL] || len(out) >= maxReportSources {
			return
		}
		seen[s.URL] = true
		out = append(out, s)
	}
	for _, s := range corpus {
		add(s)
	}
	for _, url := range judged {
		add(retrieval.Source{URL: url})
	}
	return out
}

// backfillTitles fetches <title> for sources missing one, concurrently and
// best-effort. Each fetch is bounded by the reader's 4 second title
// timeout and a failure just leaves the title empty.
func (f *Formatter) backfillTitles(ctx context.Context, sources []retrieval.Source) {
	if f.reader == nil {
		return
	}
	var wg sync.WaitGroup
	for i := range sources {
		if sources[i].Title != "" {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sources[i].Title = f.reader.Title(ctx, sources[i].URL)
		}(i)
	}
	wg.Wait()
}

// extractSnippets pulls up to maxSnippets sentences that mention a claim
// keyword. Keywords are claim words longer than 3 characters; the first
// matching sentence per source wins.
func extractSnippets(claim string, sources []retrieval.Source) []Snippet {
	keywords := claimKeywords(claim)
	if len(keywords) == 0 {
		return []Snippet{}
	}

	snippets := []Snippet{}
	for _, src := range sources {
		if len(snippets) >= maxSnippets || src.Text == "" {
			continue
		}
		for _, sentence := range splitSentences(src.Text) {
			if sentenceMatches(sentence, keywords) {
				snippets = append(snippets, Snippet{URL: src.URL, Sentence: strings.TrimSpace(sentence)})
				break
			}
		}
	}
	return snippets
}

func claimKeywords(claim string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(claim)) {
		w = strings.Trim(w, ".,!?\"'()[]")
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}

func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
}

func sentenceMatches(sentence string, keywords []string) bool {
	lower := strings.ToLower(sentence)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// followUps asks the model for 3-5 follow-up questions, with a static
// fallback list when the call fails.
func (f *Formatter) followUps(ctx context.Context, claim string, decision *Decision) []string {
	if f.client == nil {
		return staticFollowUps
	}
	prompt := fmt.Sprintf("Claim: %s\nVerdict: %s (%d%% confidence)\nSuggest follow-up questions a careful reader should ask next.",
		claim, decision.Verdict, decision.Confidence)
	raw, err := f.client.CompleteJSON(ctx, prompt, followUpSchema, core.Options{
		SystemPrompt: "You suggest short, neutral follow-up questions for fact-check results.",
	})
	if err != nil {
		log.Printf("followups: model failed: %v", err)
		return staticFollowUps
	}
	var parsed struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil || len(parsed.Questions) == 0 {
		return staticFollowUps
	}
	return parsed.Questions
}

// ConfidenceLabel maps a confidence score to its display band.
func ConfidenceLabel(confidence int) string {
	switch {
	case confidence >= 80:
		return "High"
	case confidence >= 50:
		return "Moderate"
	default:
		return "Low"
	}
}

func verdictEmoji(verdict string) string {
	switch verdict {
	case VerdictLikelyReal:
		return "🟩"
	case VerdictLikelyFake:
		return "🟥"
	case VerdictMixed:
		return "🟨"
	default:
		return "⬜"
	}
}

func buildMarkdown(claim string, decision *Decision, sources []retrieval.Source, snippets []Snippet, followUps []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s %s\n\n", verdictEmoji(decision.Verdict), decision.Verdict)
	fmt.Fprintf(&b, "**Confidence:** %s (%d%%)\n\n", ConfidenceLabel(decision.Confidence), decision.Confidence)
	fmt.Fprintf(&b, "**Claim:** %s\n\n", claim)
	fmt.Fprintf(&b, "### Summary\n\n%s\n", decision.Explanation)

	if len(snippets) > 0 {
		b.WriteString("\n### Evidence\n\n")
		for _, s := range snippets {
			fmt.Fprintf(&b, "> %s\n>\n> — %s\n\n", s.Sentence, s.URL)
		}
	}

	if len(sources) > 0 {
		b.WriteString("\n### Sources\n\n")
		for i, s := range sources {
			title := s.Title
			if title == "" {
				title = s.URL
			}
			fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, title, s.URL)
		}
	}

	if len(followUps) > 0 {
		b.WriteString("\n### Follow-up questions\n\n")
		for _, q := range followUps {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}

	return b.String()
}
