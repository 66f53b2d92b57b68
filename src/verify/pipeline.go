package verify

import (
	"context"
	"strings"

	"github.com/pdevulapally/fakeverifier/src/retrieval"
)

const maxClaims = 3

// Pipeline runs the verification stages in order: ingest, retrieve,
// cross-check, judge, pack, format. The quota gate runs in the HTTP
// handler before any of this starts.
type Pipeline struct {
	aggregator *retrieval.Aggregator
	crosscheck *CrossChecker
	judge      *Judge
	packer     *Packer
	formatter  *Formatter
}

func NewPipeline(aggregator *retrieval.Aggregator, crosscheck *CrossChecker, judge *Judge, packer *Packer, formatter *Formatter) *Pipeline {
	return &Pipeline{
		aggregator: aggregator,
		crosscheck: crosscheck,
		judge:      judge,
		packer:     packer,
		formatter:  formatter,
	}
}

// Run verifies one request. The only error path surfaced to the client
// is a judge failure without fallback; everything else degrades to
// partial results.
func (p *Pipeline) Run(ctx context.Context, req *Request, tier string) (*Response, error) {
	claims := IngestClaims(req.Raw)

	corpus := p.aggregator.Retrieve(ctx, claims, tier)
	live := p.aggregator.LiveNews(ctx, strings.Join(claims, " "))
	corpus = retrieval.Merge(corpus, live)

	checks := p.crosscheck.Check(ctx, claims, corpus, tier)

	decision, err := p.judge.Decide(ctx, req, tier)
	if err != nil {
		return nil, err
	}

	evidence := p.packer.Pack(ctx, checks, decision)

	return p.formatter.Format(ctx, req, decision, corpus, evidence), nil
}

// Quick is the simplified single-call verification behind the SSE
// timeline: judge only, no retrieval corpus, free-tier routing.
func (p *Pipeline) Quick(ctx context.Context, uid, raw string) (*Decision, error) {
	req := &Request{UID: uid, Raw: raw}
	return p.judge.Decide(ctx, req, "free")
}

// IngestClaims extracts up to three claim strings from raw input. The
// extraction is deliberately shallow: sentences on their own lines or
// terminated by a period become claims, and anything else passes through
// whole.
func IngestClaims(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var claims []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == '.' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		claims = append(claims, part)
		if len(claims) == maxClaims {
			break
		}
	}
	if len(claims) == 0 {
		claims = []string{raw}
	}
	return claims
}
