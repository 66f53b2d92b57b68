package verify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pdevulapally/fakeverifier/src/retrieval"
)

func TestIngestClaims(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"single sentence", "The moon landing was faked", []string{"The moon landing was faked"}},
		{"sentences split on periods", "First claim. Second claim. Third claim. Fourth claim.",
			[]string{"First claim", "Second claim", "Third claim"}},
		{"newline separated", "one\ntwo", []string{"one", "two"}},
		{"empty", "   ", nil},
	}
	for _, tc := range cases {
		got := IngestClaims(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("%s: IngestClaims = %v, want %v", tc.name, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: claim[%d] = %q, want %q", tc.name, i, got[i], tc.want[i])
			}
		}
	}
}

func testPipeline(judgeClient *fakeClient) *Pipeline {
	reader := retrieval.NewPageReader(time.Second)
	agg := retrieval.NewAggregator(nil, nil, nil, nil, reader)
	empty := &fakeClient{json: []byte(`{"results":[]}`)}
	return NewPipeline(
		agg,
		NewCrossChecker(empty),
		NewJudge(judgeClient, judgeClient, nil, nil, nil),
		NewPacker(&fakeClient{json: []byte(`{"evidence":[]}`)}),
		NewFormatter(nil, nil),
	)
}

func TestPipelineRunEndToEnd(t *testing.T) {
	judgeClient := &fakeClient{json: []byte(goodDecision)}
	pipe := testPipeline(judgeClient)

	resp, err := pipe.Run(context.Background(), &Request{UID: "u1", Raw: "The Eiffel Tower is in Berlin"}, "free")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Verdict != VerdictLikelyFake {
		t.Errorf("verdict = %q, want Likely Fake", resp.Verdict)
	}
	if !strings.Contains(resp.MessageMarkdown, "🟥") {
		t.Error("markdown missing 🟥")
	}
	if !strings.Contains(resp.MessageMarkdown, "High") {
		t.Error("markdown missing High confidence label")
	}
}

func TestPipelineQuickUsesFreeRouting(t *testing.T) {
	judgeClient := &fakeClient{json: []byte(goodDecision)}
	pipe := testPipeline(judgeClient)

	decision, err := pipe.Quick(context.Background(), "u1", "The Eiffel Tower is in Berlin")
	if err != nil {
		t.Fatalf("Quick: %v", err)
	}
	if decision.Verdict != VerdictLikelyFake {
		t.Errorf("verdict = %q, want Likely Fake", decision.Verdict)
	}
	if judgeClient.callCount() != 1 {
		t.Errorf("judge calls = %d, want exactly 1 for the quick path", judgeClient.callCount())
	}
}
