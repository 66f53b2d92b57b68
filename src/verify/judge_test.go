package verify

import (
	"context"
	"fmt"
	"testing"
)

const goodDecision = `{"verdict":"Likely Fake","confidence":97,"explanation":"The Eiffel Tower is in Paris.","sourcesChecked":["https://example.org/eiffel"]}`

func TestJudgeFreeTier(t *testing.T) {
	free := &fakeClient{json: []byte(goodDecision)}
	judge := NewJudge(free, &fakeClient{}, nil, nil, nil)

	decision, err := judge.Decide(context.Background(), &Request{Raw: "The Eiffel Tower is in Berlin"}, "free")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision.Verdict != VerdictLikelyFake || decision.Confidence != 97 {
		t.Errorf("decision = %s/%d, want Likely Fake/97", decision.Verdict, decision.Confidence)
	}
	if free.callCount() != 1 {
		t.Errorf("free client calls = %d, want 1", free.callCount())
	}
}

func TestJudgeMalformedOutputDegrades(t *testing.T) {
	free := &fakeClient{json: []byte(`not json at all`)}
	judge := NewJudge(free, nil, nil, nil, nil)

	decision, err := judge.Decide(context.Background(), &Request{Raw: "some claim"}, "free")
	if err != nil {
		t.Fatalf("Decide returned error for malformed output: %v", err)
	}
	if decision.Verdict != VerdictUnverified || decision.Confidence != 0 {
		t.Errorf("decision = %s/%d, want Unverified/0", decision.Verdict, decision.Confidence)
	}
}

func TestJudgeProTierAgentFailurePropagates(t *testing.T) {
	agent := &fakeClient{err: fmt.Errorf("agent upstream 503")}
	fallback := &fakeClient{json: []byte(goodDecision)}
	judge := NewJudge(&fakeClient{}, agent, fallback, nil, nil)

	_, err := judge.Decide(context.Background(), &Request{Raw: "some claim"}, "pro")
	if err == nil {
		t.Fatal("Decide on pro tier agent failure returned nil error, want propagation")
	}
	if fallback.callCount() != 0 {
		t.Errorf("fallback called %d times on pro tier, want 0", fallback.callCount())
	}
}

func TestJudgeEnterpriseFallsBack(t *testing.T) {
	agent := &fakeClient{err: fmt.Errorf("agent upstream 503")}
	fallback := &fakeClient{json: []byte(goodDecision)}
	judge := NewJudge(&fakeClient{}, agent, fallback, nil, nil)

	decision, err := judge.Decide(context.Background(), &Request{Raw: "some claim"}, "enterprise")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision.Verdict != VerdictLikelyFake {
		t.Errorf("verdict = %q, want fallback decision", decision.Verdict)
	}
	if decision.ModelUsed.Vendor != "anthropic" {
		t.Errorf("ModelUsed.Vendor = %q, want anthropic", decision.ModelUsed.Vendor)
	}
	if fallback.callCount() != 1 {
		t.Errorf("fallback calls = %d, want 1", fallback.callCount())
	}
}

func TestParseDecisionClampsAndValidates(t *testing.T) {
	d := parseDecision([]byte(`{"verdict":"Probably True","confidence":140,"explanation":"x"}`), ModelRef{Vendor: "openai"})
	if d.Verdict != VerdictUnverified {
		t.Errorf("unknown verdict mapped to %q, want Unverified", d.Verdict)
	}
	if d.Confidence != 100 {
		t.Errorf("confidence = %d, want clamp to 100", d.Confidence)
	}
	if d.SourcesChecked == nil {
		t.Error("SourcesChecked should never be nil")
	}
}
