package verify

import (
	"context"
	"testing"
)

func TestIsSensitivePersonalClaim(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"Is the Prime Minister gay?", true},
		{"Dr Smith was diagnosed with cancer", true},
		{"The senator converted to another religion last year", true},
		{"President Reyes uses a wheelchair", true},
		// sensitive word without a named individual
		{"Cancer rates rose 4% last year", false},
		// honorific without a sensitive category
		{"The Prime Minister visited Berlin yesterday", false},
		{"The Eiffel Tower is in Berlin", false},
	}
	for _, tc := range cases {
		if got := IsSensitivePersonalClaim(tc.input); got != tc.want {
			t.Errorf("IsSensitivePersonalClaim(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestSensitiveGateSuppressesModelCalls(t *testing.T) {
	free := &fakeClient{json: []byte(`{"verdict":"Likely Real","confidence":90,"explanation":"x","sourcesChecked":[]}`)}
	agent := &fakeClient{json: []byte(`{}`)}
	judge := NewJudge(free, agent, nil, nil, nil)

	for _, tier := range []string{"free", "pro", "enterprise"} {
		decision, err := judge.Decide(context.Background(), &Request{Raw: "Is the Prime Minister gay?"}, tier)
		if err != nil {
			t.Fatalf("tier %s: %v", tier, err)
		}
		if decision.Verdict != VerdictUnverified {
			t.Errorf("tier %s: verdict = %q, want %q", tier, decision.Verdict, VerdictUnverified)
		}
		if decision.Confidence != 0 {
			t.Errorf("tier %s: confidence = %d, want 0", tier, decision.Confidence)
		}
	}

	if free.callCount() != 0 || agent.callCount() != 0 {
		t.Errorf("model calls = free:%d agent:%d, want 0 for gated input", free.callCount(), agent.callCount())
	}
}
