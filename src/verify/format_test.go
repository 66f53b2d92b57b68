package verify

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pdevulapally/fakeverifier/src/retrieval"
)

func TestConfidenceLabel(t *testing.T) {
	cases := []struct {
		confidence int
		want       string
	}{
		{85, "High"}, {80, "High"}, {60, "Moderate"}, {50, "Moderate"}, {49, "Low"}, {10, "Low"}, {0, "Low"},
	}
	for _, tc := range cases {
		if got := ConfidenceLabel(tc.confidence); got != tc.want {
			t.Errorf("ConfidenceLabel(%d) = %q, want %q", tc.confidence, got, tc.want)
		}
	}
}

func TestMergeSourcesRawKeyAndCap(t *testing.T) {
	f := NewFormatter(nil, nil)

	// Raw string keying: a trailing slash is a different key here, unlike
	// the retrieval aggregator.
	merged := f.mergeSources(
		[]retrieval.Source{{URL: "https://a.com/x"}},
		[]string{"https://a.com/x/", "https://a.com/x"},
	)
	if len(merged) != 2 {
		t.Errorf("len(merged) = %d, want 2 (raw-string dedup keeps slash variant)", len(merged))
	}

	var corpus []retrieval.Source
	for i := 0; i < 15; i++ {
		corpus = append(corpus, retrieval.Source{URL: fmt.Sprintf("https://site%d.com/a", i)})
	}
	if merged := f.mergeSources(corpus, nil); len(merged) != maxReportSources {
		t.Errorf("len(merged) = %d, want cap of %d", len(merged), maxReportSources)
	}
}

func TestExtractSnippets(t *testing.T) {
	sources := []retrieval.Source{
		{URL: "https://a.com/x", Text: "Unrelated opening. The Eiffel Tower stands in Paris since 1889. More text."},
		{URL: "https://b.com/y", Text: "Nothing relevant here at all."},
	}
	snippets := extractSnippets("The Eiffel Tower is in Berlin", sources)
	if len(snippets) != 1 {
		t.Fatalf("snippets = %+v, want exactly one match", snippets)
	}
	if snippets[0].URL != "https://a.com/x" {
		t.Errorf("snippet URL = %q", snippets[0].URL)
	}
	if !strings.Contains(snippets[0].Sentence, "Eiffel Tower stands in Paris") {
		t.Errorf("snippet = %q, want first matching sentence", snippets[0].Sentence)
	}
}

func TestExtractSnippetsShortWordsIgnored(t *testing.T) {
	sources := []retrieval.Source{{URL: "https://a.com", Text: "It is in up to no good."}}
	if got := extractSnippets("it is in up", sources); len(got) != 0 {
		t.Errorf("snippets = %v, want none for claims with only short words", got)
	}
}

func TestFormatEndToEndMarkdown(t *testing.T) {
	f := NewFormatter(nil, nil) // nil client: static follow-ups
	req := &Request{Raw: "The Eiffel Tower is in Berlin"}
	decision := &Decision{
		Verdict:        VerdictLikelyFake,
		Confidence:     97,
		Explanation:    "Multiple sources place the Eiffel Tower in Paris, not Berlin.",
		SourcesChecked: []string{},
		ModelUsed:      ModelRef{Vendor: "openai", Name: "default"},
	}

	resp := f.Format(context.Background(), req, decision, nil, nil)

	if !strings.Contains(resp.MessageMarkdown, "🟥") {
		t.Error("markdown missing red verdict emoji")
	}
	if !strings.Contains(resp.MessageMarkdown, "High") {
		t.Error("markdown missing High confidence label")
	}
	if len(resp.FollowUps) != len(staticFollowUps) {
		t.Errorf("FollowUps = %v, want static fallback", resp.FollowUps)
	}
	if resp.Verdict != VerdictLikelyFake || resp.Confidence != 97 {
		t.Errorf("response carries %s/%d, want Likely Fake/97", resp.Verdict, resp.Confidence)
	}
}

func TestVerdictEmoji(t *testing.T) {
	cases := map[string]string{
		VerdictLikelyReal: "🟩",
		VerdictLikelyFake: "🟥",
		VerdictMixed:      "🟨",
		VerdictUnverified: "⬜",
	}
	for verdict, want := range cases {
		if got := verdictEmoji(verdict); got != want {
			t.Errorf("verdictEmoji(%q) = %q, want %q", verdict, got, want)
		}
	}
}

func TestFollowUpsModelPath(t *testing.T) {
	client := &fakeClient{json: []byte(`{"questions":["Who reported this first?","What do official records say?","Has it been retracted?"]}`)}
	f := NewFormatter(client, nil)
	got := f.followUps(context.Background(), "claim", &Decision{Verdict: VerdictMixed})
	if len(got) != 3 || got[0] != "Who reported this first?" {
		t.Errorf("followUps = %v, want the model's questions", got)
	}
}
