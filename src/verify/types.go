package verify

import "github.com/pdevulapally/fakeverifier/src/retrieval"

// Verdict labels form a closed enumeration.
const (
	VerdictLikelyReal = "Likely Real"
	VerdictLikelyFake = "Likely Fake"
	VerdictMixed      = "Mixed"
	VerdictUnverified = "Unverified"
)

// Support labels for cross-check findings.
const (
	SupportSupports = "supports"
	SupportRefutes  = "refutes"
	SupportNeutral  = "neutral"
)

// Request is one verification call. Not persisted.
type Request struct {
	UID             string   `json:"uid"`
	Raw             string   `json:"raw"`
	PreviousContext string   `json:"previousContext,omitempty"`
	Context         string   `json:"context,omitempty"`
	Model           string   `json:"model,omitempty"`
	Images          []string `json:"imageBase64Array,omitempty"`
}

// ModelRef identifies which model produced a decision.
type ModelRef struct {
	Vendor string `json:"vendor"`
	Name   string `json:"name"`
}

// Decision is the judge output. Created once per request, never mutated.
type Decision struct {
	Verdict        string   `json:"verdict"`
	Confidence     int      `json:"confidence"`
	Explanation    string   `json:"explanation"`
	SourcesChecked []string `json:"sourcesChecked"`
	ModelUsed      ModelRef `json:"modelUsed"`
}

// Finding is one source's stance on a claim.
type Finding struct {
	URL     string  `json:"url"`
	Support string  `json:"support"`
	Quote   string  `json:"quote"`
	Score   float64 `json:"score"`
}

// CrossCheck is the per-claim cross-check result.
type CrossCheck struct {
	Claim    string    `json:"claim"`
	Findings []Finding `json:"findings"`
}

// PackedEvidence is one entry of the final, model-sorted evidence list.
type PackedEvidence struct {
	URL           string  `json:"url"`
	Title         string  `json:"title,omitempty"`
	Publisher     string  `json:"publisher,omitempty"`
	PublishedTime string  `json:"publishedTime,omitempty"`
	Support       string  `json:"support"`
	Quote         string  `json:"quote"`
	Score         float64 `json:"score"`
}

// Snippet is a keyword-matched sentence pulled from a source.
type Snippet struct {
	URL      string `json:"url"`
	Sentence string `json:"sentence"`
}

// Response is the full verify payload returned to the client.
type Response struct {
	Verdict          string             `json:"verdict"`
	Confidence       int                `json:"confidence"`
	Explanation      string             `json:"explanation"`
	Sources          []retrieval.Source `json:"sources"`
	Evidence         []PackedEvidence   `json:"evidence"`
	EvidenceSnippets []Snippet          `json:"evidenceSnippets"`
	FollowUps        []string           `json:"followUps"`
	MessageMarkdown  string             `json:"messageMarkdown"`
	ModelUsed        ModelRef           `json:"modelUsed"`
}
