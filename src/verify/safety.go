package verify

import "strings"

// The sensitive-attribute gate refuses to judge claims about a named
// individual's private characteristics. It runs before any model dispatch
// and is deliberately a plain rule list: a match means no LLM is called at
// all for the request.

var honorifics = []string{
	"mr ", "mr.", "mrs ", "mrs.", "ms ", "ms.", "dr ", "dr.",
	"prime minister", "president", "minister", "senator", "mp ",
	"chancellor", "governor", "mayor", "sir ", "dame ", "lord ", "lady ",
	"ceo ", "judge ", "justice ", "professor", "reverend", "imam ", "rabbi ",
}

var sensitivePhrases = []string{
	// sexual orientation
	"gay", "lesbian", "bisexual", "homosexual", "transgender", "sexual orientation",
	// religion
	"religion", "muslim", "christian", "hindu", "jewish", "atheist", "converted to",
	// health
	"hiv", "aids", "cancer", "mental illness", "depression", "terminally ill",
	"health condition", "disease", "diagnosed with",
	// disability
	"disabled", "disability", "blind", "deaf", "wheelchair",
	// caste / ethnicity
	"caste", "dalit", "brahmin", "ethnicity", "ethnic origin", "race of",
	// private life
	"affair", "divorce", "adopted", "illegitimate", "secret child", "love life",
}

// IsSensitivePersonalClaim reports whether the input appears to ask about a
// specific individual's protected or private attributes: it must both name
// a person (honorific or title heuristic) and touch a sensitive category.
func IsSensitivePersonalClaim(text string) bool {
	lower := strings.ToLower(text)
	return containsAny(lower, honorifics) && containsAny(lower, sensitivePhrases)
}

// sensitiveDecision is the fixed decision returned when the gate trips.
func sensitiveDecision() *Decision {
	return &Decision{
		Verdict:    VerdictUnverified,
		Confidence: 0,
		Explanation: "This request appears to concern a named individual's private or protected characteristics " +
			"(such as sexual orientation, religion, health, disability or ethnicity). " +
			"FakeVerifier does not verify claims of this kind, so no analysis was performed.",
		SourcesChecked: []string{},
		ModelUsed:      ModelRef{Vendor: "policy", Name: "sensitive-attribute-gate"},
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
