package fedreg

import "strings"

// Relevance thresholds. Short queries get a stricter bar because a single
// overlapping token is weak evidence on its own.
const (
	ShortQueryTokens    = 2
	ShortQueryThreshold = 0.33
	OverlapThreshold    = 0.18
)

// RejectPrompt is returned for in-scope-looking but unrecognized requests.
const RejectPrompt = "This assistant strictly answers **Federal Register / U.S. regulatory** queries only.\n\n" +
	"Try one of the following:\n" +
	"• `search <keyword>`\n" +
	"• `find <agency>`\n" +
	"• `recent <N>`\n" +
	"• `help`\n"

// EmptyQueryPrompt is returned for empty or whitespace-only input.
const EmptyQueryPrompt = "Please enter a query. Use `help` for examples."

// GateDecision is the outcome of the relevance gate. Reply is only set when
// the query is rejected.
type GateDecision struct {
	Accepted bool    `json:"accepted"`
	Overlap  float64 `json:"overlap"`
	Reply    string  `json:"reply,omitempty"`
}

// EvaluateQuery decides whether a query is in-domain. Queries carrying a
// recognized command prefix are always accepted. Otherwise the query is
// accepted when the ratio of its tokens found in the vocabulary clears the
// threshold for its length. Empty input is rejected with the help prompt.
func EvaluateQuery(text string, vocab *Vocabulary) GateDecision {
	if strings.TrimSpace(text) == "" {
		return GateDecision{Reply: EmptyQueryPrompt}
	}

	if HasCommandPrefix(text) {
		return GateDecision{Accepted: true}
	}

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return GateDecision{Reply: EmptyQueryPrompt}
	}

	var domainTokens map[string]struct{}
	if vocab != nil {
		domainTokens = vocab.Tokens()
	}

	overlap := 0
	for _, tok := range tokens {
		if _, ok := domainTokens[tok]; ok {
			overlap++
		}
	}
	ratio := float64(overlap) / float64(max(1, len(tokens)))

	threshold := OverlapThreshold
	if len(tokens) <= ShortQueryTokens {
		threshold = ShortQueryThreshold
	}
	if ratio >= threshold {
		return GateDecision{Accepted: true, Overlap: ratio}
	}
	return GateDecision{Overlap: ratio, Reply: RejectPrompt}
}
