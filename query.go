package fedreg

import (
	"strconv"
	"strings"
)

// Query represents one user request. The conversation ID is opaque and only
// echoed back for response correlation; no state hangs off of it.
type Query struct {
	Text           string `json:"text"`
	ConversationID string `json:"conversationId"`
}

// Response is the assistant's reply to a query.
type Response struct {
	Text           string `json:"text"`
	ConversationID string `json:"conversationId"`
}

// IntentKind identifies one of the closed set of query intents.
type IntentKind int

// The five intent variants. FreeText is the default when no command prefix
// matches; after the relevance gate accepts it, it is searched like
// IntentSearch.
const (
	IntentHelp IntentKind = iota
	IntentRecent
	IntentFind
	IntentSearch
	IntentFreeText
)

// String returns the intent name for logging.
func (k IntentKind) String() string {
	switch k {
	case IntentHelp:
		return "help"
	case IntentRecent:
		return "recent"
	case IntentFind:
		return "find"
	case IntentSearch:
		return "search"
	case IntentFreeText:
		return "free_text"
	}
	return "unknown"
}

// DefaultRecentLimit is used when `recent` is given no (or an invalid) count.
const DefaultRecentLimit = 5

// Intent is the parsed form of a query.
type Intent struct {
	Kind IntentKind

	// Limit is the requested result count for IntentRecent.
	Limit int

	// Agency is the agency argument for IntentFind.
	Agency string

	// Terms holds the search keywords for IntentSearch, or the full query
	// text for IntentFreeText.
	Terms string
}

// ParseIntent classifies a query into exactly one intent. Matching is
// case-insensitive and first match wins. A malformed `recent` count falls
// back to DefaultRecentLimit rather than failing. `search` or `find` with a
// missing argument degrades to FreeText so the relevance gate decides.
func ParseIntent(text string) Intent {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	switch lower {
	case "help", "/help", "commands":
		return Intent{Kind: IntentHelp}
	}

	switch {
	case lower == "recent" || strings.HasPrefix(lower, "recent "):
		limit := DefaultRecentLimit
		parts := strings.Fields(trimmed)
		if len(parts) >= 2 {
			if n, err := strconv.Atoi(parts[1]); err == nil && n > 0 {
				limit = n
			}
		}
		return Intent{Kind: IntentRecent, Limit: limit}

	case strings.HasPrefix(lower, "find "):
		agency := strings.TrimSpace(trimmed[len("find "):])
		if agency == "" {
			return Intent{Kind: IntentFreeText, Terms: trimmed}
		}
		return Intent{Kind: IntentFind, Agency: agency}

	case strings.HasPrefix(lower, "search "):
		terms := strings.TrimSpace(trimmed[len("search "):])
		if terms == "" {
			return Intent{Kind: IntentFreeText, Terms: trimmed}
		}
		return Intent{Kind: IntentSearch, Terms: terms}
	}

	return Intent{Kind: IntentFreeText, Terms: trimmed}
}

// HasCommandPrefix reports whether the text starts with one of the
// recognized command words. Such queries bypass the relevance gate.
func HasCommandPrefix(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, prefix := range []string{"search", "find", "recent", "help"} {
		if lower == prefix || strings.HasPrefix(lower, prefix+" ") {
			return true
		}
	}
	return lower == "/help" || lower == "commands"
}
