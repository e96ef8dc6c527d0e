package fedreg

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SummaryBudget is the maximum summary length in bytes.
const SummaryBudget = 600

// topicKeywords maps title tokens to topic labels. Order matters: the first
// matching keyword wins. The mapping is a display convenience, not a
// taxonomy; unmatched documents land in "General".
var topicKeywords = []struct {
	keyword string
	topic   string
}{
	{"environment", "Environment"},
	{"air", "Air Quality"},
	{"energy", "Energy"},
	{"health", "Health"},
	{"medicare", "Healthcare"},
	{"trade", "Trade"},
	{"finance", "Finance"},
	{"tax", "Tax"},
	{"pesticide", "Pesticide"},
}

// TopicForTitle derives a topic label from a document title.
func TopicForTitle(title string) string {
	if title == "" {
		return "General"
	}
	lower := strings.ToLower(title)
	for _, tk := range topicKeywords {
		if strings.Contains(lower, tk.keyword) {
			return tk.topic
		}
	}
	return "General"
}

// TruncateSummary cuts s to at most SummaryBudget bytes without splitting a
// multi-byte character.
func TruncateSummary(s string) string {
	return truncate(s, SummaryBudget)
}

func truncate(s string, budget int) string {
	if len(s) <= budget {
		return s
	}
	cut := budget
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// FormatResults renders an ordered document list as markdown, grouped by
// topic. Group order follows first appearance so the store's ranking is
// preserved within and across groups.
func FormatResults(docs []*Document) string {
	if len(docs) == 0 {
		return "No relevant regulations found."
	}

	var order []string
	grouped := make(map[string][]*Document)
	for _, doc := range docs {
		topic := TopicForTitle(doc.Title)
		if _, ok := grouped[topic]; !ok {
			order = append(order, topic)
		}
		grouped[topic] = append(grouped[topic], doc)
	}

	var sb strings.Builder
	sb.WriteString("# Federal Register Search Results\n\n")
	for _, topic := range order {
		fmt.Fprintf(&sb, "## %s\n\n", topic)
		for _, doc := range grouped[topic] {
			title := doc.Title
			if title == "" {
				title = doc.ID
			}
			if title == "" {
				title = "(No title)"
			}
			agencies := "Unknown"
			if names := agencyNames(doc.Agencies); len(names) > 0 {
				agencies = strings.Join(names, ", ")
			}
			date := ""
			if !doc.PublicationDate.IsZero() {
				date = doc.PublicationDate.Format("2006-01-02")
			}

			fmt.Fprintf(&sb, "### %s\n", title)
			fmt.Fprintf(&sb, "**Date**: %s\n", date)
			fmt.Fprintf(&sb, "**Agencies**: %s\n", agencies)
			fmt.Fprintf(&sb, "**Summary**: %s\n\n", TruncateSummary(doc.Summary()))
		}
	}
	sb.WriteString("---\n*Use `help` for search tips.*")
	return sb.String()
}

func agencyNames(agencies []Agency) []string {
	var names []string
	for _, a := range agencies {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}

const helpUsage = `Federal Register Search Assistant

How to use:

1. Search by keyword
   - ` + "`search <keyword>`" + ` (example: ` + "`search pesticide`" + `)
   - Searches titles, abstracts, and document text for the keyword.

2. Find by agency
   - ` + "`find <agency>`" + ` (example: ` + "`find EPA`" + `)
   - Filters documents published by a specific agency.

3. Get recent documents
   - ` + "`recent <N>`" + ` (example: ` + "`recent 5`" + `)
   - Shows the N most recent documents across all agencies.

4. Show this help
   - ` + "`help`" + `

Note: this assistant answers Federal Register / U.S. regulatory queries
only. Unrelated topics will not return results.`

// FormatHelp renders the usage summary plus vocabulary-derived metadata:
// top agencies, popular keywords, total document count and the most recent
// publication date.
func FormatHelp(vocab *Vocabulary) string {
	var sb strings.Builder
	sb.WriteString(helpUsage)

	if vocab == nil {
		return sb.String()
	}

	if vocab.TotalDocuments > 0 {
		fmt.Fprintf(&sb, "\n\nDocuments indexed: %d", vocab.TotalDocuments)
		if !vocab.LatestPublicationDate.IsZero() {
			fmt.Fprintf(&sb, " (most recent: %s)", vocab.LatestPublicationDate.Format("2006-01-02"))
		}
	}
	if len(vocab.Agencies) > 0 {
		sb.WriteString("\n\nTop agencies (sample):\n")
		writeBullets(&sb, sample(vocab.Agencies, 7))
	}
	if len(vocab.Keywords) > 0 {
		sb.WriteString("\nPopular keywords (sample):\n")
		writeBullets(&sb, sample(vocab.Keywords, 12))
	}
	return sb.String()
}

func writeBullets(sb *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(sb, "  - %s\n", item)
	}
}

func sample(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
