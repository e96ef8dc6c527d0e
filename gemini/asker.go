// Package gemini implements question answering using Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fedsearch/fedreg"
	"google.golang.org/genai"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// Config holds the Gemini connection settings. BaseURL is optional and
// overrides the API endpoint, for proxies and tests.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Ensure Asker implements fedreg.Asker at compile time.
var _ fedreg.Asker = (*Asker)(nil)

// Asker implements fedreg.Asker using Google Gemini.
type Asker struct {
	client *genai.Client
	model  string
}

// NewAsker creates a new Asker.
func NewAsker(ctx context.Context, cfg Config) (*Asker, error) {
	if cfg.APIKey == "" {
		return nil, fedreg.Errorf(fedreg.EINVALID, "API key required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Asker{client: client, model: model}, nil
}

// Ask answers a natural language question using the given documents as
// context.
func (a *Asker) Ask(ctx context.Context, docs []*fedreg.Document, question string) (string, error) {
	if question == "" {
		return "", fedreg.Errorf(fedreg.EINVALID, "question required")
	}
	if len(docs) == 0 {
		return "", fedreg.Errorf(fedreg.ENOTFOUND, "no documents to answer from")
	}

	prompt := BuildUserPrompt(docs, question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", fedreg.Errorf(fedreg.EUNAVAILABLE, "gemini request failed: %v", err)
	}
	if result == nil {
		return "", fedreg.Errorf(fedreg.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant answering questions about United States Federal Register documents. Answer based only on the documents provided. If the answer is not in the documents, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing documents and question.
func BuildUserPrompt(docs []*fedreg.Document, question string) string {
	var sb strings.Builder
	sb.WriteString("<documents>\n")
	for i, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.ID
		}
		sb.WriteString("<document>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<number>%s</number>\n", doc.ID)
		fmt.Fprintf(&sb, "<title>%s</title>\n", title)
		if !doc.PublicationDate.IsZero() {
			fmt.Fprintf(&sb, "<published>%s</published>\n", doc.PublicationDate.Format("2006-01-02"))
		}
		if names := agencyNames(doc); names != "" {
			fmt.Fprintf(&sb, "<agencies>%s</agencies>\n", names)
		}
		fmt.Fprintf(&sb, "<content>%s</content>\n", docContent(doc))
		sb.WriteString("</document>\n")
	}
	sb.WriteString("</documents>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}

func agencyNames(doc *fedreg.Document) string {
	names := make([]string, 0, len(doc.Agencies))
	for _, a := range doc.Agencies {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func docContent(doc *fedreg.Document) string {
	if doc.FullText != "" {
		return doc.FullText
	}
	return doc.Summary()
}
