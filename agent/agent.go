// Package agent implements the query-handling core: it gates incoming text
// for domain relevance, routes accepted queries to a lookup strategy, and
// renders the results as text. Every request is handled start-to-finish with
// no cross-request state beyond the passthrough conversation ID.
package agent

import (
	"context"
	"log/slog"

	"github.com/fedsearch/fedreg"
	"github.com/google/uuid"
)

// UnavailableReply is returned when the document store cannot be reached.
// Raw store errors are logged, never shown.
const UnavailableReply = "The document index is temporarily unavailable. Please try again in a moment."

// Agent answers natural language queries against the document store.
type Agent struct {
	Documents  fedreg.DocumentService
	Vocabulary *fedreg.VocabularyCache

	// Asker is optional; when nil, Ask reports EUNAVAILABLE.
	Asker fedreg.Asker

	Logger *slog.Logger
}

// New creates an Agent. A nil logger disables logging.
func New(docs fedreg.DocumentService, vocab *fedreg.VocabularyCache, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Agent{Documents: docs, Vocabulary: vocab, Logger: logger}
}

// Handle processes one query end to end. It never fails the request: gate
// rejections, malformed arguments and store outages all surface as reply
// text. The response echoes the query's conversation ID, generating one when
// absent.
func (a *Agent) Handle(ctx context.Context, q fedreg.Query) fedreg.Response {
	resp := fedreg.Response{ConversationID: q.ConversationID}
	if resp.ConversationID == "" {
		resp.ConversationID = uuid.New().String()
	}

	vocab, err := a.Vocabulary.Snapshot(ctx)
	if err != nil {
		// The gate still works for command-prefixed queries; free text
		// just loses its overlap vocabulary.
		a.Logger.Warn("vocabulary refresh failed", "err", err)
		vocab = nil
	}

	decision := fedreg.EvaluateQuery(q.Text, vocab)
	if !decision.Accepted {
		resp.Text = decision.Reply
		return resp
	}

	intent := fedreg.ParseIntent(q.Text)
	a.Logger.Info("query accepted", "intent", intent.Kind.String(), "overlap", decision.Overlap)

	var docs []*fedreg.Document
	switch intent.Kind {
	case fedreg.IntentHelp:
		resp.Text = fedreg.FormatHelp(vocab)
		return resp

	case fedreg.IntentRecent:
		docs, err = a.Documents.RecentDocuments(ctx, intent.Limit)

	case fedreg.IntentFind:
		docs, err = a.Documents.FindDocumentsByAgency(ctx, intent.Agency, fedreg.DefaultSearchLimit)

	case fedreg.IntentSearch, fedreg.IntentFreeText:
		docs, err = a.Documents.SearchDocuments(ctx, fedreg.SearchFilter{
			Query: intent.Terms,
			Limit: fedreg.DefaultSearchLimit,
		})
	}

	if err != nil {
		// Malformed arguments, like a find target that normalizes to
		// nothing, are a usage problem rather than an outage.
		if fedreg.ErrorCode(err) == fedreg.EINVALID {
			resp.Text = fedreg.FormatHelp(vocab)
			return resp
		}
		a.Logger.Error("lookup failed", "intent", intent.Kind.String(), "err", err)
		resp.Text = UnavailableReply
		return resp
	}

	resp.Text = fedreg.FormatResults(docs)
	return resp
}

// Ask answers a free-form question with the model, using the top search hits
// for the question as context. Returns EUNAVAILABLE when no asker is
// configured and ENOTFOUND when the question matches no documents.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	if a.Asker == nil {
		return "", fedreg.Errorf(fedreg.EUNAVAILABLE, "no language model configured")
	}
	if question == "" {
		return "", fedreg.Errorf(fedreg.EINVALID, "question required")
	}

	docs, err := a.Documents.SearchDocuments(ctx, fedreg.SearchFilter{
		Query: question,
		Limit: fedreg.DefaultSearchLimit,
	})
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", fedreg.Errorf(fedreg.ENOTFOUND, "no documents match the question")
	}

	return a.Asker.Ask(ctx, docs, question)
}
