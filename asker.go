package fedreg

import "context"

// Asker provides natural language question answering over search results.
type Asker interface {
	// Ask answers a question using the given documents as context.
	// Returns EUNAVAILABLE if the model endpoint cannot be reached.
	Ask(ctx context.Context, docs []*Document, question string) (string, error)
}
