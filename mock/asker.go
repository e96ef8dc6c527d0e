package mock

import (
	"context"

	"github.com/fedsearch/fedreg"
)

var _ fedreg.Asker = (*Asker)(nil)

// Asker is a mock implementation of fedreg.Asker.
type Asker struct {
	AskFn func(ctx context.Context, docs []*fedreg.Document, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, docs []*fedreg.Document, question string) (string, error) {
	return a.AskFn(ctx, docs, question)
}
