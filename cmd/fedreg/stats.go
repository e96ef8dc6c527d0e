package main

import (
	"fmt"

	"github.com/fedsearch/fedreg"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Documents.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fedreg.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Documents indexed: %d\n", stats.TotalDocuments)
	if !stats.LatestPublicationDate.IsZero() {
		fmt.Fprintf(deps.Stdout, "Most recent publication: %s\n", stats.LatestPublicationDate.Format("2006-01-02"))
	}
	return nil
}
