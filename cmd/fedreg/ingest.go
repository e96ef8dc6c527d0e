package main

import (
	"fmt"
	"time"

	"github.com/fedsearch/fedreg"
	"github.com/fedsearch/fedreg/ingest"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	since, until, err := c.window(time.Now())
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fedreg.ErrorMessage(err))
		return err
	}

	p := ingest.New(deps.Source, deps.Documents, deps.Logger)
	p.Concurrency = c.Concurrency
	p.MaxPages = c.MaxPages

	stats, err := p.Run(deps.Ctx, since, until)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fedreg.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Listed %d documents: %d stored, %d unchanged, %d failed\n",
		stats.Listed, stats.Stored, stats.Unchanged, stats.Failed)
	return nil
}

// window resolves the publication-date range from the flags.
func (c *IngestCmd) window(now time.Time) (since, until time.Time, err error) {
	until = now
	if c.Until != "" {
		until, err = time.Parse("2006-01-02", c.Until)
		if err != nil {
			return time.Time{}, time.Time{}, fedreg.Errorf(fedreg.EINVALID, "invalid --until date %q", c.Until)
		}
	}

	if c.Since != "" {
		since, err = time.Parse("2006-01-02", c.Since)
		if err != nil {
			return time.Time{}, time.Time{}, fedreg.Errorf(fedreg.EINVALID, "invalid --since date %q", c.Since)
		}
	} else {
		days := c.Days
		if days <= 0 {
			days = ingest.DefaultDaysBack
		}
		since = until.AddDate(0, 0, -days)
	}

	if since.After(until) {
		return time.Time{}, time.Time{}, fedreg.Errorf(fedreg.EINVALID, "start date is after end date")
	}
	return since, until, nil
}
