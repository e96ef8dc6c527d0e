package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fedsearch/fedreg"
	"github.com/fedsearch/fedreg/agent"
	"github.com/fedsearch/fedreg/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	DB         *sqlite.DB
	Documents  fedreg.DocumentService
	Vocabulary *fedreg.VocabularyCache
	Agent      *agent.Agent
	Source     fedreg.DocumentSource
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve  ServeCmd  `cmd:"" help:"Serve the chat API over HTTP"`
	Ingest IngestCmd `cmd:"" help:"Ingest documents from the Federal Register API"`
	Chat   ChatCmd   `cmd:"" help:"Send one message to the search assistant"`
	Ask    AskCmd    `cmd:"" help:"Ask a question answered by the language model"`
	Stats  StatsCmd  `cmd:"" help:"Show document store statistics"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `short:"a" default:":8080" help:"Listen address"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Days        int    `short:"d" default:"30" help:"Ingest documents published in the last N days"`
	Since       string `help:"Start date (YYYY-MM-DD), overrides --days"`
	Until       string `help:"End date (YYYY-MM-DD)"`
	Concurrency int    `short:"c" default:"8" help:"Concurrent detail fetch limit"`
	MaxPages    int    `default:"50" help:"Page limit for the listing walk"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct {
	Message string `arg:"" help:"Message for the search assistant"`
	ChatID  string `help:"Conversation ID to continue"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about indexed documents"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}
