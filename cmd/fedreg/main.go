package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fedsearch/fedreg"
	"github.com/fedsearch/fedreg/agent"
	"github.com/fedsearch/fedreg/federalregister"
	"github.com/fedsearch/fedreg/gemini"
	"github.com/fedsearch/fedreg/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	DocumentService fedreg.DocumentService
	Vocabulary      *fedreg.VocabularyCache
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(stderr, nil)),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("fedreg"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'fedreg --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set FEDREG_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	docs := sqlite.NewDocumentService(m.DB, deps.Logger)
	vocabSource := sqlite.NewVocabularyService(m.DB, docs)
	m.DocumentService = docs
	m.Vocabulary = fedreg.NewVocabularyCache(vocabSource, fedreg.DefaultVocabularyTTL)

	deps.DB = m.DB
	deps.Documents = m.DocumentService
	deps.Vocabulary = m.Vocabulary
	deps.Agent = agent.New(m.DocumentService, m.Vocabulary, deps.Logger)

	if cmd == "ingest" {
		deps.Source = federalregister.NewClient()
	}

	if cmd == "ask" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		asker, err := gemini.NewAsker(ctx, gemini.Config{
			APIKey: apiKey,
			Model:  os.Getenv("FEDREG_MODEL"),
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		deps.Agent.Asker = asker
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("FEDREG_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "fedreg.db"
	}
	dir := filepath.Join(home, ".fedreg")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "fedreg.db")
}
