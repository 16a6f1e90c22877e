// Command lexiscore scores a word list with an LLM and filters it by score.
//
//	lexiscore score words.txt --prompt-file prompt.txt --batch-size 100
//	lexiscore filter --input-file all_words_scores.txt --min-score 90
//	lexiscore runs --db lexiscore.db
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cognicore/lexiscore/internal/llm"
	"github.com/cognicore/lexiscore/pkg/lexiscore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		stderr:       os.Stderr,
		dotenvPath:   ".env",
		newCompleter: newLLMCompleter,
	}
	root := a.rootCmd()
	root.SetArgs(legacyArgs(root, os.Args[1:]))
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// completerSpec carries what is needed to reach the model.
type completerSpec struct {
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
}

type app struct {
	stderr       io.Writer
	dotenvPath   string
	newCompleter func(spec completerSpec, log *slog.Logger) lexiscore.Completer

	configPath string
	debug      bool
}

func newLLMCompleter(spec completerSpec, log *slog.Logger) lexiscore.Completer {
	return &llm.Client{
		BaseURL:   spec.BaseURL,
		APIKey:    spec.APIKey,
		Model:     spec.Model,
		MaxTokens: spec.MaxTokens,
		Logger:    log,
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lexiscore",
		Short:         "Filter words using an LLM from OpenRouter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML profile with default settings")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug output")

	root.AddCommand(a.scoreCmd(), a.filterCmd(), a.runsCmd())
	return root
}

func (a *app) logger() *slog.Logger {
	level := slog.LevelInfo
	if a.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

// legacyArgs maps the old "lexiscore <input_file> ..." form onto "score".
func legacyArgs(root *cobra.Command, args []string) []string {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return args
	}
	if cmd, _, err := root.Find(args[:1]); err == nil && cmd != root {
		return args
	}
	switch args[0] {
	case "help", "completion":
		return args
	}
	return append([]string{"score"}, args...)
}
