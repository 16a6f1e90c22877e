package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cognicore/lexiscore/internal/llm"
	"github.com/cognicore/lexiscore/pkg/lexiscore"
	"github.com/cognicore/lexiscore/pkg/lexiscore/config"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store/scorefile"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store/sqlite"
	"github.com/cognicore/lexiscore/pkg/lexiscore/threshold"
	"github.com/cognicore/lexiscore/pkg/lexiscore/wordlist"
)

type scoreFlags struct {
	promptFile    string
	allScoresFile string
	filteredFile  string
	minScore      int
	model         string
	batchSize     int
	dbPath        string
}

func (a *app) scoreCmd() *cobra.Command {
	var f scoreFlags
	cmd := &cobra.Command{
		Use:   "score <input_file>",
		Short: "Score words using an LLM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := config.LoadProfile(a.configPath)
			if err != nil {
				return err
			}
			applyScoreFlags(cmd, f, &profile)
			return a.runScore(cmd, args[0], f.model, profile)
		},
	}
	defaults := config.Default()
	cmd.Flags().StringVar(&f.promptFile, "prompt-file", defaults.PromptFile, "Path to the file containing the prompt")
	cmd.Flags().StringVar(&f.allScoresFile, "all-scores-file", defaults.AllScoresFile, "Path to save all words with scores")
	cmd.Flags().StringVar(&f.filteredFile, "filtered-words-file", defaults.FilteredWordsFile, "Path to save words meeting --min-score")
	cmd.Flags().IntVar(&f.minScore, "min-score", defaults.MinScoreOrDefault(), "Minimum score to keep a word")
	cmd.Flags().StringVar(&f.model, "model", "", "OpenRouter model to use (default: DEFAULT_MODEL or "+llm.DefaultModel+")")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", defaults.BatchSize, "Number of words to process in each batch")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "Optional SQLite ledger recording this run")
	return cmd
}

func applyScoreFlags(cmd *cobra.Command, f scoreFlags, p *config.Profile) {
	flags := cmd.Flags()
	if flags.Changed("prompt-file") {
		p.PromptFile = f.promptFile
	}
	if flags.Changed("all-scores-file") {
		p.AllScoresFile = f.allScoresFile
	}
	if flags.Changed("filtered-words-file") {
		p.FilteredWordsFile = f.filteredFile
	}
	if flags.Changed("min-score") {
		p.MinScore = &f.minScore
	}
	if flags.Changed("batch-size") {
		p.BatchSize = f.batchSize
	}
	if flags.Changed("db") {
		p.DBPath = f.dbPath
	}
}

func (a *app) runScore(cmd *cobra.Command, inputFile, modelFlag string, profile config.Profile) (err error) {
	ctx := cmd.Context()
	log := a.logger()
	out := cmd.OutOrStdout()

	if err := profile.Validate(); err != nil {
		return err
	}
	env, err := config.LoadEnv(a.dotenvPath)
	if err != nil {
		return err
	}
	if err := env.RequireAPIKey(); err != nil {
		return err
	}
	model := config.ResolveModel(modelFlag, env, profile, llm.DefaultModel)
	baseURL := env.BaseURL
	if baseURL == "" {
		baseURL = profile.BaseURL
	}

	fmt.Fprintf(out, "Reading words from %s...\n", inputFile)
	words, err := wordlist.Read(inputFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Read %d words.\n", len(words))

	fmt.Fprintf(out, "Reading prompt from %s...\n", profile.PromptFile)
	promptText, err := wordlist.ReadPrompt(profile.PromptFile)
	if err != nil {
		return err
	}
	log.Debug("prompt", slog.String("text", promptText))

	appender, err := scorefile.OpenAppender(profile.AllScoresFile)
	if err != nil {
		return err
	}
	defer appender.Close()
	sinks := []store.Sink{appender}

	if profile.DBPath != "" {
		var ledger *sqlite.Ledger
		ledger, err = sqlite.Open(ctx, profile.DBPath)
		if err != nil {
			return err
		}
		defer ledger.Close()
		var rec *sqlite.Recorder
		rec, err = ledger.BeginRun(ctx, sqlite.RunSpec{
			Model:     model,
			Prompt:    promptText,
			BatchSize: profile.BatchSize,
			WordCount: len(words),
		})
		if err != nil {
			return err
		}
		defer func() {
			// The run may have been interrupted; record the outcome regardless.
			if ferr := rec.Finish(context.WithoutCancel(ctx), err); ferr != nil && err == nil {
				err = ferr
			}
		}()
		sinks = append(sinks, rec)
		log.Info("recording run", slog.String("run", rec.RunID()), slog.String("db", profile.DBPath))
	}

	scorer := lexiscore.New(lexiscore.Options{
		Completer: a.newCompleter(completerSpec{
			Model:     model,
			APIKey:    env.APIKey,
			BaseURL:   baseURL,
			MaxTokens: profile.MaxTokens,
		}, log),
		BatchSize: profile.BatchSize,
		Sinks:     sinks,
		Logger:    log,
	})

	fmt.Fprintf(out, "Scoring words using %s in batches of %d...\n", model, profile.BatchSize)
	report, err := scorer.Score(ctx, words, promptText)
	if err != nil {
		if report.Batches > 0 {
			fmt.Fprintf(out, "Stopped after %d batches; %d scores kept in %s.\n", report.Batches, report.Scored, appender.Path())
		}
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted: %w", err)
		}
		return err
	}

	minScore := profile.MinScoreOrDefault()
	filtered := threshold.Filter(report.Scores, minScore)
	if profile.Collate != "" {
		if err := threshold.Sort(filtered, profile.Collate); err != nil {
			return err
		}
	}
	if err := wordlist.WriteLines(profile.FilteredWordsFile, filtered); err != nil {
		return err
	}

	fmt.Fprintf(out, "Processed %d words; %d scored, %d unparseable lines skipped.\n", report.Words, report.Scored, report.Rejected)
	fmt.Fprintf(out, "All scores saved to %s\n", appender.Path())
	fmt.Fprintf(out, "Filtered %d words with scores >= %d into %s\n", len(filtered), minScore, profile.FilteredWordsFile)
	return nil
}
