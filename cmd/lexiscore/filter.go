package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/lexiscore/pkg/lexiscore/config"
	"github.com/cognicore/lexiscore/pkg/lexiscore/scored"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store/scorefile"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store/sqlite"
	"github.com/cognicore/lexiscore/pkg/lexiscore/threshold"
	"github.com/cognicore/lexiscore/pkg/lexiscore/wordlist"
)

type filterFlags struct {
	inputFile  string
	outputFile string
	minScore   int
	dedupe     bool
	collate    string
	dbPath     string
	runID      string
}

func (a *app) filterCmd() *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter already scored words based on a threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := config.LoadProfile(a.configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("input-file") {
				profile.AllScoresFile = f.inputFile
			}
			if flags.Changed("output-file") {
				profile.FilteredWordsFile = f.outputFile
			}
			if flags.Changed("min-score") {
				profile.MinScore = &f.minScore
			}
			if flags.Changed("collate") {
				profile.Collate = f.collate
			}
			useLedger := flags.Changed("db") || f.runID != ""
			if flags.Changed("db") {
				profile.DBPath = f.dbPath
			}
			return a.runFilter(cmd, profile, f.dedupe, useLedger, f.runID)
		},
	}
	defaults := config.Default()
	cmd.Flags().StringVar(&f.inputFile, "input-file", defaults.AllScoresFile, "Path to the file containing scored words (word:score)")
	cmd.Flags().StringVar(&f.outputFile, "output-file", defaults.FilteredWordsFile, "Path to save the filtered words")
	cmd.Flags().IntVar(&f.minScore, "min-score", defaults.MinScoreOrDefault(), "Minimum score to keep a word")
	cmd.Flags().BoolVar(&f.dedupe, "dedupe", false, "Keep one entry per word, using its highest score")
	cmd.Flags().StringVar(&f.collate, "collate", "", "Sort output by the collation of a language tag (e.g. tr); default keeps input order")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "Read scores from this SQLite ledger instead of --input-file")
	cmd.Flags().StringVar(&f.runID, "run", "", "Ledger run to filter (default: latest)")
	return cmd
}

func (a *app) runFilter(cmd *cobra.Command, profile config.Profile, dedupe, useLedger bool, runID string) error {
	out := cmd.OutOrStdout()

	var (
		words  []scored.Word
		source string
		err    error
	)
	if useLedger {
		words, source, err = loadFromLedger(cmd.Context(), profile.DBPath, runID)
	} else {
		source = profile.AllScoresFile
		fmt.Fprintf(out, "Reading scored words from %s...\n", source)
		words, err = scorefile.Read(source)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Read %d scored entries from %s (%d duplicate words).\n", len(words), source, threshold.Duplicates(words))
	if dedupe {
		words = threshold.DedupeMax(words)
		fmt.Fprintf(out, "Kept %d unique words.\n", len(words))
	}

	minScore := profile.MinScoreOrDefault()
	filtered := threshold.Filter(words, minScore)
	if profile.Collate != "" {
		if err := threshold.Sort(filtered, profile.Collate); err != nil {
			return err
		}
	}
	if err := wordlist.WriteLines(profile.FilteredWordsFile, filtered); err != nil {
		return err
	}

	fmt.Fprintf(out, "Filtered %d words with scores >= %d.\n", len(filtered), minScore)
	fmt.Fprintf(out, "Filtered words saved to %s\n", profile.FilteredWordsFile)
	return nil
}

func loadFromLedger(ctx context.Context, dbPath, runID string) ([]scored.Word, string, error) {
	ledger, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return nil, "", err
	}
	defer ledger.Close()

	if runID == "" {
		run, err := ledger.LatestRun(ctx)
		if err != nil {
			return nil, "", err
		}
		runID = run.ID
	}
	words, err := ledger.Scores(ctx, runID)
	if err != nil {
		return nil, "", err
	}
	return words, fmt.Sprintf("%s run %s", dbPath, runID), nil
}
