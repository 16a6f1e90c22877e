package lexiscore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cognicore/lexiscore/pkg/lexiscore/batch"
	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/parse"
	"github.com/cognicore/lexiscore/pkg/lexiscore/prompt"
	"github.com/cognicore/lexiscore/pkg/lexiscore/scored"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store/memstore"
)

// Completer sends one scoring request to the model and returns its raw text.
type Completer interface {
	Complete(ctx context.Context, req prompt.Request) (string, error)
}

// Options configures a Scorer
type Options struct {
	Completer Completer
	BatchSize int
	// Sinks receive every batch right after it is parsed, in batch order.
	Sinks  []store.Sink
	Logger *slog.Logger
}

// Scorer drives the scoring pipeline: batch, build, complete, parse, store.
// Batches are sent one at a time.
type Scorer struct {
	completer Completer
	batchSize int
	sinks     []store.Sink
	log       *slog.Logger
}

// New creates a Scorer. A zero BatchSize means batch.DefaultSize.
func New(opts Options) *Scorer {
	size := opts.BatchSize
	if size == 0 {
		size = batch.DefaultSize
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Scorer{
		completer: opts.Completer,
		batchSize: size,
		sinks:     opts.Sinks,
		log:       log,
	}
}

// Report summarises a scoring run.
type Report struct {
	Words    int
	Batches  int // batches completed
	Scored   int
	Rejected int
	Scores   []scored.Word
}

// Score runs every batch through the model. On a collaborator failure it
// stops and returns an error matching internalerr.ErrCollaborator; batches
// completed before the failure have already reached the sinks and are
// included in the returned report.
func (s *Scorer) Score(ctx context.Context, words []string, promptText string) (report Report, err error) {
	report.Words = len(words)
	if s.completer == nil {
		return report, fmt.Errorf("%w: no completer configured", internalerr.ErrInvalidConfig)
	}

	batches, err := batch.Split(words, s.batchSize)
	if err != nil {
		return report, err
	}

	acc := memstore.New()
	defer func() { report.Scores = acc.All() }()

	for b := range batches {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}
		s.log.Info("processing batch",
			slog.Int("batch", b.Index),
			slog.Int("of", b.Total),
			slog.Int("words", len(b.Words)),
		)

		req := prompt.Build(promptText, b)
		text, callErr := s.completer.Complete(ctx, req)
		if callErr != nil {
			return report, fmt.Errorf("%w: batch %d/%d: %w", internalerr.ErrCollaborator, b.Index, b.Total, callErr)
		}

		res := parse.Response(text)
		for _, line := range res.Rejected {
			s.log.Debug("skipping unparseable line", slog.Int("batch", b.Index), slog.String("line", line))
		}

		acc.Append(res.Scores)
		for _, sink := range s.sinks {
			if sinkErr := sink.AppendBatch(ctx, b, res.Scores); sinkErr != nil {
				return report, fmt.Errorf("persist batch %d: %w", b.Index, sinkErr)
			}
		}

		report.Batches++
		report.Scored += len(res.Scores)
		report.Rejected += len(res.Rejected)
		if missing := len(b.Words) - len(res.Scores); missing > 0 {
			s.log.Debug("batch response incomplete", slog.Int("batch", b.Index), slog.Int("missing", missing))
		}
	}

	s.log.Info("scoring complete",
		slog.Int("words", report.Words),
		slog.Int("scored", report.Scored),
		slog.Int("rejected", report.Rejected),
	)
	return report, nil
}
