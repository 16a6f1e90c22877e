package store

import (
	"context"
	"time"

	"github.com/cognicore/lexiscore/pkg/lexiscore/batch"
	"github.com/cognicore/lexiscore/pkg/lexiscore/scored"
)

// Sink receives each batch's scores as soon as the batch completes.
type Sink interface {
	AppendBatch(ctx context.Context, b batch.Batch, scores []scored.Word) error
	Close() error
}

// Run describes one recorded scoring run.
type Run struct {
	ID         string
	Model      string
	PromptHash string
	BatchSize  int
	WordCount  int
	Scored     int
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt time.Time
}

// RunStatus is the lifecycle state of a recorded run.
type RunStatus string

const (
	RunRunning  RunStatus = "running"
	RunComplete RunStatus = "complete"
	RunFailed   RunStatus = "failed"
)
