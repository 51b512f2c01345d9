package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/tickermood/tickermood/internal/modules/sentiment"
)

// ScoreBacklogJob drains the unscored article backlog one batch per run.
// The scheduler serializes invocations, preserving the single-writer
// assumption on sentiment fields.
type ScoreBacklogJob struct {
	pipeline  *sentiment.Pipeline
	batchSize int
	log       zerolog.Logger
}

// NewScoreBacklogJob creates a new backlog scoring job
func NewScoreBacklogJob(pipeline *sentiment.Pipeline, batchSize int, log zerolog.Logger) *ScoreBacklogJob {
	return &ScoreBacklogJob{
		pipeline:  pipeline,
		batchSize: batchSize,
		log:       log.With().Str("job", "score_backlog").Logger(),
	}
}

// Name returns the job name
func (j *ScoreBacklogJob) Name() string {
	return "score_backlog"
}

// Run processes one scoring batch
func (j *ScoreBacklogJob) Run() error {
	processed, err := j.pipeline.ProcessBatch(j.batchSize)
	if err != nil {
		return err
	}

	if processed > 0 {
		j.log.Info().Int("processed", processed).Msg("Scored backlog batch")
	}

	return nil
}
