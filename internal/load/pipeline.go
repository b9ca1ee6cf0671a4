// Package load persists normalized record sets to PostgreSQL: records are
// COPY-staged under a fresh batch id, then published into hmn.records,
// replacing any previous load of the same file.
package load

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/hmnreport/internal/model"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Options controls one load run.
type Options struct {
	FilePath    string     // raw export the records were normalized from
	Kind        model.Kind // kind every record must carry
	Force       bool       // reload a file that is already loaded
	KeepStaging bool       // leave the staged batch in place for inspection
}

// Run executes the full load pipeline: preflight → stage → publish →
// dimensions → finalize → cleanup.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, opts Options, records []model.Record) (*model.LoadSummary, error) {
	totalStart := time.Now()

	// Phase 1: Preflight
	log.Info().Str("file", opts.FilePath).Str("kind", string(opts.Kind)).Msg("starting preflight")
	pf, err := Preflight(ctx, pool, log, opts, records)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}

	if pf.AlreadyLoaded {
		log.Info().
			Int64("source_file_id", pf.SourceFileID).
			Str("sha256", pf.FileSHA256).
			Msg("file already loaded, skipping (use --force to reload)")
		return &model.LoadSummary{
			FilePath:      pf.FilePath,
			FileSHA256:    pf.FileSHA256,
			Kind:          opts.Kind,
			SourceFileID:  pf.SourceFileID,
			AlreadyLoaded: true,
			DurationTotal: time.Since(totalStart),
		}, nil
	}

	// Phase 2: Stage
	log.Info().Int("records", len(records)).Msg("starting staging")
	if err := UpdateStatus(ctx, pool, pf.SourceFileID, "staging"); err != nil {
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	stageResult, err := Stage(ctx, pool, log, pf, records)
	if err != nil {
		fail(ctx, pool, log, pf)
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	if err := UpdateStatus(ctx, pool, pf.SourceFileID, "staged"); err != nil {
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	// Phase 3: Publish
	log.Info().Msg("publishing records")
	publishResult, err := Publish(ctx, pool, log, pf)
	if err != nil {
		fail(ctx, pool, log, pf)
		return nil, &PipelineError{Phase: "publish", Err: err}
	}

	// Phase 4: Dimension upserts
	if err := UpsertDimensions(ctx, pool, log, pf.LoadBatchID); err != nil {
		fail(ctx, pool, log, pf)
		return nil, &PipelineError{Phase: "dimensions", Err: err}
	}

	// Phase 5: Finalize
	log.Info().Msg("finalizing")
	finalizeDur, err := Finalize(ctx, pool, log, pf, records)
	if err != nil {
		fail(ctx, pool, log, pf)
		return nil, &PipelineError{Phase: "finalize", Err: err}
	}

	// Phase 6: Cleanup staging
	if !opts.KeepStaging {
		log.Info().Msg("cleaning up staging")
		if err := Cleanup(ctx, pool, log, pf.LoadBatchID); err != nil {
			log.Warn().Err(err).Msg("staging cleanup failed (non-fatal)")
		}
	}

	summary := &model.LoadSummary{
		FilePath:        pf.FilePath,
		FileSHA256:      pf.FileSHA256,
		Kind:            opts.Kind,
		SourceFileID:    pf.SourceFileID,
		LoadBatchID:     pf.LoadBatchID.String(),
		RowsStaged:      stageResult.RowsStaged,
		RowsPublished:   publishResult.RowsInserted,
		RowsReplaced:    publishResult.RowsReplaced,
		DurationCopy:    stageResult.Duration,
		DurationPublish: publishResult.Duration,
		DurationFinal:   finalizeDur,
		DurationTotal:   time.Since(totalStart),
	}

	log.Info().
		Int64("rows_staged", summary.RowsStaged).
		Int64("rows_published", summary.RowsPublished).
		Int64("rows_replaced", summary.RowsReplaced).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("load pipeline complete")

	return summary, nil
}

// fail marks the source file failed and drops the partial staging batch.
func fail(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult) {
	if err := UpdateStatus(ctx, pool, pf.SourceFileID, "failed"); err != nil {
		log.Warn().Err(err).Msg("could not mark source file failed")
	}
	if err := DeleteStageBatch(ctx, pool, pf.LoadBatchID); err != nil {
		log.Warn().Err(err).Msg("could not delete staging batch")
	}
}
