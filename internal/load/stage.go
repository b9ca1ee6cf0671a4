package load

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/hmnreport/internal/db"
	"github.com/gyeh/hmnreport/internal/model"
	"github.com/gyeh/hmnreport/internal/normalize"
	embedsql "github.com/gyeh/hmnreport/internal/sql"
)

const stageBufferSize = 1024

// StageResult holds metrics from the staging phase.
type StageResult struct {
	RowsStaged int64
	Duration   time.Duration
}

// Stage COPY-loads the records into hmn.stage_records via a channel-backed
// CopyFromSource, tagging each with the batch id and a content hash.
func Stage(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult, records []model.Record) (*StageResult, error) {
	start := time.Now()

	ch := make(chan *model.StageRow, stageBufferSize)
	errCh := make(chan error, 1)

	// Producer goroutine: tag records → push to channel
	go func() {
		defer close(ch)
		for i := range records {
			row := &model.StageRow{
				LoadBatchID:  pf.LoadBatchID,
				SourceFileID: pf.SourceFileID,
				RecordHash:   normalize.RecordHash(&records[i]),
				Record:       &records[i],
			}
			select {
			case ch <- row:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
		errCh <- nil
	}()

	// Consumer: COPY from channel into staging table
	source := db.NewChannelSource(ch)
	rowsStaged, err := pool.CopyFrom(ctx,
		pgx.Identifier{"hmn", "stage_records"},
		model.StageColumns(),
		source,
	)
	if err != nil {
		// Unblock the producer if COPY stopped reading early.
		for range ch {
		}
	}

	// Wait for producer to finish
	prodErr := <-errCh
	if prodErr != nil {
		return nil, fmt.Errorf("stage producer: %w", prodErr)
	}
	if err != nil {
		return nil, fmt.Errorf("stage copy: %w", err)
	}

	dur := time.Since(start)
	log.Info().
		Int64("rows_staged", rowsStaged).
		Str("duration", dur.String()).
		Float64("rows_per_sec", float64(rowsStaged)/dur.Seconds()).
		Msg("staging complete")

	return &StageResult{
		RowsStaged: rowsStaged,
		Duration:   dur,
	}, nil
}

// UpdateStatus updates the source file status.
func UpdateStatus(ctx context.Context, pool *pgxpool.Pool, sourceFileID int64, status string) error {
	_, err := pool.Exec(ctx, embedsql.UpdateSourceStatus, sourceFileID, status)
	return err
}

// DeleteStageBatch deletes staging rows for a specific batch (cleanup failed runs).
func DeleteStageBatch(ctx context.Context, pool *pgxpool.Pool, batchID uuid.UUID) error {
	_, err := pool.Exec(ctx, embedsql.DeleteStageBatch, batchID)
	return err
}
