package load

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/gyeh/hmnreport/internal/sql"
)

// PublishResult holds metrics from moving a staged batch into hmn.records.
type PublishResult struct {
	RowsInserted int64
	RowsReplaced int64
	Duration     time.Duration
}

// Publish replaces the file's published records with the staged batch in a
// single transaction, so readers never see a half-loaded file.
func Publish(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult) (*PublishResult, error) {
	start := time.Now()

	var res PublishResult
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, embedsql.DeletePreviousRecords, pf.SourceFileID, pf.LoadBatchID)
		if err != nil {
			return fmt.Errorf("delete previous records: %w", err)
		}
		res.RowsReplaced = tag.RowsAffected()

		tag, err = tx.Exec(ctx, embedsql.PublishRecords, pf.LoadBatchID)
		if err != nil {
			return fmt.Errorf("insert records: %w", err)
		}
		res.RowsInserted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	log.Info().
		Int64("rows_inserted", res.RowsInserted).
		Int64("rows_replaced", res.RowsReplaced).
		Str("duration", res.Duration.String()).
		Msg("publish complete")

	return &res, nil
}
