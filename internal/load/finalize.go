package load

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/hmnreport/internal/model"
	embedsql "github.com/gyeh/hmnreport/internal/sql"
)

// Finalize marks the source file loaded with its row count and admission
// period, then refreshes planner statistics.
func Finalize(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult, records []model.Record) (time.Duration, error) {
	start := time.Now()

	var from, to *time.Time
	if len(records) > 0 {
		from, to = &records[0].Admission, &records[0].Admission
		for i := range records {
			if a := &records[i].Admission; a.Before(*from) {
				from = a
			} else if a.After(*to) {
				to = a
			}
		}
	}

	if _, err := pool.Exec(ctx, embedsql.MarkLoaded, pf.SourceFileID, pf.LoadBatchID, len(records), from, to); err != nil {
		return 0, fmt.Errorf("mark loaded: %w", err)
	}
	log.Info().Int64("source_file_id", pf.SourceFileID).Msg("source file marked loaded")

	if _, err := pool.Exec(ctx, "ANALYZE hmn.records"); err != nil {
		return 0, fmt.Errorf("analyze records: %w", err)
	}
	log.Info().Msg("ANALYZE complete")

	return time.Since(start), nil
}
