package load

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/gyeh/hmnreport/internal/sql"
)

// UpsertDimensions records the diagnosis codes and service sections seen in
// the staged batch. A code keeps the first non-empty description it was
// loaded with.
func UpsertDimensions(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, batchID uuid.UUID) error {
	start := time.Now()

	tag, err := pool.Exec(ctx, embedsql.UpsertDiagnosisCodes, batchID)
	if err != nil {
		return fmt.Errorf("upsert diagnosis codes: %w", err)
	}
	log.Info().Int64("codes_upserted", tag.RowsAffected()).Msg("diagnosis codes upserted")

	tag, err = pool.Exec(ctx, embedsql.UpsertSections, batchID)
	if err != nil {
		return fmt.Errorf("upsert sections: %w", err)
	}
	log.Info().
		Int64("sections_upserted", tag.RowsAffected()).
		Dur("duration", time.Since(start)).
		Msg("sections upserted")

	return nil
}
