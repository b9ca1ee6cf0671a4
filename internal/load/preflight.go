package load

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/hmnreport/internal/model"
	"github.com/gyeh/hmnreport/internal/normalize"
	embedsql "github.com/gyeh/hmnreport/internal/sql"
)

// PreflightResult holds all context resolved during the preflight phase.
type PreflightResult struct {
	// FilePath is the raw export path, stored as given.
	FilePath string
	// FileSHA256 is the hex-encoded SHA-256 of the raw export. A file is
	// identified by kind and digest, so renaming it does not cause a reload.
	FileSHA256 string
	FileSize   int64
	Kind       model.Kind
	// SourceFileID is the hmn.source_files key, inserted or looked up.
	SourceFileID int64
	// LoadBatchID tags every staged and published row of this run.
	LoadBatchID uuid.UUID
	// AlreadyLoaded is true when the file is loaded and force mode is off.
	AlreadyLoaded bool
}

// Preflight hashes the raw export, checks the records against the declared
// kind, and registers the source file.
func Preflight(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, opts Options, records []model.Record) (*PreflightResult, error) {
	start := time.Now()

	if _, ok := model.LayoutFor(opts.Kind); !ok {
		return nil, fmt.Errorf("preflight: unknown kind %q", opts.Kind)
	}
	for i := range records {
		if records[i].Kind != opts.Kind {
			return nil, fmt.Errorf("preflight: record %d has kind %q, want %q", i, records[i].Kind, opts.Kind)
		}
	}

	sha, err := normalize.FileHash(opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("preflight hash: %w", err)
	}

	stat, err := os.Stat(opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("preflight stat: %w", err)
	}

	id, alreadyLoaded, err := registerSourceFile(ctx, pool, opts, sha, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("preflight register file: %w", err)
	}

	log.Info().
		Str("file", filepath.Base(opts.FilePath)).
		Str("sha256", sha).
		Int("records", len(records)).
		Int64("source_file_id", id).
		Dur("duration", time.Since(start)).
		Msg("preflight complete")

	return &PreflightResult{
		FilePath:      opts.FilePath,
		FileSHA256:    sha,
		FileSize:      stat.Size(),
		Kind:          opts.Kind,
		SourceFileID:  id,
		LoadBatchID:   uuid.New(),
		AlreadyLoaded: alreadyLoaded,
	}, nil
}

func registerSourceFile(ctx context.Context, pool *pgxpool.Pool, opts Options, sha string, size int64) (int64, bool, error) {
	var id int64
	err := pool.QueryRow(ctx, embedsql.RegisterSourceFile,
		string(opts.Kind), filepath.Base(opts.FilePath), sha, size,
	).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf("register source file: %w", err)
	}

	// Already registered (ON CONFLICT DO NOTHING returned no rows).
	var status string
	if err := pool.QueryRow(ctx, embedsql.LookupSourceFile, string(opts.Kind), sha).Scan(&id, &status); err != nil {
		return 0, false, fmt.Errorf("lookup existing source file: %w", err)
	}
	if !opts.Force && status == "loaded" {
		return id, true, nil
	}

	// Reset status for reload
	if err := UpdateStatus(ctx, pool, id, "pending"); err != nil {
		return 0, false, fmt.Errorf("reset source status: %w", err)
	}
	return id, false, nil
}
