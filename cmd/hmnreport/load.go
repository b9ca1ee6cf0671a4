package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/hmnreport/internal/db"
	"github.com/gyeh/hmnreport/internal/exitcode"
	"github.com/gyeh/hmnreport/internal/load"
	"github.com/gyeh/hmnreport/internal/logging"
	"github.com/gyeh/hmnreport/internal/source"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load normalized records into the database",
	RunE:  runLoad,
}

func init() {
	addInputFlags(loadCmd)
	f := loadCmd.Flags()
	f.BoolVar(&cfg.Force, "force", false, "Reload even if the file SHA was already loaded")
	f.BoolVar(&cfg.KeepStaging, "keep-staging", false, "Keep staging rows after publish")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.ParseKind(kindArg); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	// Each file is its own source: identity and replacement are per file.
	for _, path := range cfg.Files {
		flog := log.With().Str("file", path).Logger()
		records, err := source.Load(path, cfg.Kind, readOptions())
		if err != nil {
			flog.Error().Err(err).Msg("failed to read input")
			os.Exit(exitFor(err))
		}

		summary, err := load.Run(ctx, pool, flog, load.Options{
			FilePath:    path,
			Kind:        cfg.Kind,
			Force:       cfg.Force,
			KeepStaging: cfg.KeepStaging,
		}, records)
		if err != nil {
			var pe *load.PipelineError
			if errors.As(err, &pe) {
				flog.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("load failed")
				switch pe.Phase {
				case "preflight":
					os.Exit(exitcode.ValidationError)
				case "stage":
					os.Exit(exitcode.CopyError)
				}
			} else {
				flog.Error().Err(err).Msg("load failed")
			}
			os.Exit(exitcode.OutputError)
		}

		if summary.AlreadyLoaded {
			fmt.Printf("%s: already loaded as source file %d (use --force to reload)\n", path, summary.SourceFileID)
			continue
		}
		fmt.Printf("%s: %d records staged, %d published, %d replaced (%.1fs)\n",
			path, summary.RowsStaged, summary.RowsPublished, summary.RowsReplaced, summary.DurationTotal.Seconds())
	}
	return nil
}
