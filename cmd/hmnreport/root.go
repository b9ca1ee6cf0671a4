package main

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/hmnreport/internal/config"
	"github.com/gyeh/hmnreport/internal/exitcode"
	"github.com/gyeh/hmnreport/internal/logging"
	"github.com/gyeh/hmnreport/internal/model"
	"github.com/gyeh/hmnreport/internal/normalize"
	"github.com/gyeh/hmnreport/internal/parquetio"
	"github.com/gyeh/hmnreport/internal/rawread"
	"github.com/gyeh/hmnreport/internal/source"
)

var (
	cfg     config.Config
	kindArg string
)

var rootCmd = &cobra.Command{
	Use:   "hmnreport",
	Short: "Hospital activity exports → descriptive reports",
	Long: "Normalizes emergency, inpatient, outpatient, surgery and lab exports from the " +
		"hospital information system and produces ranked activity tables, stay durations " +
		"and age-bracket breakdowns. Record sets can be snapshotted to Parquet or loaded into Postgres.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg.LoadEnv()
		if cfg.ProfilePath != "" {
			if err := cfg.LoadFromFile(cfg.ProfilePath); err != nil {
				log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
				log.Error().Err(err).Msg("config file invalid")
				os.Exit(exitcode.UsageError)
			}
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", "", "Postgres connection string (or set HMN_DSN / DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "", "Log format: text or json (default text)")
	pf.StringVar(&cfg.LogLevel, "log-level", "", "Log level: debug, info, warn or error (default info)")
	pf.StringVar(&cfg.ProfilePath, "config", "", "YAML file with encoding, top_n and report profiles")
	pf.StringVar(&cfg.Encoding, "encoding", "", "CSV encoding: auto, utf-8, latin1 or windows-1252")
	pf.StringVar(&cfg.Comma, "comma", "", "CSV delimiter (default ,)")
	pf.StringVar(&cfg.Sheet, "sheet", "", "xlsx sheet name (default first sheet)")
}

// addInputFlags registers the --file and --kind flags shared by commands that
// read exports.
func addInputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayVar(&cfg.Files, "file", nil, "Raw export (.csv/.xlsx) or snapshot (.parquet); repeatable")
	f.StringVar(&kindArg, "kind", "", "Record kind: "+strings.Join(model.KindNames(), ", "))
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("kind")
}

func readOptions() rawread.Options {
	return rawread.Options{Encoding: cfg.Encoding, Comma: cfg.CommaRune(), Sheet: cfg.Sheet}
}

// loadInputs validates the input flags and returns the merged record set,
// exiting with the matching code on failure.
func loadInputs(log zerolog.Logger) []model.Record {
	if err := cfg.ParseKind(kindArg); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	records, err := source.LoadAll(cfg.Files, cfg.Kind, readOptions())
	if err != nil {
		log.Error().Err(err).Str("kind", string(cfg.Kind)).Msg("failed to read input")
		os.Exit(exitFor(err))
	}
	log.Info().Int("records", len(records)).Int("files", len(cfg.Files)).Str("kind", string(cfg.Kind)).Msg("input normalized")
	return records
}

// exitFor maps an input error to its exit code.
func exitFor(err error) int {
	var (
		sm *normalize.SchemaMismatchError
		dp *normalize.DateParseError
		ia *normalize.InvalidAgeError
	)
	switch {
	case errors.As(err, &sm), errors.Is(err, source.ErrKindMismatch), errors.Is(err, parquetio.ErrSchema):
		return exitcode.ValidationError
	case errors.As(err, &dp), errors.As(err, &ia):
		return exitcode.ParseError
	case errors.Is(err, fs.ErrNotExist):
		return exitcode.UsageError
	default:
		return exitcode.ValidationError
	}
}
