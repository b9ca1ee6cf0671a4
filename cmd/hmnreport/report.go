package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/hmnreport/internal/exitcode"
	"github.com/gyeh/hmnreport/internal/logging"
	"github.com/gyeh/hmnreport/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the descriptive report for a set of exports",
	RunE:  runReport,
}

func init() {
	addInputFlags(reportCmd)
	f := reportCmd.Flags()
	f.IntVar(&cfg.TopN, "top", 0, "Override the number of entries kept in truncated tables")
	f.StringVar(&cfg.Partition, "partition", "", "Partition dimension, or none (default per kind)")
	f.StringVar(&cfg.Format, "format", "text", "Output format: text or json")
	f.StringVar(&cfg.OutPath, "out", "", "Write the report to this file instead of stdout")
	f.StringVar(&cfg.XLSXPath, "xlsx", "", "Also write the report as an xlsx workbook")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	if cfg.Format != "text" && cfg.Format != "json" {
		log.Error().Str("format", cfg.Format).Msg("--format must be text or json")
		os.Exit(exitcode.UsageError)
	}
	records := loadInputs(log)

	profile, err := cfg.Profile(cfg.Kind)
	if err != nil {
		log.Error().Err(err).Msg("invalid report profile")
		os.Exit(exitcode.UsageError)
	}
	rep := report.Build(records, profile)
	log.Info().
		Int("tables", len(rep.Tables)).
		Int("partitions", len(rep.Partitions)).
		Int("negative_durations", len(rep.Anomalies)).
		Msg("report built")

	var w io.Writer = os.Stdout
	if cfg.OutPath != "" {
		f, err := os.Create(cfg.OutPath)
		if err != nil {
			log.Error().Err(err).Msg("failed to create output file")
			os.Exit(exitcode.OutputError)
		}
		defer f.Close()
		w = f
	}

	if cfg.Format == "json" {
		err = report.WriteJSON(w, rep)
	} else {
		err = report.WriteText(w, rep)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to write report")
		os.Exit(exitcode.OutputError)
	}

	if cfg.XLSXPath != "" {
		if err := report.WriteXLSX(cfg.XLSXPath, rep); err != nil {
			log.Error().Err(err).Str("path", cfg.XLSXPath).Msg("failed to write workbook")
			os.Exit(exitcode.OutputError)
		}
		fmt.Fprintf(os.Stderr, "Workbook written to %s\n", cfg.XLSXPath)
	}
	return nil
}
