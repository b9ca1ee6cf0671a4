package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/hmnreport/internal/exitcode"
	"github.com/gyeh/hmnreport/internal/logging"
	"github.com/gyeh/hmnreport/internal/parquetio"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Normalize exports into a Parquet snapshot",
	RunE:  runExport,
}

func init() {
	addInputFlags(exportCmd)
	exportCmd.Flags().StringVar(&cfg.SnapshotPath, "out", "", "Snapshot path (.parquet, required)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	records := loadInputs(log)

	if err := parquetio.Write(cfg.SnapshotPath, records); err != nil {
		log.Error().Err(err).Str("path", cfg.SnapshotPath).Msg("failed to write snapshot")
		os.Exit(exitcode.OutputError)
	}
	fmt.Printf("Snapshot written: %d %s records → %s\n", len(records), cfg.Kind, cfg.SnapshotPath)
	return nil
}
