package main

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/gyeh/hmnreport/internal/aggregate"
	"github.com/gyeh/hmnreport/internal/exitcode"
	"github.com/gyeh/hmnreport/internal/logging"
	"github.com/gyeh/hmnreport/internal/model"
	"github.com/gyeh/hmnreport/internal/normalize"
	"github.com/gyeh/hmnreport/internal/report"
	"github.com/gyeh/hmnreport/internal/source"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and stats (no writes)",
	RunE:  runPlan,
}

func init() {
	addInputFlags(planCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	records := loadInputs(log)
	layout, _ := model.LayoutFor(cfg.Kind)

	fmt.Println("=== hmnreport plan ===")
	fmt.Printf("Kind:       %s (%d columns, %d header lines)\n", cfg.Kind, layout.Width, layout.SkipRows)
	for _, f := range cfg.Files {
		stat, err := os.Stat(f)
		if err != nil {
			log.Error().Err(err).Msg("failed to stat file")
			os.Exit(exitcode.UsageError)
		}
		fmt.Printf("File:       %s (%d bytes)\n", f, stat.Size())
		if !source.IsSnapshot(f) {
			sha, err := normalize.FileHash(f)
			if err != nil {
				log.Error().Err(err).Msg("failed to hash file")
				os.Exit(exitcode.ValidationError)
			}
			fmt.Printf("SHA-256:    %s\n", sha)
		}
	}
	fmt.Printf("Records:    %d\n", len(records))
	if len(records) == 0 {
		fmt.Println("Schema validation: OK")
		return nil
	}
	fmt.Printf("Period:     %s → %s\n",
		records[0].Admission.Format("02/01/2006 15:04"),
		records[len(records)-1].Admission.Format("02/01/2006 15:04"))

	uncoded := lo.CountBy(records, func(r model.Record) bool { return r.DiagnosisCode == nil })
	fmt.Printf("Uncoded:    %d\n", uncoded)

	fmt.Println()
	fmt.Println("Age brackets:")
	ages := aggregate.CountBy(records, aggregate.DimAgeBracket)
	for _, e := range ages.Entries {
		fmt.Printf("  %-8s %6d  %6.2f%%\n", e.Label, e.Count, e.Percent)
	}

	if layout.Has(model.FieldClinicalDischarge) || layout.Has(model.FieldAdminDischarge) {
		fmt.Println()
		fmt.Println("Mean durations:")
		for _, f := range model.AllDurationFields {
			fmt.Printf("  %-28s %s\n", f.Label(), report.FormatDuration(aggregate.MeanDuration(records, f)))
		}
		if neg := aggregate.NegativeDurations(records); len(neg) > 0 {
			fmt.Printf("\nNegative durations: %d\n", len(neg))
			for _, a := range neg {
				fmt.Printf("  line %d  %-10s %s %s\n", a.SourceRow, a.PatientID, a.FieldName, a.Duration)
			}
		}
	}
	fmt.Println("\nSchema validation: OK")
	return nil
}
