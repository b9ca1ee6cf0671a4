package source

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/gyeh/hmnreport/internal/model"
	"github.com/gyeh/hmnreport/internal/normalize"
	"github.com/gyeh/hmnreport/internal/parquetio"
	"github.com/gyeh/hmnreport/internal/rawread"
)

const emergencyFixture = "../../testdata/emergencias.csv"

func TestLoadRawExport(t *testing.T) {
	records, err := Load(emergencyFixture, model.KindEmergency, rawread.Options{Encoding: "auto"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 12 {
		t.Fatalf("got %d records, want 12", len(records))
	}
}

func TestLoadSnapshot(t *testing.T) {
	records, err := Load(emergencyFixture, model.KindEmergency, rawread.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := filepath.Join(t.TempDir(), "emergencias.parquet")
	if err := parquetio.Write(snap, records); err != nil {
		t.Fatalf("Write: %v", err)
	}

	back, err := Load(snap, model.KindEmergency, rawread.Options{})
	if err != nil {
		t.Fatalf("Load snapshot: %v", err)
	}
	if len(back) != len(records) {
		t.Fatalf("got %d records, want %d", len(back), len(records))
	}

	_, err = Load(snap, model.KindLab, rawread.Options{})
	if !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
}

func TestLoadAllMerges(t *testing.T) {
	records, err := LoadAll([]string{emergencyFixture, emergencyFixture}, model.KindEmergency, rawread.Options{})
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 24 {
		t.Fatalf("got %d records, want 24", len(records))
	}
	for i := range records {
		if records[i].Index != i {
			t.Fatalf("record %d has index %d", i, records[i].Index)
		}
		if i > 0 && records[i].Admission.Before(records[i-1].Admission) {
			t.Fatalf("record %d out of order", i)
		}
	}
}

func TestLoadAllFailsOnAnyInput(t *testing.T) {
	_, err := LoadAll([]string{emergencyFixture, "../../testdata/ambulatorio_latin1.csv"}, model.KindEmergency, rawread.Options{})
	var sm *normalize.SchemaMismatchError
	if !errors.As(err, &sm) {
		t.Fatalf("expected SchemaMismatchError, got %v", err)
	}
}
