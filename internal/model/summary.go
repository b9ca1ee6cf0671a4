package model

import "time"

// LoadSummary captures metrics from a single database load run.
type LoadSummary struct {
	FilePath        string
	FileSHA256      string
	Kind            Kind
	SourceFileID    int64
	LoadBatchID     string
	AlreadyLoaded   bool
	RowsStaged      int64
	RowsPublished   int64
	RowsReplaced    int64
	DurationCopy    time.Duration
	DurationPublish time.Duration
	DurationFinal   time.Duration
	DurationTotal   time.Duration
}
