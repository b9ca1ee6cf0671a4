package db

import (
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/hmnreport/internal/model"
)

// ChannelSource implements pgx.CopyFromSource by reading StageRows from a channel.
// This provides natural backpressure between the record producer and COPY writer.
type ChannelSource struct {
	ch      <-chan *model.StageRow
	current *model.StageRow
	rows    int64
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource(ch <-chan *model.StageRow) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	s.rows++
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource) Values() ([]any, error) {
	return s.current.CopyValues(), nil
}

// Err always returns nil; producers report their own failures.
func (s *ChannelSource) Err() error {
	return nil
}

// Rows returns how many rows have been handed to COPY so far.
func (s *ChannelSource) Rows() int64 {
	return s.rows
}

// Compile-time check that ChannelSource satisfies the interface.
var _ pgx.CopyFromSource = (*ChannelSource)(nil)
