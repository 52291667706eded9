package modcatalog

import (
	"context"

	"github.com/agentstation/utc"
)

// RunRecord is the durable summary of one update run.
type RunRecord struct {
	RunID      string
	StartedAt  utc.Time
	FinishedAt utc.Time
	Outcome    Outcome
	Version    uint64
	Collectors []string

	Added          int
	Updated        int
	Removed        int
	CatalogNotes   int
	RetiredAuthors int
	UnknownAssets  int

	CatalogPath   string
	CatalogDigest string
	Error         string
}

// RunRecorder stores a record of every finished run.
type RunRecorder interface {
	RecordRun(ctx context.Context, record RunRecord) error
}

// RunRecorderFunc adapts a function into a RunRecorder.
type RunRecorderFunc func(ctx context.Context, record RunRecord) error

// RecordRun implements RunRecorder.
func (f RunRecorderFunc) RecordRun(ctx context.Context, record RunRecord) error {
	return f(ctx, record)
}

// newRunRecord builds the record of a finished run.
func newRunRecord(r *Result) RunRecord {
	record := RunRecord{
		RunID:          r.RunID,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		Outcome:        r.Outcome,
		Version:        r.Version,
		CatalogNotes:   r.Summary.CatalogNotes,
		RetiredAuthors: r.RetiredAuthors,
		UnknownAssets:  len(r.UnknownAssets),
		CatalogPath:    r.CatalogFile.Path,
		CatalogDigest:  r.CatalogFile.Digest,
	}
	for _, id := range r.Collectors {
		record.Collectors = append(record.Collectors, id.String())
	}
	for _, n := range r.Summary.Added {
		record.Added += n
	}
	for _, n := range r.Summary.Updated {
		record.Updated += n
	}
	for _, n := range r.Summary.Removed {
		record.Removed += n
	}
	if r.SaveErr != nil {
		record.Error = r.SaveErr.Error()
	}
	return record
}
