package history

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/agentstation/modcatalog"
)

// Run is one recorded update run.
type Run struct {
	gorm.Model
	RunID      string    `gorm:"uniqueIndex"` // UUID of the run
	StartedAt  time.Time `gorm:"index"`
	FinishedAt time.Time
	Outcome    string // persisted, noop or degraded
	Version    uint64 // Catalog version produced
	Collectors string // Comma-separated collector IDs in run order

	Added          int
	Updated        int
	Removed        int
	CatalogNotes   int
	RetiredAuthors int
	UnknownAssets  int

	CatalogPath   string
	CatalogDigest string // BLAKE3 digest of the saved catalog file
	Error         string
}

// newRun converts a run record into its database row.
func newRun(r modcatalog.RunRecord) *Run {
	return &Run{
		RunID:          r.RunID,
		StartedAt:      r.StartedAt.Time,
		FinishedAt:     r.FinishedAt.Time,
		Outcome:        r.Outcome.String(),
		Version:        r.Version,
		Collectors:     strings.Join(r.Collectors, ","),
		Added:          r.Added,
		Updated:        r.Updated,
		Removed:        r.Removed,
		CatalogNotes:   r.CatalogNotes,
		RetiredAuthors: r.RetiredAuthors,
		UnknownAssets:  r.UnknownAssets,
		CatalogPath:    r.CatalogPath,
		CatalogDigest:  r.CatalogDigest,
		Error:          r.Error,
	}
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Changes returns the number of changed entities.
func (r *Run) Changes() int {
	return r.Added + r.Updated + r.Removed + r.CatalogNotes
}
