package modcatalog

import (
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/changes"
	"github.com/agentstation/modcatalog/pkg/persistence"
	"github.com/agentstation/modcatalog/pkg/sources"
)

// Outcome is how an update run ended.
type Outcome string

// Outcome constants.
const (
	OutcomePersisted Outcome = "persisted" // A new catalog version was saved
	OutcomeNoOp      Outcome = "noop"      // Nothing changed, nothing saved
	OutcomeDegraded  Outcome = "degraded"  // Changes were found but saving failed
)

// String returns the string representation of an Outcome.
func (o Outcome) String() string {
	return string(o)
}

// Result is the report of one update run.
type Result struct {
	RunID      string
	Outcome    Outcome
	Origin     persistence.Origin // Where the starting catalog came from
	Version    uint64             // The version this run produced, or would have produced
	StartedAt  utc.Time
	FinishedAt utc.Time

	Collectors     []sources.ID     // Collectors that ran, in order
	CollectorErrs  map[sources.ID]error
	Summary        changes.Summary
	ChangeLog      string // Rendered change log; empty on a no-op run
	RetiredAuthors int
	UnknownAssets  []catalogs.ID

	// Files written by a persisted run. A zero Path means not written.
	CatalogFile   persistence.Artifact
	ChangeLogFile persistence.Artifact
	OverridesFile persistence.Artifact
	SaveErr       error // Set when the outcome is degraded
}

// Duration returns how long the run took.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Time.Sub(r.StartedAt.Time)
}

// HasChanges reports whether the run found anything to persist.
func (r *Result) HasChanges() bool {
	return r.Outcome != OutcomeNoOp
}
