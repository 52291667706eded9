// Package reconcile merges facts reported by collectors into a mod catalog.
//
// The Engine is the only writer of a catalog during an update run. Each
// operation enforces the precedence rules between automated discovery and
// human overrides, keeps mods, authors, groups and compatibilities consistent
// with each other, and records what changed in the run ledger.
//
// Operations that cannot apply return false and leave the catalog untouched.
// Malformed input returns a ValidationError. Nothing panics.
package reconcile

import (
	"slices"
	"strings"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/changes"
	"github.com/agentstation/modcatalog/pkg/constants"
	"github.com/agentstation/modcatalog/pkg/errors"
	"github.com/agentstation/modcatalog/pkg/logging"
)

// Engine applies reconciliation operations to one catalog. It is not safe
// for concurrent use.
type Engine struct {
	catalog          *catalogs.Catalog
	ledger           *changes.Ledger
	logger           *zerolog.Logger
	now              func() utc.Time
	retirementMonths int

	unknownAssets  []catalogs.ID
	assetReferrers map[catalogs.ID][]catalogs.ID
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLedger records changes into an existing ledger.
func WithLedger(l *changes.Ledger) Option {
	return func(e *Engine) error {
		if l == nil {
			return &errors.ValidationError{Field: "ledger", Message: "cannot be nil"}
		}
		e.ledger = l
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Engine) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// WithClock sets the clock used for change-note dates, review dates and retirement.
func WithClock(now func() utc.Time) Option {
	return func(e *Engine) error {
		if now == nil {
			return &errors.ValidationError{Field: "clock", Message: "cannot be nil"}
		}
		e.now = now
		return nil
	}
}

// WithRetirementMonths sets the inactivity window after which authors retire.
func WithRetirementMonths(months int) Option {
	return func(e *Engine) error {
		if months <= 0 {
			return &errors.ValidationError{Field: "retirement_months", Value: months, Message: "must be positive"}
		}
		e.retirementMonths = months
		return nil
	}
}

// New creates an Engine for the catalog.
func New(cat *catalogs.Catalog, opts ...Option) (*Engine, error) {
	if cat == nil {
		return nil, errors.ErrCatalogUnavailable
	}
	e := &Engine{
		catalog:          cat,
		ledger:           changes.New(),
		logger:           logging.Default(),
		now:              utc.Now,
		retirementMonths: constants.DefaultRetirementMonths,
		assetReferrers:   make(map[catalogs.ID][]catalogs.ID),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Catalog returns the catalog being reconciled.
func (e *Engine) Catalog() *catalogs.Catalog {
	return e.catalog
}

// Ledger returns the run ledger.
func (e *Engine) Ledger() *changes.Ledger {
	return e.ledger
}

// UnknownAssets returns the required-item IDs that resolved to nothing, in
// first-seen order.
func (e *Engine) UnknownAssets() []catalogs.ID {
	return slices.Clone(e.unknownAssets)
}

// AssetReferrers returns the mods that reported the unknown ID as a requirement.
func (e *Engine) AssetReferrers(id catalogs.ID) []catalogs.ID {
	return slices.Clone(e.assetReferrers[id])
}

// Reset clears the ledger and the unknown-asset accumulator.
func (e *Engine) Reset() {
	e.ledger.Reset()
	e.unknownAssets = nil
	e.assetReferrers = make(map[catalogs.ID][]catalogs.ID)
}

// UnknownAssetSuggestion formats the accumulated unknown IDs as a single
// triage hint, or returns "" when there are none.
func (e *Engine) UnknownAssetSuggestion() string {
	if len(e.unknownAssets) == 0 {
		return ""
	}
	parts := make([]string, 0, len(e.unknownAssets))
	for _, id := range e.unknownAssets {
		var refs []string
		for _, ref := range e.assetReferrers[id] {
			refs = append(refs, ref.String())
		}
		parts = append(parts, id.String()+" (required by "+strings.Join(refs, ", ")+")")
	}
	return "Consider adding these IDs as builtin or asset entries: " + strings.Join(parts, "; ")
}

// log returns the engine logger tagged with the operation being applied.
func (e *Engine) log(operation string) *zerolog.Logger {
	l := e.logger.With().Str("operation", operation).Logger()
	return &l
}

func (e *Engine) today() string {
	return e.now().Format(constants.DateFormat)
}

func (e *Engine) datedNote(text string) string {
	return e.today() + ": " + text
}

func (e *Engine) modChanged(m *catalogs.Mod, fragments ...string) {
	for _, f := range fragments {
		e.ledger.Updated(changes.KindMod, m.ID.String(), m.String(), f)
	}
}

func (e *Engine) groupChanged(g *catalogs.Group, fragments ...string) {
	for _, f := range fragments {
		e.ledger.Updated(changes.KindGroup, g.ID.String(), g.String(), f)
	}
}

func (e *Engine) authorChanged(a *catalogs.Author, fragments ...string) {
	for _, f := range fragments {
		e.ledger.Updated(changes.KindAuthor, a.Key(), a.String(), f)
	}
}

func (e *Engine) noteUnknownAsset(m *catalogs.Mod, id catalogs.ID) {
	e.log("check_asset").Warn().
		Uint64("mod_id", uint64(m.ID)).
		Uint64("required_id", uint64(id)).
		Msg("Required item is not a known mod, group or builtin; probably an asset")

	e.unknownAssets = appendUnique(e.unknownAssets, id)
	e.assetReferrers[id] = appendUnique(e.assetReferrers[id], m.ID)
}

func without[T comparable](list []T, v T) []T {
	return slices.DeleteFunc(list, func(x T) bool { return x == v })
}

func appendUnique[T comparable](list []T, v T) []T {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
