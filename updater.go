// Package modcatalog runs catalog update runs.
//
// An Updater opens the active catalog from a persistence.Store, lets the
// scraper and the override importer report facts through a
// reconcile.Engine, retires inactive authors, and saves a new catalog
// version with its change log when anything changed.
//
// Example usage:
//
//	store, _ := persistence.New(dir, persistence.WithBundled(embedded.FS, embedded.CatalogFile))
//	updater, err := modcatalog.New(store,
//	    modcatalog.WithScraper(scraper),
//	    modcatalog.WithImporter(overrides.New(overridesDir)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := updater.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary)
package modcatalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/agentstation/utc"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/constants"
	"github.com/agentstation/modcatalog/pkg/errors"
	"github.com/agentstation/modcatalog/pkg/logging"
	"github.com/agentstation/modcatalog/pkg/persistence"
	"github.com/agentstation/modcatalog/pkg/reconcile"
	"github.com/agentstation/modcatalog/pkg/sources"
)

// Updater performs at most one update run over the active catalog.
// It is not safe for concurrent use.
type Updater struct {
	store      *persistence.Store
	collectors *sources.Registry
	enabled    map[sources.ID]bool
	recorder   RunRecorder

	retirementMonths int
	logger           *zerolog.Logger
	now              func() utc.Time

	state   State
	ran     bool
	catalog *catalogs.Catalog
	origin  persistence.Origin
	engine  *reconcile.Engine
}

// New creates an updater over the store. Both collectors are enabled by
// default; a nil collector never runs.
func New(store *persistence.Store, opts ...Option) (*Updater, error) {
	if store == nil {
		return nil, &errors.ValidationError{Field: "store", Message: "cannot be nil"}
	}
	u := &Updater{
		store:            store,
		collectors:       sources.NewRegistry(),
		enabled:          map[sources.ID]bool{sources.ScraperID: true, sources.ImporterID: true},
		retirementMonths: constants.DefaultRetirementMonths,
		logger:           logging.Default(),
		now:              utc.Now,
		state:            StateIdle,
	}
	for _, opt := range opts {
		if err := opt(u); err != nil {
			return nil, fmt.Errorf("applying updater option: %w", err)
		}
	}
	return u, nil
}

// State returns the current run state.
func (u *Updater) State() State {
	return u.state
}

// Catalog returns the active catalog, opening it on first use. After a run
// it is the catalog reopened from the store.
func (u *Updater) Catalog() (*catalogs.Catalog, error) {
	if u.catalog == nil {
		if err := u.open(); err != nil {
			return nil, err
		}
	}
	return u.catalog, nil
}

func (u *Updater) open() error {
	cat, origin, err := u.store.Open()
	if err != nil {
		return err
	}
	u.catalog, u.origin = cat, origin
	stats := cat.Stats()
	u.logger.Info().
		Uint64("version", cat.Version).
		Str("origin", string(origin)).
		Int("mods", stats.Mods).
		Int("groups", stats.Groups).
		Int("authors", stats.Authors).
		Msg("Catalog opened")
	return nil
}

// close drops the in-memory catalog and reopens it from the store so that
// in-memory changes of a finished run are discarded.
func (u *Updater) close() {
	u.catalog, u.engine = nil, nil
	if err := u.open(); err != nil {
		u.logger.Warn().Err(err).Msg("Could not reopen catalog after run")
	}
}

// Run performs the update run. It returns ErrAlreadyRun on any call after
// the first, whatever the first outcome was.
func (u *Updater) Run(ctx context.Context) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if u.ran {
		return nil, errors.ErrAlreadyRun
	}
	u.ran = true

	result := &Result{
		RunID:         uuid.NewString(),
		StartedAt:     u.now(),
		CollectorErrs: make(map[sources.ID]error),
	}
	ctx = logging.WithRunID(logging.WithLogger(ctx, u.logger), result.RunID)
	u.logger = logging.FromContext(ctx)

	collectors, err := u.initialize(result)
	if err != nil {
		return nil, err
	}

	if err := u.collect(ctx, collectors, result); err != nil {
		u.finish()
		return nil, err
	}

	changed := u.finalize(result)
	if changed {
		u.persist(result)
	} else {
		u.skip(result)
	}

	result.FinishedAt = u.now()
	u.record(ctx, result)
	u.finish()
	return result, nil
}

// initialize opens the catalog, picks the collectors and advances the
// version. Nothing is mutated when it fails.
func (u *Updater) initialize(result *Result) ([]sources.Collector, error) {
	cat, err := u.Catalog()
	if err != nil {
		u.logger.Error().Err(err).Msg("No catalog available; update aborted")
		return nil, err
	}
	result.Origin = u.origin

	collectors := u.enabledCollectors(cat)
	if len(collectors) == 0 {
		u.logger.Error().Int("registered", u.collectors.Len()).Msg("No enabled collector; update aborted")
		return nil, errors.ErrNoCollectors
	}

	engine, err := reconcile.New(cat,
		reconcile.WithLogger(u.logger),
		reconcile.WithClock(u.now),
		reconcile.WithRetirementMonths(u.retirementMonths),
	)
	if err != nil {
		return nil, err
	}
	if err := u.transition(StateInitialized); err != nil {
		return nil, err
	}
	u.engine = engine
	u.engine.Reset()

	cat.Version++
	cat.Updated = u.now()
	switch cat.Version {
	case 2:
		cat.Note = constants.VersionTwoNote
	case 3:
		if cat.Note == constants.VersionTwoNote {
			cat.Note = ""
		}
	}
	result.Version = cat.Version
	u.logger.Info().Uint64("version", cat.Version).Msg("Update started")
	return collectors, nil
}

func (u *Updater) enabledCollectors(cat *catalogs.Catalog) []sources.Collector {
	var collectors []sources.Collector
	for _, c := range u.collectors.Ordered() {
		if !u.enabled[c.ID()] {
			continue
		}
		if c.ID() == sources.ImporterID && cat.StructureVersion < constants.MinOverrideStructureVersion {
			u.logger.Warn().
				Int("structure_version", cat.StructureVersion).
				Int("required", constants.MinOverrideStructureVersion).
				Msg("Catalog structure too old for overrides; importer skipped")
			continue
		}
		collectors = append(collectors, c)
	}
	return collectors
}

// collect runs every collector in order. Collector errors are logged and
// the run continues; only cancellation aborts it.
func (u *Updater) collect(ctx context.Context, collectors []sources.Collector, result *Result) error {
	if err := u.transition(StateCollecting); err != nil {
		return err
	}
	for _, c := range collectors {
		if err := ctx.Err(); err != nil {
			u.logger.Warn().Err(err).Msg("Update cancelled")
			return err
		}
		cctx := logging.WithCollector(ctx, c.ID().String())
		logging.FromContext(cctx).Info().Msg("Collector started")

		result.Collectors = append(result.Collectors, c.ID())
		if err := c.Collect(cctx, u.engine); err != nil {
			result.CollectorErrs[c.ID()] = err
			logging.FromContext(cctx).Error().Err(err).Msg("Collector failed")
			continue
		}
		logging.FromContext(cctx).Info().Str("summary", u.engine.Ledger().Summary().String()).Msg("Collector finished")
	}
	if err := ctx.Err(); err != nil {
		u.logger.Warn().Err(err).Msg("Update cancelled")
		return err
	}
	return nil
}

// finalize runs the retirement pass and reports whether anything changed.
func (u *Updater) finalize(result *Result) bool {
	_ = u.transition(StateFinalizing)

	result.RetiredAuthors = u.engine.RetireEligibleAuthors()
	result.UnknownAssets = u.engine.UnknownAssets()
	if suggestion := u.engine.UnknownAssetSuggestion(); suggestion != "" {
		u.logger.Info().Int("count", len(result.UnknownAssets)).Msg(suggestion)
	}

	result.Summary = u.engine.Ledger().Summary()
	return u.engine.Ledger().HasChanges()
}

// persist flushes the ledger and saves the new version. The first failed
// save degrades the outcome and stops the remaining saves, so no change log
// or override snapshot is written without its catalog.
func (u *Updater) persist(result *Result) {
	_ = u.transition(StatePersisted)
	result.Outcome = OutcomePersisted

	notes := u.engine.Flush()
	u.logger.Debug().Int("notes", notes).Msg("Change notes written")

	version := u.catalog.Version
	if err := u.save(result, version); err != nil {
		u.degrade(result, err)
	}

	event := u.logger.Info()
	if result.Outcome == OutcomeDegraded {
		event = u.logger.Error().Err(result.SaveErr)
	}
	event.
		Uint64("version", version).
		Str("path", result.CatalogFile.Path).
		Str("summary", result.Summary.String()).
		Str("outcome", result.Outcome.String()).
		Msg("Update finished")
}

// save writes the catalog, then its change log, then the override snapshot.
func (u *Updater) save(result *Result, version uint64) error {
	changeLog, err := u.engine.ChangeLog()
	if err != nil {
		return errors.WrapResource("render", "change log", "", err)
	}
	result.ChangeLog = changeLog

	if result.CatalogFile, err = u.store.SaveCatalog(u.catalog); err != nil {
		return err
	}
	if changeLog != "" {
		if result.ChangeLogFile, err = u.store.SaveChangeLog(version, changeLog); err != nil {
			return err
		}
	}

	importer, _ := u.collectors.Get(sources.ImporterID)
	snap, ok := importer.(sources.Snapshotter)
	if !ok || !slices.Contains(result.Collectors, sources.ImporterID) {
		return nil
	}
	content, err := snap.Snapshot()
	switch {
	case err != nil:
		u.logger.Warn().Err(err).Msg("Could not build override snapshot")
	case content != "":
		if result.OverridesFile, err = u.store.SaveOverrides(version, content); err != nil {
			return err
		}
	}
	return nil
}

func (u *Updater) degrade(result *Result, err error) {
	u.logger.Error().Err(err).Msg("Saving update failed")
	result.Outcome = OutcomeDegraded
	result.SaveErr = errors.Join(result.SaveErr, err)
}

func (u *Updater) skip(result *Result) {
	_ = u.transition(StateNoOp)
	result.Outcome = OutcomeNoOp
	u.logger.Info().
		Uint64("version", u.catalog.Version-1).
		Msg("No changes detected; catalog not saved")
}

func (u *Updater) record(ctx context.Context, result *Result) {
	if u.recorder == nil {
		return
	}
	if err := u.recorder.RecordRun(ctx, newRunRecord(result)); err != nil {
		u.logger.Warn().Err(err).Msg("Could not record run")
	}
}

// finish clears the run and reopens the catalog from the store, discarding
// anything not saved.
func (u *Updater) finish() {
	if u.engine != nil {
		u.engine.Reset()
	}
	_ = u.transition(StateIdle)
	u.close()
}
