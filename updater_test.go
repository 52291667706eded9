package modcatalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/constants"
	"github.com/agentstation/modcatalog/pkg/errors"
	"github.com/agentstation/modcatalog/pkg/logging"
	"github.com/agentstation/modcatalog/pkg/persistence"
	"github.com/agentstation/modcatalog/pkg/reconcile"
	"github.com/agentstation/modcatalog/pkg/sources"
)

// snapshotImporter is an importer collector with a fixed snapshot.
type snapshotImporter struct {
	sources.CollectorFunc
	snapshot string
}

func (s snapshotImporter) Snapshot() (string, error) { return s.snapshot, nil }

func bundled(t *testing.T, mutate func(*catalogs.Catalog)) fstest.MapFS {
	t.Helper()
	cat := catalogs.TestCatalog(t)
	if mutate != nil {
		mutate(cat)
	}
	data, err := cat.Encode()
	require.NoError(t, err)
	return fstest.MapFS{constants.BundledCatalogFile: {Data: data}}
}

func newTestStore(t *testing.T, fsys fstest.MapFS) *persistence.Store {
	t.Helper()
	var opts []persistence.Option
	if fsys != nil {
		opts = append(opts, persistence.WithBundled(fsys, ""))
	}
	opts = append(opts, persistence.WithLogger(logging.NewNopLogger()))
	store, err := persistence.New(t.TempDir(), opts...)
	require.NoError(t, err)
	return store
}

func newTestUpdater(t *testing.T, store *persistence.Store, opts ...Option) *Updater {
	t.Helper()
	now := catalogs.TestTime(t, 1)
	opts = append([]Option{
		WithLogger(logging.NewNopLogger()),
		WithClock(func() utc.Time { return now }),
	}, opts...)
	u, err := New(store, opts...)
	require.NoError(t, err)
	return u
}

func addingScraper(id catalogs.ID) sources.Collector {
	return sources.CollectorFunc{
		CollectorID: sources.ScraperID,
		Fn: func(_ context.Context, e *reconcile.Engine) error {
			_, err := e.GetOrAddMod(id, "Scraped")
			return err
		},
	}
}

func idle() sources.Collector {
	return sources.CollectorFunc{CollectorID: sources.ScraperID}
}

func TestRunPersistsChangedCatalog(t *testing.T) {
	store := newTestStore(t, bundled(t, nil))
	var records []RunRecord
	u := newTestUpdater(t, store,
		WithScraper(addingScraper(400)),
		WithImporter(snapshotImporter{
			CollectorFunc: sources.CollectorFunc{CollectorID: sources.ImporterID},
			snapshot:      "mods: []\n",
		}),
		WithRecorder(RunRecorderFunc(func(_ context.Context, r RunRecord) error {
			records = append(records, r)
			return nil
		})),
	)

	result, err := u.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomePersisted, result.Outcome)
	assert.Equal(t, persistence.OriginBundled, result.Origin)
	assert.Equal(t, uint64(2), result.Version)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []sources.ID{sources.ScraperID, sources.ImporterID}, result.Collectors)
	assert.Equal(t, 1, result.Summary.TotalChanges)
	assert.Contains(t, result.ChangeLog, "# Change notes for catalog version 2, released 2024-01-02")
	assert.Contains(t, result.ChangeLog, "[Mod 400] Scraped")

	assert.FileExists(t, result.CatalogFile.Path)
	assert.FileExists(t, result.ChangeLogFile.Path)
	assert.FileExists(t, result.OverridesFile.Path)
	assert.NoError(t, result.SaveErr)

	saved, err := store.LoadVersion(2)
	require.NoError(t, err)
	assert.Equal(t, constants.VersionTwoNote, saved.Note)
	assert.True(t, catalogs.TestTime(t, 1).Time.Equal(saved.Updated.Time))
	_, ok := saved.Mod(400)
	assert.True(t, ok)

	require.Len(t, records, 1)
	assert.Equal(t, result.RunID, records[0].RunID)
	assert.Equal(t, 1, records[0].Added)
	assert.Equal(t, result.CatalogFile.Digest, records[0].CatalogDigest)

	assert.Equal(t, StateIdle, u.State())
	reopened, err := u.Catalog()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), reopened.Version, "reopened from the store")
}

func TestRunOnlyOnce(t *testing.T) {
	u := newTestUpdater(t, newTestStore(t, bundled(t, nil)), WithScraper(idle()))
	_, err := u.Run(context.Background())
	require.NoError(t, err)

	_, err = u.Run(context.Background())
	assert.ErrorIs(t, err, errors.ErrAlreadyRun)
}

func TestRunWithoutChangesSavesNothing(t *testing.T) {
	store := newTestStore(t, bundled(t, nil))
	u := newTestUpdater(t, store, WithScraper(idle()))

	result, err := u.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoOp, result.Outcome)
	assert.False(t, result.HasChanges())
	assert.Empty(t, result.ChangeLog)

	entries, err := os.ReadDir(store.Dir())
	if !os.IsNotExist(err) {
		require.NoError(t, err)
		assert.Empty(t, entries)
	}

	cat, err := u.Catalog()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cat.Version, "advanced version discarded")
	assert.Empty(t, cat.Note)
}

func TestRunRequiresCollectorsAndCatalog(t *testing.T) {
	u := newTestUpdater(t, newTestStore(t, bundled(t, nil)),
		WithScraper(idle()),
		WithScraperEnabled(false),
		WithImporterEnabled(false),
	)
	_, err := u.Run(context.Background())
	assert.ErrorIs(t, err, errors.ErrNoCollectors)
	cat, err := u.Catalog()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cat.Version)

	u = newTestUpdater(t, newTestStore(t, nil), WithScraper(idle()))
	_, err = u.Run(context.Background())
	assert.True(t, errors.IsCatalogUnavailable(err))
}

func TestRunSkipsImporterOnOldStructure(t *testing.T) {
	store := newTestStore(t, bundled(t, func(c *catalogs.Catalog) { c.StructureVersion = 2 }))
	importerRan := false
	u := newTestUpdater(t, store,
		WithScraper(addingScraper(400)),
		WithImporter(sources.CollectorFunc{
			CollectorID: sources.ImporterID,
			Fn: func(context.Context, *reconcile.Engine) error {
				importerRan = true
				return nil
			},
		}),
	)

	result, err := u.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, importerRan)
	assert.Equal(t, []sources.ID{sources.ScraperID}, result.Collectors)
	assert.Empty(t, result.OverridesFile.Path)
}

func TestRunContinuesAfterCollectorError(t *testing.T) {
	failing := sources.CollectorFunc{
		CollectorID: sources.ScraperID,
		Fn: func(context.Context, *reconcile.Engine) error {
			return errors.New("workshop unreachable")
		},
	}
	importer := sources.CollectorFunc{
		CollectorID: sources.ImporterID,
		Fn: func(_ context.Context, e *reconcile.Engine) error {
			e.SetReportFooter("Thanks")
			return nil
		},
	}
	u := newTestUpdater(t, newTestStore(t, bundled(t, nil)), WithScraper(failing), WithImporter(importer))

	result, err := u.Run(context.Background())
	require.NoError(t, err)
	assert.Error(t, result.CollectorErrs[sources.ScraperID])
	assert.Equal(t, OutcomePersisted, result.Outcome)
	assert.Equal(t, 1, result.Summary.CatalogNotes)
}

func TestRunDegradesWhenSavingFails(t *testing.T) {
	store := newTestStore(t, bundled(t, nil))
	// A directory where the catalog file should go makes the write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(store.Dir(), "ModCatalog_v2.yaml"), constants.DirPermissions))

	u := newTestUpdater(t, store, WithScraper(addingScraper(400)))
	result, err := u.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeDegraded, result.Outcome)
	assert.Error(t, result.SaveErr)
	assert.Empty(t, result.CatalogFile.Path)
	assert.Empty(t, result.ChangeLogFile.Path)
	assert.NoFileExists(t, filepath.Join(store.Dir(), "ModCatalog_v2_ChangeNotes.md"), "no change log without its catalog")
	assert.NoFileExists(t, filepath.Join(store.Dir(), "ModCatalog_v2_Overrides.yaml"))
	assert.Equal(t, StateIdle, u.State())
}

func TestRunClearsVersionTwoNoteAtVersionThree(t *testing.T) {
	store := newTestStore(t, bundled(t, func(c *catalogs.Catalog) {
		c.Version = 2
		c.Note = constants.VersionTwoNote
	}))
	u := newTestUpdater(t, store, WithScraper(addingScraper(400)))

	result, err := u.Run(context.Background())
	require.NoError(t, err)
	saved, err := store.LoadVersion(result.Version)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), saved.Version)
	assert.Empty(t, saved.Note)
}

func TestRunRetiresAuthors(t *testing.T) {
	store := newTestStore(t, bundled(t, func(c *catalogs.Catalog) {
		a, _ := c.AuthorByID(42)
		a.LastSeen = catalogs.TestTime(t, -500)
	}))
	u := newTestUpdater(t, store, WithScraper(idle()))

	result, err := u.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.RetiredAuthors)
	assert.Equal(t, OutcomePersisted, result.Outcome)

	saved, err := store.LoadVersion(2)
	require.NoError(t, err)
	a, _ := saved.AuthorByID(42)
	assert.True(t, a.Retired)
	assert.Equal(t, []string{"2024-01-02: retired"}, a.ChangeNotes)
}

func TestRunCancelled(t *testing.T) {
	store := newTestStore(t, bundled(t, nil))
	ctx, cancel := context.WithCancel(context.Background())
	scraper := sources.CollectorFunc{
		CollectorID: sources.ScraperID,
		Fn: func(_ context.Context, e *reconcile.Engine) error {
			_, err := e.GetOrAddMod(400, "Scraped")
			cancel()
			return err
		},
	}
	u := newTestUpdater(t, store, WithScraper(scraper))

	_, err := u.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	versions, err := store.Versions()
	require.NoError(t, err)
	assert.Empty(t, versions)

	cat, err := u.Catalog()
	require.NoError(t, err)
	_, ok := cat.Mod(400)
	assert.False(t, ok, "unsaved changes discarded")
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(nil)
	assert.True(t, errors.IsValidationError(err))

	store := newTestStore(t, nil)
	_, err = New(store, WithRetirementMonths(0))
	assert.True(t, errors.IsValidationError(err))
	_, err = New(store, WithClock(nil))
	assert.True(t, errors.IsValidationError(err))
	_, err = New(store, WithLogger(nil))
	assert.True(t, errors.IsValidationError(err))
	_, err = New(store, WithScraper(sources.CollectorFunc{CollectorID: sources.ImporterID}))
	assert.True(t, errors.IsValidationError(err))
}

func TestWithScraperNilUnregisters(t *testing.T) {
	u := newTestUpdater(t, newTestStore(t, bundled(t, nil)), WithScraper(idle()), WithScraper(nil))

	_, err := u.Run(context.Background())
	assert.ErrorIs(t, err, errors.ErrNoCollectors)
}
