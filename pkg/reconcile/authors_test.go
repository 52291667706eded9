package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modcatalog/internal/utils/ptr"
	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/changes"
	"github.com/agentstation/modcatalog/pkg/errors"
)

func authorFragments(e *Engine, key string) []string {
	return e.Ledger().Fragments(changes.KindAuthor, key)
}

func TestGetOrAddAuthor(t *testing.T) {
	e := newTestEngine(t)

	a, err := e.GetOrAddAuthor(42, "", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", a.Name)
	assert.Equal(t, []string{"name changed"}, authorFragments(e, "42"))

	b, err := e.GetOrAddAuthor(0, "roadbuilder", "")
	require.NoError(t, err)
	assert.Equal(t, "Road Builder", b.Name, "empty name leaves the name")

	created, err := e.GetOrAddAuthor(0, "newcomer", "New")
	require.NoError(t, err)
	assert.Equal(t, "newcomer", created.URL)
	assert.Equal(t, []string{"2024-01-01: added"}, created.ChangeNotes)
	assert.True(t, e.Ledger().IsNew(changes.KindAuthor, "url:newcomer"))

	withBoth, err := e.GetOrAddAuthor(99, "ignored", "Both")
	require.NoError(t, err)
	assert.Equal(t, uint64(99), withBoth.ID)
	assert.Empty(t, withBoth.URL)

	_, err = e.GetOrAddAuthor(0, "", "Nobody")
	assert.True(t, errors.IsValidationError(err))
}

func TestGetOrAddAuthorMigratesURLToProfileID(t *testing.T) {
	e := newTestEngine(t)

	a, err := e.GetOrAddAuthor(77, "roadbuilder", "Road Builder")
	require.NoError(t, err)
	assert.Equal(t, uint64(77), a.ID)
	assert.Empty(t, a.URL)

	m := mod(t, e, 300)
	assert.Equal(t, uint64(77), m.AuthorID)
	assert.Empty(t, m.AuthorURL)
	assert.Equal(t, []string{"profile ID added"}, authorFragments(e, "77"))
}

func TestUpdateAuthorMigration(t *testing.T) {
	e := newTestEngine(t)
	a, _ := e.Catalog().AuthorByURL("roadbuilder")

	changed, err := e.UpdateAuthor(a, AuthorPatch{ProfileID: ptr.To(uint64(42))}, catalogs.SourceManual)
	assert.Error(t, err, "profile already taken")
	assert.False(t, changed)

	changed, err = e.UpdateAuthor(a, AuthorPatch{ProfileID: ptr.To(uint64(77))}, catalogs.SourceManual)
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = e.UpdateAuthor(a, AuthorPatch{ProfileID: ptr.To(uint64(78))}, catalogs.SourceManual)
	assert.True(t, errors.IsValidationError(err), "profile IDs are immutable")
}

func TestUpdateAuthorLastSeenRecomputesRetirement(t *testing.T) {
	e := newTestEngine(t)
	a, _ := e.Catalog().AuthorByID(42)

	_, err := e.UpdateAuthor(a, AuthorPatch{LastSeen: ptr.To(catalogs.TestTime(t, -400))}, catalogs.SourceScraper)
	require.NoError(t, err)
	assert.True(t, a.Retired, "inactive beyond the threshold")

	a.Retired = false
	a.ExclusionForRetired = true
	_, err = e.UpdateAuthor(a, AuthorPatch{LastSeen: ptr.To(catalogs.TestTime(t, -390))}, catalogs.SourceScraper)
	require.NoError(t, err)
	assert.False(t, a.Retired, "exclusion keeps the author active")
	assert.True(t, a.ExclusionForRetired)

	_, err = e.UpdateAuthor(a, AuthorPatch{LastSeen: ptr.To(catalogs.TestTime(t, -5))}, catalogs.SourceScraper)
	require.NoError(t, err)
	assert.False(t, a.Retired)
	assert.False(t, a.ExclusionForRetired, "exclusion auto-cleared once active again")
}

func TestUpdateAuthorManualRetirement(t *testing.T) {
	e := newTestEngine(t)
	a, _ := e.Catalog().AuthorByID(42)
	a.LastSeen = catalogs.TestTime(t, -400)
	a.Retired = true

	changed, err := e.UpdateAuthor(a, AuthorPatch{Retired: ptr.To(false)}, catalogs.SourceManual)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, a.Retired)
	assert.True(t, a.ExclusionForRetired)

	_, err = e.UpdateAuthor(a, AuthorPatch{Name: ptr.To("Jane Doe")}, catalogs.SourceManual)
	require.NoError(t, err)
	assert.False(t, a.Retired, "a patch without a retirement change leaves it alone")
	assert.True(t, a.ExclusionForRetired)

	changed, err = e.UpdateAuthor(a, AuthorPatch{Retired: ptr.To(true)}, catalogs.SourceManual)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, a.Retired)
	assert.False(t, a.ExclusionForRetired)

	changed, err = e.UpdateAuthor(a, AuthorPatch{Retired: ptr.To(false)}, catalogs.SourceScraper)
	require.NoError(t, err)
	assert.False(t, changed, "retirement is not the scraper's call")
	assert.True(t, a.Retired)
}

func TestRetireEligibleAuthors(t *testing.T) {
	e := newTestEngine(t)
	jane, _ := e.Catalog().AuthorByID(42)
	road, _ := e.Catalog().AuthorByURL("roadbuilder")

	inactive, err := e.GetOrAddAuthor(55, "", "Inactive")
	require.NoError(t, err)
	inactive.LastSeen = catalogs.TestTime(t, -400)
	_, err = e.GetOrAddMod(400, "Old mod")
	require.NoError(t, err)
	mod(t, e, 400).AuthorID = 55

	excluded, err := e.GetOrAddAuthor(56, "", "Excluded")
	require.NoError(t, err)
	excluded.LastSeen = catalogs.TestTime(t, -400)
	excluded.ExclusionForRetired = true
	_, err = e.GetOrAddMod(500, "Kept mod")
	require.NoError(t, err)
	mod(t, e, 500).AuthorID = 56

	mod(t, e, 300).Statuses = []catalogs.Status{catalogs.StatusRemoved}

	assert.Equal(t, 2, e.RetireEligibleAuthors())

	assert.False(t, jane.Retired, "active with mods")
	assert.True(t, road.Retired, "only a removed mod left, even within the window")
	assert.Equal(t, []string{"no longer has mods", "retired"}, authorFragments(e, "url:roadbuilder"))
	assert.True(t, inactive.Retired)
	assert.False(t, excluded.Retired)

	assert.Equal(t, 0, e.RetireEligibleAuthors(), "retired authors are skipped")
}
