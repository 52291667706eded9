package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/modcatalog/pkg/catalogs"
)

func TestAddRequiredModIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	m := mod(t, e, 100)

	assert.True(t, e.AddRequiredMod(m, 200, catalogs.SourceScraper))
	assert.False(t, e.AddRequiredMod(m, 200, catalogs.SourceScraper))

	assert.Equal(t, []catalogs.ID{200}, m.RequiredMods)
	assert.Equal(t, []string{"required Mod 200 added"}, modFragments(e, 100))
	assert.Len(t, e.Ledger().Entries(), 1)
}

func TestAddRequiredModRejectsSelfAndNil(t *testing.T) {
	e := newTestEngine(t)
	assert.False(t, e.AddRequiredMod(mod(t, e, 100), 100, catalogs.SourceManual))
	assert.False(t, e.AddRequiredMod(nil, 200, catalogs.SourceManual))
	assert.False(t, e.RemoveRequiredMod(nil, 200, catalogs.SourceManual))
}

func TestAddRequiredBuiltin(t *testing.T) {
	e := newTestEngine(t)
	m := mod(t, e, 100)

	assert.True(t, e.AddRequiredMod(m, 5, catalogs.SourceScraper))
	assert.Equal(t, []string{"required builtin Unlock All added"}, modFragments(e, 100))
}

func TestRequirementPrecedence(t *testing.T) {
	t.Run("manual removal of a scraper finding leaves an exclusion", func(t *testing.T) {
		e := newTestEngine(t)
		m := mod(t, e, 100)
		e.AddRequiredMod(m, 200, catalogs.SourceScraper)
		assert.Empty(t, m.ManualRequiredMods)

		assert.True(t, e.RemoveRequiredMod(m, 200, catalogs.SourceManual))
		assert.NotContains(t, m.RequiredMods, catalogs.ID(200))
		assert.Equal(t, []catalogs.ID{200}, m.ExclusionForRequiredMods)

		assert.False(t, e.AddRequiredMod(m, 200, catalogs.SourceScraper), "scraper may not re-add")
		assert.NotContains(t, m.RequiredMods, catalogs.ID(200))
	})

	t.Run("manual removal of a manual entry leaves no exclusion", func(t *testing.T) {
		e := newTestEngine(t)
		m := mod(t, e, 100)
		e.AddRequiredMod(m, 200, catalogs.SourceManual)
		assert.Equal(t, []catalogs.ID{200}, m.ManualRequiredMods)

		assert.True(t, e.RemoveRequiredMod(m, 200, catalogs.SourceManual))
		assert.Empty(t, m.ExclusionForRequiredMods)
		assert.Empty(t, m.ManualRequiredMods)

		assert.True(t, e.AddRequiredMod(m, 200, catalogs.SourceScraper), "scraper may re-add")
	})

	t.Run("scraper removal of a manual entry removes it and its provenance", func(t *testing.T) {
		e := newTestEngine(t)
		m := mod(t, e, 100)
		e.AddRequiredMod(m, 200, catalogs.SourceManual)
		e.Reset()

		assert.True(t, e.RemoveRequiredMod(m, 200, catalogs.SourceScraper))
		assert.Empty(t, m.RequiredMods)
		assert.Empty(t, m.ManualRequiredMods)
		assert.Empty(t, m.ExclusionForRequiredMods)
		assert.Equal(t, []string{"required Mod 200 removed"}, modFragments(e, 100))
	})

	t.Run("scraper removal of a scraper finding leaves no exclusion", func(t *testing.T) {
		e := newTestEngine(t)
		m := mod(t, e, 100)
		e.AddRequiredMod(m, 200, catalogs.SourceScraper)

		assert.True(t, e.RemoveRequiredMod(m, 200, catalogs.SourceScraper))
		assert.Empty(t, m.RequiredMods)
		assert.Empty(t, m.ExclusionForRequiredMods)
		assert.Equal(t, []string{"required Mod 200 added", "required Mod 200 removed"}, modFragments(e, 100))
	})

	t.Run("manual add lifts an exclusion", func(t *testing.T) {
		e := newTestEngine(t)
		m := mod(t, e, 100)
		m.ExclusionForRequiredMods = []catalogs.ID{200}

		assert.True(t, e.AddRequiredMod(m, 200, catalogs.SourceManual))
		assert.Empty(t, m.ExclusionForRequiredMods)
		assert.Equal(t, []catalogs.ID{200}, m.ManualRequiredMods)
	})

	t.Run("manual add of a scraper finding takes over provenance", func(t *testing.T) {
		e := newTestEngine(t)
		m := mod(t, e, 100)
		e.AddRequiredMod(m, 200, catalogs.SourceScraper)

		assert.False(t, e.AddRequiredMod(m, 200, catalogs.SourceManual))
		assert.Equal(t, []catalogs.ID{200}, m.ManualRequiredMods)

		// A manual removal of the taken-over entry leaves no exclusion.
		assert.True(t, e.RemoveRequiredMod(m, 200, catalogs.SourceManual))
		assert.Empty(t, m.ExclusionForRequiredMods)
	})
}

func TestRequirementDoubleToggleAcrossSources(t *testing.T) {
	e := newTestEngine(t)
	m := mod(t, e, 100)

	// scraper finds it, human removes it, human re-adds it, human removes it again
	e.AddRequiredMod(m, 200, catalogs.SourceScraper)
	e.RemoveRequiredMod(m, 200, catalogs.SourceManual)
	e.AddRequiredMod(m, 200, catalogs.SourceManual)
	e.RemoveRequiredMod(m, 200, catalogs.SourceManual)

	assert.Empty(t, m.RequiredMods)
	assert.Empty(t, m.ManualRequiredMods)
	assert.Empty(t, m.ExclusionForRequiredMods)
}

func TestGroupTransitivity(t *testing.T) {
	e := newTestEngine(t)
	g, _ := e.Catalog().Group(1000)
	e.AddGroupMember(g, 200, catalogs.SourceManual)
	e.Ledger().Reset()

	m := mod(t, e, 100)
	assert.True(t, e.AddRequiredMod(m, 300, catalogs.SourceScraper))
	assert.ElementsMatch(t, []catalogs.ID{300, 1000}, m.RequiredMods)

	assert.True(t, e.AddRequiredMod(m, 200, catalogs.SourceScraper))
	assert.ElementsMatch(t, []catalogs.ID{300, 200, 1000}, m.RequiredMods)

	assert.True(t, e.RemoveRequiredMod(m, 300, catalogs.SourceScraper))
	assert.Contains(t, m.RequiredMods, catalogs.ID(1000), "200 still listed")

	assert.True(t, e.RemoveRequiredMod(m, 200, catalogs.SourceScraper))
	assert.Empty(t, m.RequiredMods)
	assert.Contains(t, modFragments(e, 100), "required Group 1000 removed")
}

func TestRequiredDLCPrecedence(t *testing.T) {
	e := newTestEngine(t)
	m := mod(t, e, 100)

	assert.True(t, e.AddRequiredDLC(m, catalogs.DLCAfterDark, catalogs.SourceScraper))
	assert.False(t, e.AddRequiredDLC(m, catalogs.DLCAfterDark, catalogs.SourceScraper))
	assert.False(t, e.AddRequiredDLC(m, 0, catalogs.SourceScraper))

	assert.True(t, e.RemoveRequiredDLC(m, catalogs.DLCAfterDark, catalogs.SourceManual))
	assert.Equal(t, []catalogs.DLC{catalogs.DLCAfterDark}, m.ExclusionForRequiredDLC)
	assert.False(t, e.AddRequiredDLC(m, catalogs.DLCAfterDark, catalogs.SourceScraper))

	assert.True(t, e.AddRequiredDLC(m, catalogs.DLCSnowfall, catalogs.SourceManual))
	m.ExclusionForRequiredDLC = append(m.ExclusionForRequiredDLC, catalogs.DLCSnowfall)
	assert.True(t, e.RemoveRequiredDLC(m, catalogs.DLCSnowfall, catalogs.SourceScraper))
	assert.False(t, e.RemoveRequiredDLC(m, catalogs.DLCSnowfall, catalogs.SourceManual))
	assert.Empty(t, m.ManualRequiredDLC)
	assert.Equal(t, []catalogs.DLC{catalogs.DLCAfterDark}, m.ExclusionForRequiredDLC)

	assert.Equal(t, []string{
		"required DLC After Dark added",
		"required DLC After Dark removed",
		"required DLC Snowfall added",
		"required DLC Snowfall removed",
	}, modFragments(e, 100))
}
