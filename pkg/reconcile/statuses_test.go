package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/changes"
)

func TestStatusMutualExclusion(t *testing.T) {
	groups := [][]catalogs.Status{
		{catalogs.StatusUnlisted, catalogs.StatusRemoved},
		{catalogs.StatusNoLongerNeeded, catalogs.StatusDeprecated, catalogs.StatusAbandoned},
		{catalogs.StatusSourceUnavailable, catalogs.StatusSourceBundled},
		{catalogs.StatusSourceUnavailable, catalogs.StatusSourceNotUpdated},
		{catalogs.StatusSourceUnavailable, catalogs.StatusSourceObfuscated},
		{catalogs.StatusMusicCopyrighted, catalogs.StatusMusicCopyrightFree, catalogs.StatusMusicCopyrightUnknown},
	}
	for _, group := range groups {
		for _, status := range group {
			t.Run(string(status), func(t *testing.T) {
				e := newTestEngine(t)
				m := mod(t, e, 100)
				for _, other := range group {
					if other != status {
						m.Statuses = append(m.Statuses, other)
					}
				}

				assert.True(t, e.AddStatus(m, status, catalogs.SourceManual))
				for _, other := range group {
					if other == status {
						assert.True(t, m.HasStatus(other))
					} else {
						assert.False(t, m.HasStatus(other), "%s should be removed", other)
					}
				}
			})
		}
	}
}

func TestAddStatusIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	m := mod(t, e, 100)

	assert.True(t, e.AddStatus(m, catalogs.StatusReupload, catalogs.SourceScraper))
	assert.False(t, e.AddStatus(m, catalogs.StatusReupload, catalogs.SourceScraper))
	assert.False(t, e.RemoveStatus(m, catalogs.StatusTestVersion, catalogs.SourceScraper))
	assert.False(t, e.AddStatus(m, catalogs.Status("Wobbly"), catalogs.SourceScraper))

	assert.Equal(t, []catalogs.Status{catalogs.StatusReupload}, m.Statuses)
	assert.Equal(t, []string{"Reupload added"}, modFragments(e, 100))

	assert.True(t, e.RemoveStatus(m, catalogs.StatusReupload, catalogs.SourceScraper))
	assert.Empty(t, m.Statuses)
	assert.Equal(t, []string{"Reupload added", "Reupload removed"}, modFragments(e, 100))
}

func TestAddRemovedStatus(t *testing.T) {
	e := newTestEngine(t)
	m := mod(t, e, 100)
	m.Statuses = []catalogs.Status{catalogs.StatusUnlisted, catalogs.StatusNoDescription, catalogs.StatusNoCommentSection, catalogs.StatusModForModders}
	m.ExclusionForNoDescription = catalogs.ExclusionExcluded

	assert.True(t, e.AddStatus(m, catalogs.StatusRemoved, catalogs.SourceScraper))
	assert.Equal(t, []catalogs.Status{catalogs.StatusModForModders, catalogs.StatusRemoved}, m.Statuses)
	assert.Equal(t, catalogs.ExclusionNone, m.ExclusionForNoDescription)

	changed := e.Ledger().Changes()
	require.Len(t, changed, 1)
	assert.Equal(t, changes.ActionRemoved, changed[0].Action)
	assert.Equal(t, []string{"Unlisted removed", "NoCommentSection removed", "NoDescription removed", "Removed added"}, changed[0].Fragments)
}

func TestAddSourceUnavailableBlanksSourceURL(t *testing.T) {
	e := newTestEngine(t)
	m := mod(t, e, 100)
	m.SourceURL = "https://example.com/foo"
	m.Statuses = []catalogs.Status{catalogs.StatusSourceBundled}

	assert.True(t, e.AddStatus(m, catalogs.StatusSourceUnavailable, catalogs.SourceManual))
	assert.Empty(t, m.SourceURL)
	assert.True(t, m.ExclusionForSourceURL)
	assert.Equal(t, []catalogs.Status{catalogs.StatusSourceUnavailable}, m.Statuses)
	assert.Equal(t, []string{"SourceBundled removed", "SourceUnavailable added", "source URL removed"}, modFragments(e, 100))
}

func TestNoDescriptionExclusion(t *testing.T) {
	e := newTestEngine(t)
	m := mod(t, e, 100)

	// scraper reports the status, a human clears it
	assert.True(t, e.AddStatus(m, catalogs.StatusNoDescription, catalogs.SourceScraper))
	assert.Equal(t, catalogs.ExclusionNone, m.ExclusionForNoDescription)
	assert.True(t, e.RemoveStatus(m, catalogs.StatusNoDescription, catalogs.SourceManual))
	assert.Equal(t, catalogs.ExclusionExcluded, m.ExclusionForNoDescription)

	// the scraper cannot re-add it while excluded
	assert.False(t, e.AddStatus(m, catalogs.StatusNoDescription, catalogs.SourceScraper))
	assert.False(t, m.HasStatus(catalogs.StatusNoDescription))

	// a second human change makes the decision pending
	assert.True(t, e.AddStatus(m, catalogs.StatusNoDescription, catalogs.SourceManual))
	assert.Equal(t, catalogs.ExclusionPending, m.ExclusionForNoDescription)

	// the next scraper change resolves it
	assert.True(t, e.RemoveStatus(m, catalogs.StatusNoDescription, catalogs.SourceScraper))
	assert.Equal(t, catalogs.ExclusionNone, m.ExclusionForNoDescription)
	assert.False(t, m.HasStatus(catalogs.StatusNoDescription))
}

func TestIdempotentNoDescriptionLeavesExclusion(t *testing.T) {
	e := newTestEngine(t)
	m := mod(t, e, 100)

	assert.False(t, e.RemoveStatus(m, catalogs.StatusNoDescription, catalogs.SourceManual))
	assert.Equal(t, catalogs.ExclusionNone, m.ExclusionForNoDescription)
}
