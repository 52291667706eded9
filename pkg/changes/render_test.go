package changes

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSections(t *testing.T) {
	l := New()
	l.Catalog("catalog note changed")
	l.Added(KindMod, "100", "[Mod 100] Foo")
	l.Updated(KindMod, "200", "[Mod 200] Bar", "name changed")
	l.Updated(KindMod, "200", "[Mod 200] Bar", "required Mod 300 added")
	l.Removed(KindCompatibility, "100/200/NewerVersion", "Mod 100 / Mod 200: NewerVersion", "removed")

	out, err := l.String(Header{
		Version:  13,
		Released: utc.Time{Time: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		Note:     "Spring cleanup.",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "# Change notes for catalog version 13, released 2024-05-01")
	assert.Contains(t, out, "Spring cleanup.")
	assert.Contains(t, out, "## Catalog changes")
	assert.Contains(t, out, "- catalog note changed")
	assert.Contains(t, out, "## Added")
	assert.Contains(t, out, "- [Mod 100] Foo")
	assert.Contains(t, out, "## Updated")
	assert.Contains(t, out, "- [Mod 200] Bar: name changed, required Mod 300 added")
	assert.Contains(t, out, "## Removed")
	assert.Contains(t, out, "- Mod 100 / Mod 200: NewerVersion: removed")
}

func TestRenderOmitsEmptySections(t *testing.T) {
	l := New()
	l.Updated(KindMod, "200", "[Mod 200] Bar", "note changed")

	out, err := l.String(Header{Version: 2, Released: utc.Now()})
	require.NoError(t, err)

	assert.Contains(t, out, "## Updated")
	assert.NotContains(t, out, "## Added")
	assert.NotContains(t, out, "## Removed")
	assert.NotContains(t, out, "## Catalog changes")
}
