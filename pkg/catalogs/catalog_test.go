package catalogs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modcatalog/pkg/errors"
)

func TestCatalogLookups(t *testing.T) {
	cat := TestCatalog(t)

	mod, ok := cat.Mod(100)
	require.True(t, ok)
	assert.Equal(t, "Foo", mod.Name)

	_, ok = cat.Mod(999)
	assert.False(t, ok)

	group, ok := cat.GroupOf(300)
	require.True(t, ok)
	assert.Equal(t, ID(1000), group.ID)

	author, ok := cat.AuthorOf(mod)
	require.True(t, ok)
	assert.Equal(t, "Jane", author.Name)

	road, _ := cat.Mod(300)
	author, ok = cat.AuthorOf(road)
	require.True(t, ok)
	assert.Equal(t, "url:roadbuilder", author.Key())

	assert.True(t, cat.IsKnown(100))
	assert.True(t, cat.IsKnown(1000))
	assert.True(t, cat.IsKnown(3))
	assert.False(t, cat.IsKnown(77))

	assert.Equal(t, "Group 1000", cat.Describe(1000))
	assert.Equal(t, "Mod 100", cat.Describe(100))
	assert.Equal(t, "builtin Unlimited Money", cat.Describe(2))
}

func TestCatalogAddRejectsDuplicates(t *testing.T) {
	cat := TestCatalog(t)

	err := cat.AddMod(&Mod{ID: 100, Name: "Again"})
	assert.True(t, errors.IsValidationError(err))

	err = cat.AddMod(&Mod{ID: 1000, Name: "Clashes with group"})
	assert.True(t, errors.IsValidationError(err))

	err = cat.AddAuthor(&Author{ID: 42, Name: "Other"})
	assert.True(t, errors.IsValidationError(err))

	err = cat.AddAuthor(&Author{ID: 7, URL: "both", Name: "Both"})
	assert.True(t, errors.IsValidationError(err))

	err = cat.AddGroup(&Group{ID: 1001, Name: "Steals 300", Members: []ID{300, 100}})
	assert.True(t, errors.IsValidationError(err))
	_, ok := cat.Group(1001)
	assert.False(t, ok)
}

func TestCatalogGroupMembership(t *testing.T) {
	cat := TestCatalog(t)
	group, _ := cat.Group(1000)

	assert.True(t, cat.AddGroupMember(group, 200))
	assert.False(t, cat.AddGroupMember(group, 200), "already a member")
	assert.Equal(t, []ID{300, 200}, group.Members)

	assert.True(t, cat.RemoveGroupMember(group, 300))
	assert.False(t, cat.RemoveGroupMember(group, 300))
	_, ok := cat.GroupOf(300)
	assert.False(t, ok)

	assert.True(t, cat.RemoveGroup(1000))
	assert.False(t, cat.RemoveGroup(1000))
	_, ok = cat.GroupOf(200)
	assert.False(t, ok)
	assert.Empty(t, cat.Groups)
}

func TestNextGroupIDSkipsUsedIDs(t *testing.T) {
	cat := TestCatalog(t)
	require.NoError(t, cat.AddMod(&Mod{ID: 1001, Name: "Legacy mod in group range"}))

	id, err := cat.NextGroupID()
	require.NoError(t, err)
	assert.Equal(t, ID(1002), id)
}

func TestCatalogCompatibilities(t *testing.T) {
	cat := TestCatalog(t)
	compat := &Compatibility{FirstModID: 100, SecondModID: 200, Status: CompatibilityNewerVersion}

	require.NoError(t, cat.AddCompatibility(compat))
	assert.Error(t, cat.AddCompatibility(&Compatibility{FirstModID: 100, SecondModID: 200, Status: CompatibilityNewerVersion}))
	require.NoError(t, cat.AddCompatibility(&Compatibility{FirstModID: 100, SecondModID: 200, Status: CompatibilityMinorIssues}))

	found, ok := cat.Compatibility(100, 200, CompatibilityNewerVersion)
	require.True(t, ok)
	assert.Same(t, compat, found)

	assert.False(t, cat.RemoveCompatibility(200, 100, CompatibilityNewerVersion), "exact triple only")
	assert.True(t, cat.RemoveCompatibility(100, 200, CompatibilityNewerVersion))
	assert.Len(t, cat.Compatibilities, 1)
}

func TestSetAuthorIDMigratesIndex(t *testing.T) {
	cat := TestCatalog(t)
	author, ok := cat.AuthorByURL("roadbuilder")
	require.True(t, ok)

	require.NoError(t, cat.SetAuthorID(author, 77))

	_, ok = cat.AuthorByURL("roadbuilder")
	assert.False(t, ok)
	moved, ok := cat.AuthorByID(77)
	require.True(t, ok)
	assert.Same(t, author, moved)
	assert.Empty(t, moved.URL)

	assert.Error(t, cat.SetAuthorID(moved, 42), "profile already taken")
}

func TestCatalogStats(t *testing.T) {
	cat := TestCatalog(t)
	mod, _ := cat.Mod(200)
	mod.Statuses = []Status{StatusRemoved}

	stats := cat.Stats()
	assert.Equal(t, 3, stats.Mods)
	assert.Equal(t, 1, stats.RemovedMods)
	assert.Equal(t, 1, stats.Groups)
	assert.Equal(t, 2, stats.Authors)
}

func TestStructLiteralCatalogIndexesOnFirstWrite(t *testing.T) {
	cat := &Catalog{Mods: []*Mod{{ID: 100, Name: "Foo"}}}
	require.NoError(t, cat.AddMod(&Mod{ID: 200, Name: "Bar"}))

	_, ok := cat.Mod(100)
	assert.True(t, ok)
	assert.Len(t, cat.Mods, 2)
}
