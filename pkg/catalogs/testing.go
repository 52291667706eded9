package catalogs

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
)

// TestTime returns a fixed, second-precision UTC time offset by days.
func TestTime(t testing.TB, days int) utc.Time {
	t.Helper()
	return utc.Time{Time: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, days)}
}

// TestCatalog creates a small catalog with two authors, three mods and a group.
func TestCatalog(t testing.TB) *Catalog {
	t.Helper()
	cat := New(1)
	cat.Updated = TestTime(t, 0)

	authors := []*Author{
		{ID: 42, Name: "Jane", LastSeen: TestTime(t, 0)},
		{URL: "roadbuilder", Name: "Road Builder", LastSeen: TestTime(t, 0)},
	}
	for _, a := range authors {
		if err := cat.AddAuthor(a); err != nil {
			t.Fatalf("add author: %v", err)
		}
	}

	mods := []*Mod{
		{ID: 100, Name: "Foo", AuthorID: 42, Stability: StabilityStable, Published: TestTime(t, -30), Updated: TestTime(t, -10)},
		{ID: 200, Name: "Bar", AuthorID: 42, Stability: StabilityNotReviewed, Published: TestTime(t, -20), Updated: TestTime(t, -20)},
		{ID: 300, Name: "Road Tools", AuthorURL: "roadbuilder", Stability: StabilityMinorIssues, Published: TestTime(t, -5), Updated: TestTime(t, -5)},
	}
	for _, m := range mods {
		if err := cat.AddMod(m); err != nil {
			t.Fatalf("add mod: %v", err)
		}
	}

	if err := cat.AddGroup(&Group{ID: 1000, Name: "Road tools", Members: []ID{300}}); err != nil {
		t.Fatalf("add group: %v", err)
	}
	return cat
}
