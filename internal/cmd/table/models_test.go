package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modcatalog/internal/history"
	"github.com/agentstation/modcatalog/pkg/catalogs"
)

func TestCatalogToTableData(t *testing.T) {
	cat := catalogs.TestCatalog(t)
	cat.Note = "hello"

	data := CatalogToTableData(cat)
	require.Len(t, data.ColumnAlignment, len(data.Headers))

	values := map[string]string{}
	for _, row := range data.Rows {
		values[row[0]] = row[1]
	}
	assert.Equal(t, "1", values["Version"])
	assert.Equal(t, "3 (0 removed)", values["Mods"])
	assert.Equal(t, "2 (0 retired)", values["Authors"])
	assert.Equal(t, "1", values["Groups"])
	assert.Equal(t, "hello", values["Note"])
}

func TestModsToTableData(t *testing.T) {
	cat := catalogs.TestCatalog(t)
	cat.Mods[0], cat.Mods[2] = cat.Mods[2], cat.Mods[0]
	m, _ := cat.Mod(200)
	m.Statuses = []catalogs.Status{catalogs.StatusDeprecated, catalogs.StatusReupload}

	data := ModsToTableData(cat)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, []string{"100", "Foo", "Jane", "Stable", ""}, data.Rows[0])
	assert.Equal(t, []string{"200", "Bar", "Jane", "NotReviewed", "Deprecated, Reupload"}, data.Rows[1])
	assert.Equal(t, "Road Builder", data.Rows[2][2])

	// The catalog order is untouched.
	assert.Equal(t, catalogs.ID(300), cat.Mods[0].ID)
}

func TestIssuesToTableData(t *testing.T) {
	data := IssuesToTableData([]catalogs.Issue{
		{Severity: catalogs.SeverityError, Entity: "mod", ID: "5", Message: "bad"},
	})
	assert.Equal(t, [][]string{{"error", "mod", "5", "bad"}}, data.Rows)
}

func TestRunsToTableData(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	runs := []history.Run{{
		RunID:      "abc",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Outcome:    "persisted",
		Version:    7,
		Collectors: "scraper,importer",
		Added:      2,
		Updated:    1,
	}}

	data := RunsToTableData(runs)
	require.Len(t, data.Rows, 1)
	row := data.Rows[0]
	assert.Equal(t, "abc", row[0])
	assert.Equal(t, "persisted", row[2])
	assert.Equal(t, "7", row[3])
	assert.Equal(t, "3", row[5])
	assert.Equal(t, "1.5s", row[6])
}

func TestDataMap(t *testing.T) {
	d := Data{Rows: [][]string{{"Version", "2"}, {"orphan"}}}
	assert.Equal(t, map[string]string{"Version": "2"}, d.Map())
}
