// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/modcatalog/internal/history"
	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/constants"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// CatalogToTableData summarizes a catalog as a key-value table.
func CatalogToTableData(cat *catalogs.Catalog) Data {
	stats := cat.Stats()
	updated := "never"
	if !cat.Updated.IsZero() {
		updated = cat.Updated.Time.Format(constants.TimeFormatHuman)
	}
	rows := [][]string{
		{"Version", strconv.FormatUint(cat.Version, 10)},
		{"Structure version", strconv.Itoa(cat.StructureVersion)},
		{"Updated", updated},
		{"Mods", fmt.Sprintf("%d (%d removed)", stats.Mods, stats.RemovedMods)},
		{"Groups", strconv.Itoa(stats.Groups)},
		{"Compatibilities", strconv.Itoa(stats.Compatibilities)},
		{"Authors", fmt.Sprintf("%d (%d retired)", stats.Authors, stats.RetiredAuthors)},
	}
	if cat.Note != "" {
		rows = append(rows, []string{"Note", cat.Note})
	}
	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}

// ModsToTableData lists mods ordered by ID.
func ModsToTableData(cat *catalogs.Catalog) Data {
	mods := slices.Clone(cat.Mods)
	slices.SortFunc(mods, func(a, b *catalogs.Mod) int {
		return cmp.Compare(a.ID, b.ID)
	})

	rows := make([][]string, 0, len(mods))
	for _, m := range mods {
		author := "-"
		if a, ok := cat.AuthorOf(m); ok {
			author = a.Name
		}
		statuses := make([]string, len(m.Statuses))
		for i, s := range m.Statuses {
			statuses[i] = s.String()
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(m.ID), 10),
			m.Name,
			author,
			m.Stability.String(),
			strings.Join(statuses, ", "),
		})
	}

	return Data{
		Headers:         []string{"ID", "Name", "Author", "Stability", "Statuses"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignLeft},
	}
}

// IssuesToTableData lists validation issues.
func IssuesToTableData(issues []catalogs.Issue) Data {
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, []string{string(issue.Severity), issue.Entity, issue.ID, issue.Message})
	}
	return Data{
		Headers: []string{"Severity", "Entity", "ID", "Message"},
		Rows:    rows,
	}
}

// RunsToTableData lists recorded update runs.
func RunsToTableData(runs []history.Run) Data {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.RunID,
			r.StartedAt.UTC().Format(constants.TimeFormatHuman),
			r.Outcome,
			strconv.FormatUint(r.Version, 10),
			r.Collectors,
			strconv.Itoa(r.Changes()),
			r.Duration().Round(time.Millisecond).String(),
		})
	}
	return Data{
		Headers:         []string{"Run", "Started", "Outcome", "Version", "Collectors", "Changes", "Duration"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignRight, AlignRight},
	}
}

// Map returns the rows of a key-value table keyed by their first column.
func (d Data) Map() map[string]string {
	m := make(map[string]string, len(d.Rows))
	for _, row := range d.Rows {
		if len(row) >= 2 {
			m[row[0]] = row[1]
		}
	}
	return m
}
