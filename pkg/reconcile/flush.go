package reconcile

import (
	"strconv"
	"strings"

	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/changes"
)

// Flush writes each changed entity's fragments of this run into its
// permanent change notes as one dated line. Entities created in this run
// already carry their "added" note. It returns the number of notes written.
func (e *Engine) Flush() int {
	written := 0
	for _, c := range e.ledger.Changes() {
		if c.Action == changes.ActionAdded || len(c.Fragments) == 0 {
			continue
		}
		notes := e.notesOf(c.Kind, c.Key)
		if notes == nil {
			continue
		}
		line := e.datedNote(strings.Join(c.Fragments, ", "))
		if n := len(*notes); n > 0 && (*notes)[n-1] == line {
			continue
		}
		*notes = append(*notes, line)
		written++
	}
	return written
}

func (e *Engine) notesOf(kind changes.Kind, key string) *[]string {
	switch kind {
	case changes.KindMod:
		if id, err := strconv.ParseUint(key, 10, 64); err == nil {
			if m, ok := e.catalog.Mod(catalogs.ID(id)); ok {
				return &m.ChangeNotes
			}
		}
	case changes.KindGroup:
		if id, err := strconv.ParseUint(key, 10, 64); err == nil {
			if g, ok := e.catalog.Group(catalogs.ID(id)); ok {
				return &g.ChangeNotes
			}
		}
	case changes.KindAuthor:
		if url, ok := strings.CutPrefix(key, catalogs.URLKeyPrefix); ok {
			if a, ok := e.catalog.AuthorByURL(url); ok {
				return &a.ChangeNotes
			}
		} else if id, err := strconv.ParseUint(key, 10, 64); err == nil {
			if a, ok := e.catalog.AuthorByID(id); ok {
				return &a.ChangeNotes
			}
		}
	}
	return nil
}

// ChangeLog renders the change log of this run for the catalog version.
func (e *Engine) ChangeLog() (string, error) {
	return e.ledger.String(changes.Header{
		Version:  e.catalog.Version,
		Released: e.catalog.Updated,
		Note:     e.catalog.Note,
	})
}
