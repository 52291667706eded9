// Package changes provides the change-note ledger of an update run.
//
// The ledger is a structured, append-only list of (entity, action, fragment)
// records. Identical records are kept once, and updates to an entity added
// in the same run are dropped since the entity is reported as new. Records
// are only joined into text when the run is flushed or rendered.
package changes

import (
	"fmt"
	"strings"
)

// Kind is the kind of entity a record belongs to.
type Kind string

// Kind constants, in rendering order.
const (
	KindCatalog       Kind = "catalog"
	KindMod           Kind = "mod"
	KindGroup         Kind = "group"
	KindCompatibility Kind = "compatibility"
	KindAuthor        Kind = "author"
)

// Kinds lists every entity kind in rendering order.
var Kinds = []Kind{KindCatalog, KindMod, KindGroup, KindCompatibility, KindAuthor}

// Action is what happened to the entity.
type Action string

// Action constants.
const (
	ActionAdded   Action = "added"
	ActionUpdated Action = "updated"
	ActionRemoved Action = "removed"
)

// Entry is one ledger record.
type Entry struct {
	Kind     Kind
	Key      string // Entity identifier, empty for catalog records
	Action   Action
	Fragment string
}

// Change is every record of one entity folded together.
type Change struct {
	Kind      Kind
	Key       string
	Subject   string
	Action    Action // Added over Removed over Updated
	Fragments []string
}

type subject struct {
	kind Kind
	key  string
}

// Ledger accumulates the records of one run. It is not safe for concurrent use.
type Ledger struct {
	entries  []Entry
	seen     map[Entry]struct{}
	subjects map[subject]string
	order    []subject
}

// New creates an empty ledger.
func New() *Ledger {
	l := &Ledger{}
	l.Reset()
	return l
}

// Reset drops every record.
func (l *Ledger) Reset() {
	l.entries = nil
	l.seen = make(map[Entry]struct{})
	l.subjects = make(map[subject]string)
	l.order = nil
}

// Record appends a record and reports whether it was new. Updates to an
// entity added in this run and empty fragments are not recorded.
func (l *Ledger) Record(kind Kind, key, display string, action Action, fragment string) bool {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" && action != ActionAdded {
		return false
	}
	if action == ActionUpdated && l.IsNew(kind, key) {
		return false
	}

	entry := Entry{Kind: kind, Key: key, Action: action, Fragment: fragment}
	if _, dup := l.seen[entry]; dup {
		return false
	}
	l.seen[entry] = struct{}{}
	l.entries = append(l.entries, entry)

	s := subject{kind, key}
	if _, known := l.subjects[s]; !known {
		l.order = append(l.order, s)
		l.subjects[s] = display
	} else if display != "" {
		l.subjects[s] = display
	}
	return true
}

// Added records the creation of an entity.
func (l *Ledger) Added(kind Kind, key, display string) bool {
	return l.Record(kind, key, display, ActionAdded, "")
}

// Updated records a change to an existing entity.
func (l *Ledger) Updated(kind Kind, key, display, fragment string) bool {
	return l.Record(kind, key, display, ActionUpdated, fragment)
}

// Removed records the removal of an entity.
func (l *Ledger) Removed(kind Kind, key, display, fragment string) bool {
	return l.Record(kind, key, display, ActionRemoved, fragment)
}

// Catalog records a change to the catalog itself.
func (l *Ledger) Catalog(fragment string) bool {
	return l.Record(KindCatalog, "", "", ActionUpdated, fragment)
}

// IsNew reports whether the entity was added in this run.
func (l *Ledger) IsNew(kind Kind, key string) bool {
	_, ok := l.seen[Entry{Kind: kind, Key: key, Action: ActionAdded}]
	return ok
}

// Entries returns every record in insertion order.
func (l *Ledger) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// HasChanges reports whether anything was recorded.
func (l *Ledger) HasChanges() bool {
	return len(l.entries) > 0
}

// Fragments returns the non-creation fragments of one entity in insertion order.
func (l *Ledger) Fragments(kind Kind, key string) []string {
	var out []string
	for _, e := range l.entries {
		if e.Kind == kind && e.Key == key && e.Action != ActionAdded {
			out = append(out, e.Fragment)
		}
	}
	return out
}

// Changes folds the records per entity, in first-recorded order.
func (l *Ledger) Changes() []Change {
	index := make(map[subject]*Change, len(l.order))
	changes := make([]*Change, 0, len(l.order))
	for _, s := range l.order {
		c := &Change{Kind: s.kind, Key: s.key, Subject: l.subjects[s], Action: ActionUpdated}
		index[s] = c
		changes = append(changes, c)
	}
	for _, e := range l.entries {
		c := index[subject{e.Kind, e.Key}]
		switch {
		case e.Action == ActionAdded:
			c.Action = ActionAdded
		case e.Action == ActionRemoved && c.Action != ActionAdded:
			c.Action = ActionRemoved
		}
		if e.Fragment != "" {
			c.Fragments = append(c.Fragments, e.Fragment)
		}
	}

	out := make([]Change, 0, len(changes))
	for _, c := range changes {
		out = append(out, *c)
	}
	return out
}

// Summary provides summary statistics for a run.
type Summary struct {
	Added        map[Kind]int
	Updated      map[Kind]int
	Removed      map[Kind]int
	CatalogNotes int
	TotalChanges int
}

// Summary counts changed entities per kind and action.
func (l *Ledger) Summary() Summary {
	s := Summary{
		Added:   make(map[Kind]int),
		Updated: make(map[Kind]int),
		Removed: make(map[Kind]int),
	}
	for _, c := range l.Changes() {
		if c.Kind == KindCatalog {
			s.CatalogNotes += len(c.Fragments)
			s.TotalChanges += len(c.Fragments)
			continue
		}
		switch c.Action {
		case ActionAdded:
			s.Added[c.Kind]++
		case ActionRemoved:
			s.Removed[c.Kind]++
		default:
			s.Updated[c.Kind]++
		}
		s.TotalChanges++
	}
	return s
}

// String returns a human-readable summary.
func (s Summary) String() string {
	if s.TotalChanges == 0 {
		return "No changes detected"
	}

	var parts []string
	if s.CatalogNotes > 0 {
		parts = append(parts, fmt.Sprintf("Catalog: %d changed", s.CatalogNotes))
	}
	for _, kind := range Kinds[1:] {
		var kindParts []string
		if n := s.Added[kind]; n > 0 {
			kindParts = append(kindParts, fmt.Sprintf("%d added", n))
		}
		if n := s.Updated[kind]; n > 0 {
			kindParts = append(kindParts, fmt.Sprintf("%d updated", n))
		}
		if n := s.Removed[kind]; n > 0 {
			kindParts = append(kindParts, fmt.Sprintf("%d removed", n))
		}
		if len(kindParts) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", kind, strings.Join(kindParts, ", ")))
		}
	}
	return strings.Join(parts, "; ")
}
