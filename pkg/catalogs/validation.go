package catalogs

import (
	"fmt"
	"slices"
)

// Severity grades a validation issue.
type Severity string

// Severity constants.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one problem found by Validate.
type Issue struct {
	Severity Severity
	Entity   string // "mod", "author", "group", "compatibility"
	ID       string
	Message  string
}

// String returns a one-line form of the issue.
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s %s: %s", i.Severity, i.Entity, i.ID, i.Message)
}

// Validate checks the catalog invariants. Degenerate groups are reported as
// warnings; everything else is an error.
func (c *Catalog) Validate() []Issue {
	var issues []Issue
	add := func(sev Severity, entity, id, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Entity: entity, ID: id, Message: fmt.Sprintf(format, args...)})
	}

	seen := make(map[ID]string)
	for _, m := range c.Mods {
		id := m.ID.String()
		if m.ID == 0 || m.ID.IsBuiltin() || m.ID.IsGroupRange() {
			add(SeverityError, "mod", id, "identifier outside the mod range")
		}
		if _, dup := seen[m.ID]; dup {
			add(SeverityError, "mod", id, "duplicate identifier")
		}
		seen[m.ID] = "mod"
		if m.HasStatus(StatusRemoved) && m.HasStatus(StatusUnlisted) {
			add(SeverityError, "mod", id, "both Removed and Unlisted")
		}
		if m.AuthorID != 0 && m.AuthorURL != "" {
			add(SeverityError, "mod", id, "both author ID and author URL set")
		}
		for _, s := range m.Statuses {
			if !s.IsValid() {
				add(SeverityError, "mod", id, "unknown status %q", s)
			}
		}
		for _, r := range m.ManualRequiredMods {
			if !m.Requires(r) {
				add(SeverityError, "mod", id, "manual provenance for absent requirement %d", r)
			}
		}
		for _, r := range m.ManualRequiredDLC {
			if !m.RequiresDLC(r) {
				add(SeverityError, "mod", id, "manual provenance for absent DLC %s", r)
			}
		}
		for _, r := range m.ExclusionForRequiredMods {
			if m.Requires(r) {
				add(SeverityError, "mod", id, "excluded requirement %d is present", r)
			}
		}
		for _, r := range m.ExclusionForRequiredDLC {
			if m.RequiresDLC(r) {
				add(SeverityError, "mod", id, "excluded DLC %s is present", r)
			}
		}
	}

	for _, m := range c.Mods {
		for _, r := range m.RequiredMods {
			if !c.IsKnown(r) {
				add(SeverityError, "mod", m.ID.String(), "requires unknown item %d", r)
			}
		}
	}

	memberOf := make(map[ID]ID)
	for _, g := range c.Groups {
		id := g.ID.String()
		if !g.ID.IsGroupRange() {
			add(SeverityError, "group", id, "identifier outside the group range")
		}
		if kind, dup := seen[g.ID]; dup {
			add(SeverityError, "group", id, "identifier already used by a %s", kind)
		}
		seen[g.ID] = "group"
		if g.IsDegenerate() {
			add(SeverityWarning, "group", id, "has %d member(s)", len(g.Members))
		}
		for _, member := range g.Members {
			if other, taken := memberOf[member]; taken {
				add(SeverityError, "group", id, "mod %d is also a member of group %d", member, other)
				continue
			}
			memberOf[member] = g.ID
			if _, ok := c.Mod(member); !ok {
				add(SeverityError, "group", id, "member %d is not a known mod", member)
			}
		}
	}

	type triple struct {
		first, second ID
		status        CompatibilityStatus
	}
	compats := make(map[triple]bool)
	for _, compat := range c.Compatibilities {
		id := fmt.Sprintf("%d/%d", compat.FirstModID, compat.SecondModID)
		if compat.FirstModID == compat.SecondModID {
			add(SeverityError, "compatibility", id, "mod paired with itself")
		}
		if !compat.Status.IsValid() {
			add(SeverityError, "compatibility", id, "unknown status %q", compat.Status)
		}
		key := triple{compat.FirstModID, compat.SecondModID, compat.Status}
		if compats[key] {
			add(SeverityError, "compatibility", id, "duplicate %s entry", compat.Status)
		}
		compats[key] = true
	}

	var authorKeys []string
	for _, a := range c.Authors {
		if (a.ID == 0) == (a.URL == "") {
			add(SeverityError, "author", a.Key(), "exactly one of ID and URL must be set")
		}
		if slices.Contains(authorKeys, a.Key()) {
			add(SeverityError, "author", a.Key(), "duplicate author")
		}
		authorKeys = append(authorKeys, a.Key())
	}

	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	return slices.ContainsFunc(issues, func(i Issue) bool { return i.Severity == SeverityError })
}
