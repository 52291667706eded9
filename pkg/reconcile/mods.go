package reconcile

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/modcatalog/internal/utils/ptr"
	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/changes"
	"github.com/agentstation/modcatalog/pkg/errors"
)

// ModFlag is a property applied only when a mod is created.
type ModFlag int

// ModFlag constants.
const (
	FlagIncompatible ModFlag = iota + 1 // Stability starts as Incompatible
	FlagUnlisted                        // Starts with the Unlisted status
	FlagRemoved                         // Starts with the Removed status
)

// GetOrAddMod returns the mod with the ID, creating it when absent. Flags
// only apply at creation.
func (e *Engine) GetOrAddMod(id catalogs.ID, name string, flags ...ModFlag) (*catalogs.Mod, error) {
	if id == 0 || id.IsBuiltin() || id.IsGroupRange() {
		e.log("add_mod").Warn().Uint64("mod_id", uint64(id)).Msg("Skipping mod with an identifier outside the mod range")
		return nil, &errors.ValidationError{Field: "mod.ID", Value: id, Message: "outside the mod range"}
	}
	if m, ok := e.catalog.Mod(id); ok {
		return m, nil
	}

	m := &catalogs.Mod{
		ID:        id,
		Name:      name,
		Stability: catalogs.StabilityNotReviewed,
	}
	for _, flag := range flags {
		switch flag {
		case FlagIncompatible:
			m.Stability = catalogs.StabilityIncompatible
		case FlagUnlisted:
			if !m.HasStatus(catalogs.StatusRemoved) {
				m.Statuses = []catalogs.Status{catalogs.StatusUnlisted}
			}
		case FlagRemoved:
			m.Statuses = []catalogs.Status{catalogs.StatusRemoved}
		}
	}
	m.ChangeNotes = []string{e.datedNote("added")}

	if err := e.catalog.AddMod(m); err != nil {
		return nil, err
	}
	e.ledger.Added(changes.KindMod, m.ID.String(), m.String())
	e.log("add_mod").Debug().Uint64("mod_id", uint64(id)).Str("name", name).Msg("Mod added")
	return m, nil
}

// ModPatch is a partial update of a mod. A nil field leaves the value
// unchanged; a non-nil empty value clears it.
type ModPatch struct {
	Name                  *string
	Published             *utc.Time
	Updated               *utc.Time
	AuthorID              *uint64
	AuthorURL             *string
	SourceURL             *string
	CompatibleGameVersion *string
	Stability             *catalogs.Stability
	StabilityNote         *string
	Note                  *string

	// Explicit exclusion changes.
	ExclusionForSourceURL   *bool
	ExclusionForGameVersion *bool

	// MarkReviewed advances the review date even when nothing changed.
	MarkReviewed bool
}

func (p ModPatch) validate() error {
	if p.Name != nil && *p.Name == "" {
		return &errors.ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if p.Stability != nil && !p.Stability.IsValid() {
		return &errors.ValidationError{Field: "stability", Value: *p.Stability, Message: "unknown stability"}
	}
	if p.AuthorID != nil && p.AuthorURL != nil && *p.AuthorID != 0 && *p.AuthorURL != "" {
		return &errors.ValidationError{Field: "author", Message: "exactly one of author ID and author URL may be set"}
	}
	return nil
}

// UpdateMod applies a patch and reports whether any field changed. Manual
// updates advance the review date, scraper updates the automatic review date.
func (e *Engine) UpdateMod(m *catalogs.Mod, patch ModPatch, source catalogs.Source) (bool, error) {
	if m == nil {
		return false, &errors.ValidationError{Field: "mod", Message: "cannot be nil"}
	}
	if err := patch.validate(); err != nil {
		return false, err
	}

	var fragments []string
	changed := false
	note := func(fragment string) {
		changed = true
		fragments = append(fragments, fragment)
	}

	if ptr.Changes(patch.Name, m.Name) {
		m.Name = *patch.Name
		note("name changed")
	}

	if patch.Published != nil && !patch.Published.Time.Equal(m.Published.Time) {
		m.Published = *patch.Published
		note("published date changed")
	}
	updateNoted := false
	if patch.Updated != nil && !patch.Updated.Time.Equal(m.Updated.Time) {
		previous := m.Updated
		m.Updated = *patch.Updated
		if m.Updated.Time.After(previous.Time) {
			note("new update")
		} else {
			note("update date changed")
		}
		updateNoted = true
	}
	if !m.Published.IsZero() && m.Updated.Time.Before(m.Published.Time) {
		m.Updated = m.Published
		if !updateNoted {
			note("update date changed")
		}
	}

	// A zero author ID clears the ID so a URL author can take its place.
	authorChanged := false
	if patch.AuthorID != nil && *patch.AuthorID != m.AuthorID {
		m.AuthorID = *patch.AuthorID
		if m.AuthorID != 0 {
			m.AuthorURL = ""
		}
		authorChanged = true
	}
	if patch.AuthorURL != nil && m.AuthorID == 0 && ptr.Changes(patch.AuthorURL, m.AuthorURL) {
		m.AuthorURL = *patch.AuthorURL
		authorChanged = true
	}
	if authorChanged {
		note("author changed")
	}

	if ptr.Changes(patch.ExclusionForSourceURL, m.ExclusionForSourceURL) {
		m.ExclusionForSourceURL = *patch.ExclusionForSourceURL
		note(exclusionFragment("source URL", m.ExclusionForSourceURL))
	}
	if ptr.Changes(patch.SourceURL, m.SourceURL) {
		if source == catalogs.SourceScraper && m.ExclusionForSourceURL {
			e.log("update_mod").Debug().Uint64("mod_id", uint64(m.ID)).Msg("Ignoring scraped source URL for a mod with a source URL exclusion")
		} else {
			note(valueFragment("source URL", m.SourceURL, *patch.SourceURL))
			m.SourceURL = *patch.SourceURL
			if source.IsManual() {
				m.ExclusionForSourceURL = true
			}
		}
	}

	if ptr.Changes(patch.ExclusionForGameVersion, m.ExclusionForGameVersion) {
		m.ExclusionForGameVersion = *patch.ExclusionForGameVersion
		note(exclusionFragment("game version", m.ExclusionForGameVersion))
	}
	if ptr.Changes(patch.CompatibleGameVersion, m.CompatibleGameVersion) {
		if source == catalogs.SourceScraper && m.ExclusionForGameVersion {
			e.log("update_mod").Debug().Uint64("mod_id", uint64(m.ID)).Msg("Ignoring scraped game version for a mod with a game version exclusion")
		} else {
			m.CompatibleGameVersion = *patch.CompatibleGameVersion
			note("game version compatibility changed")
			if source.IsManual() {
				m.ExclusionForGameVersion = true
			}
		}
	}

	if ptr.Changes(patch.Stability, m.Stability) {
		m.Stability = *patch.Stability
		note("stability changed to " + m.Stability.String())
	}
	if ptr.Changes(patch.StabilityNote, m.StabilityNote) {
		note(valueFragment("stability note", m.StabilityNote, *patch.StabilityNote))
		m.StabilityNote = *patch.StabilityNote
	}
	if ptr.Changes(patch.Note, m.Note) {
		note(valueFragment("note", m.Note, *patch.Note))
		m.Note = *patch.Note
	}

	if changed || patch.MarkReviewed {
		if source.IsManual() {
			m.ReviewDate = e.now()
		} else {
			m.AutoReviewDate = e.now()
		}
	}
	e.modChanged(m, fragments...)

	if patch.Updated != nil {
		e.advanceAuthorLastSeen(m, source)
	}
	return changed, nil
}

// advanceAuthorLastSeen moves the author's last-seen date up to the mod's update date.
func (e *Engine) advanceAuthorLastSeen(m *catalogs.Mod, source catalogs.Source) {
	author, ok := e.catalog.AuthorOf(m)
	if !ok || !m.Updated.Time.After(author.LastSeen.Time) {
		return
	}
	updated := m.Updated
	if _, err := e.UpdateAuthor(author, AuthorPatch{LastSeen: &updated}, source); err != nil {
		e.log("update_mod").Warn().Err(err).Str("author", author.Key()).Msg("Failed to advance author last-seen date")
	}
}

func valueFragment(field, old, current string) string {
	switch {
	case old == "":
		return field + " added"
	case current == "":
		return field + " removed"
	default:
		return field + " changed"
	}
}

func exclusionFragment(field string, set bool) string {
	if set {
		return "exclusion for " + field + " added"
	}
	return "exclusion for " + field + " removed"
}
