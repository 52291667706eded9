package reconcile

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/modcatalog/internal/utils/ptr"
	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/changes"
	"github.com/agentstation/modcatalog/pkg/errors"
)

// GetOrAddAuthor returns the author with the profile ID, else the one with
// the URL slug, creating it when neither exists. An existing author only gets
// its display name updated. An author found by URL while a profile ID is
// given moves to that profile ID.
func (e *Engine) GetOrAddAuthor(id uint64, url, name string) (*catalogs.Author, error) {
	if id == 0 && url == "" {
		return nil, &errors.ValidationError{Field: "author", Message: "profile ID or URL required"}
	}

	if a, ok := e.catalog.AuthorByID(id); id != 0 && ok {
		e.renameAuthor(a, name)
		return a, nil
	}
	if a, ok := e.catalog.AuthorByURL(url); url != "" && ok {
		if id != 0 {
			if err := e.migrateAuthor(a, id); err != nil {
				return nil, err
			}
		}
		e.renameAuthor(a, name)
		return a, nil
	}

	a := &catalogs.Author{ID: id, Name: name}
	if id == 0 {
		a.URL = url
	}
	a.ChangeNotes = []string{e.datedNote("added")}
	if err := e.catalog.AddAuthor(a); err != nil {
		return nil, err
	}
	e.ledger.Added(changes.KindAuthor, a.Key(), a.String())
	e.log("add_author").Debug().Str("author", a.Key()).Str("name", name).Msg("Author added")
	return a, nil
}

func (e *Engine) renameAuthor(a *catalogs.Author, name string) {
	if name == "" || name == a.Name {
		return
	}
	a.Name = name
	e.authorChanged(a, "name changed")
}

// migrateAuthor moves a URL-keyed author to a profile ID and re-points its mods.
func (e *Engine) migrateAuthor(a *catalogs.Author, id uint64) error {
	if a.ID == id {
		return nil
	}
	if a.ID != 0 {
		return &errors.ValidationError{Field: "author.ID", Value: id, Message: "profile ID of an existing author cannot change"}
	}

	oldURL := a.URL
	if err := e.catalog.SetAuthorID(a, id); err != nil {
		return err
	}
	for _, m := range e.catalog.Mods {
		if m.AuthorID == 0 && m.AuthorURL == oldURL {
			m.AuthorID = id
			m.AuthorURL = ""
		}
	}
	e.authorChanged(a, "profile ID added")
	e.log("migrate_author").Info().Str("url", oldURL).Uint64("author_id", id).Msg("Author moved from URL to profile ID")
	return nil
}

// AuthorPatch is a partial update of an author. A nil field leaves the value unchanged.
type AuthorPatch struct {
	Name                *string
	ProfileID           *uint64 // Moves a URL-keyed author to a profile ID
	LastSeen            *utc.Time
	Retired             *bool // Manual only
	ExclusionForRetired *bool // Manual only
}

// UpdateAuthor applies a patch and reports whether anything changed.
//
// A new last-seen date recomputes retirement: an inactive author is retired
// unless excluded; an active author is not retired and loses its exclusion.
// A manual Retired=false on an inactive author sets the exclusion, a manual
// Retired=true clears it.
func (e *Engine) UpdateAuthor(a *catalogs.Author, patch AuthorPatch, source catalogs.Source) (bool, error) {
	if a == nil {
		return false, &errors.ValidationError{Field: "author", Message: "cannot be nil"}
	}
	var fragments []string
	changed := false

	if patch.Name != nil && *patch.Name != "" && *patch.Name != a.Name {
		a.Name = *patch.Name
		fragments = append(fragments, "name changed")
		changed = true
	}

	if patch.ProfileID != nil && *patch.ProfileID != 0 && *patch.ProfileID != a.ID {
		if err := e.migrateAuthor(a, *patch.ProfileID); err != nil {
			return false, err
		}
		changed = true
	}

	if !source.IsManual() && (patch.Retired != nil || patch.ExclusionForRetired != nil) {
		e.log("update_author").Debug().Str("author", a.Key()).Msg("Ignoring retirement change from the scraper")
		patch.Retired, patch.ExclusionForRetired = nil, nil
	}

	if ptr.Changes(patch.ExclusionForRetired, a.ExclusionForRetired) {
		a.ExclusionForRetired = *patch.ExclusionForRetired
		fragments = append(fragments, exclusionFragment("retirement", a.ExclusionForRetired))
		changed = true
	}

	if patch.LastSeen != nil && !patch.LastSeen.Time.Equal(a.LastSeen.Time) {
		a.LastSeen = *patch.LastSeen
		changed = true
		if e.inactive(a) {
			if !a.ExclusionForRetired && !a.Retired {
				a.Retired = true
				fragments = append(fragments, "retired")
			} else if a.ExclusionForRetired && a.Retired {
				a.Retired = false
				fragments = append(fragments, "no longer retired")
			}
		} else {
			if a.Retired {
				a.Retired = false
				fragments = append(fragments, "no longer retired")
			}
			if a.ExclusionForRetired {
				a.ExclusionForRetired = false
				fragments = append(fragments, exclusionFragment("retirement", false))
			}
		}
	}

	if patch.Retired != nil {
		retire := *patch.Retired
		switch {
		case !retire && e.inactive(a):
			if !a.ExclusionForRetired {
				a.ExclusionForRetired = true
				fragments = append(fragments, exclusionFragment("retirement", true))
				changed = true
			}
		case retire && a.ExclusionForRetired:
			a.ExclusionForRetired = false
			fragments = append(fragments, exclusionFragment("retirement", false))
			changed = true
		}
		if retire != a.Retired {
			a.Retired = retire
			fragments = append(fragments, retiredFragment(retire))
			changed = true
		}
	}

	e.authorChanged(a, fragments...)
	return changed, nil
}

// RetireEligibleAuthors retires every non-retired author that has been
// inactive beyond the threshold without an exclusion, or that no longer owns
// any non-removed mod. It returns the number of authors retired.
func (e *Engine) RetireEligibleAuthors() int {
	retired := 0
	for _, a := range e.catalog.Authors {
		if a.Retired {
			continue
		}
		switch {
		case !e.ownsActiveMod(a):
			a.Retired = true
			a.ExclusionForRetired = false
			e.authorChanged(a, "no longer has mods", "retired")
		case e.inactive(a) && !a.ExclusionForRetired:
			a.Retired = true
			e.authorChanged(a, "retired")
		default:
			continue
		}
		retired++
		e.log("retire_authors").Debug().Str("author", a.Key()).Msg("Author retired")
	}
	return retired
}

func (e *Engine) ownsActiveMod(a *catalogs.Author) bool {
	for _, m := range e.catalog.Mods {
		if a.Owns(m) && !m.IsRemoved() {
			return true
		}
	}
	return false
}

// inactive reports whether the author's last-seen date precedes the
// retirement window. An unknown last-seen date is never inactive.
func (e *Engine) inactive(a *catalogs.Author) bool {
	if a.LastSeen.IsZero() {
		return false
	}
	cutoff := e.now().Time.AddDate(0, -e.retirementMonths, 0)
	return a.LastSeen.Time.Before(cutoff)
}

func retiredFragment(retired bool) string {
	if retired {
		return "retired"
	}
	return "no longer retired"
}
