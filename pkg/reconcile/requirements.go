package reconcile

import (
	"slices"

	"github.com/agentstation/modcatalog/pkg/catalogs"
)

// AddRequiredMod adds a mod, group or builtin to the required-items list.
// Requiring a group member also requires its group.
//
// A manual add records manual provenance and lifts any exclusion. A scraper
// add is rejected while a human exclusion is in place.
func (e *Engine) AddRequiredMod(m *catalogs.Mod, id catalogs.ID, source catalogs.Source) bool {
	if m == nil || id == m.ID {
		return false
	}
	if !e.catalog.IsKnown(id) {
		e.noteUnknownAsset(m, id)
		return false
	}

	added := e.addRequirement(m, id, source)
	if g, ok := e.catalog.GroupOf(id); ok && m.Requires(id) && !m.Requires(g.ID) {
		e.addRequirement(m, g.ID, source)
	}
	return added
}

func (e *Engine) addRequirement(m *catalogs.Mod, id catalogs.ID, source catalogs.Source) bool {
	if source.IsManual() {
		m.ExclusionForRequiredMods = without(m.ExclusionForRequiredMods, id)
	} else if slices.Contains(m.ExclusionForRequiredMods, id) {
		e.log("add_required_mod").Debug().
			Uint64("mod_id", uint64(m.ID)).
			Uint64("required_id", uint64(id)).
			Msg("Ignoring scraped requirement a human removed")
		return false
	}

	if m.Requires(id) {
		if source.IsManual() {
			m.ManualRequiredMods = appendUnique(m.ManualRequiredMods, id)
		}
		return false
	}

	m.RequiredMods = append(m.RequiredMods, id)
	if source.IsManual() {
		m.ManualRequiredMods = appendUnique(m.ManualRequiredMods, id)
	}
	e.modChanged(m, "required "+e.catalog.Describe(id)+" added")
	return true
}

// RemoveRequiredMod removes an entry from the required-items list. Removing
// the last listed member of a group also removes the group.
//
// A manual removal of a scraper finding adds an exclusion so the scraper
// cannot re-add it. Every other removal drops the manual provenance and
// clears the exclusion.
func (e *Engine) RemoveRequiredMod(m *catalogs.Mod, id catalogs.ID, source catalogs.Source) bool {
	if m == nil {
		return false
	}
	removed := e.removeRequirement(m, id, source)
	if !removed {
		return false
	}

	if g, ok := e.catalog.GroupOf(id); ok && m.Requires(g.ID) && !e.requiresAnyMember(m, g) {
		e.removeRequirement(m, g.ID, source)
	}
	return true
}

func (e *Engine) removeRequirement(m *catalogs.Mod, id catalogs.ID, source catalogs.Source) bool {
	if !m.Requires(id) {
		return false
	}
	manualOrigin := slices.Contains(m.ManualRequiredMods, id)

	m.RequiredMods = without(m.RequiredMods, id)
	m.ManualRequiredMods = without(m.ManualRequiredMods, id)
	if source.IsManual() && !manualOrigin {
		m.ExclusionForRequiredMods = appendUnique(m.ExclusionForRequiredMods, id)
	} else {
		m.ExclusionForRequiredMods = without(m.ExclusionForRequiredMods, id)
	}
	e.modChanged(m, "required "+e.catalog.Describe(id)+" removed")
	return true
}

func (e *Engine) requiresAnyMember(m *catalogs.Mod, g *catalogs.Group) bool {
	return slices.ContainsFunc(g.Members, m.Requires)
}

// purgeRequirement drops an ID from a mod's requirement, provenance and
// exclusion lists regardless of source.
func (e *Engine) purgeRequirement(m *catalogs.Mod, id catalogs.ID, describe string) {
	if !m.Requires(id) && !slices.Contains(m.ExclusionForRequiredMods, id) {
		return
	}
	wasRequired := m.Requires(id)
	m.RequiredMods = without(m.RequiredMods, id)
	m.ManualRequiredMods = without(m.ManualRequiredMods, id)
	m.ExclusionForRequiredMods = without(m.ExclusionForRequiredMods, id)
	if wasRequired {
		e.modChanged(m, "required "+describe+" removed")
	}
}

// AddRequiredDLC adds a DLC requirement with the same precedence rules as
// AddRequiredMod.
func (e *Engine) AddRequiredDLC(m *catalogs.Mod, dlc catalogs.DLC, source catalogs.Source) bool {
	if m == nil || dlc == 0 {
		return false
	}
	if source.IsManual() {
		m.ExclusionForRequiredDLC = without(m.ExclusionForRequiredDLC, dlc)
	} else if slices.Contains(m.ExclusionForRequiredDLC, dlc) {
		e.log("add_required_dlc").Debug().
			Uint64("mod_id", uint64(m.ID)).
			Str("dlc", dlc.String()).
			Msg("Ignoring scraped DLC requirement a human removed")
		return false
	}

	if m.RequiresDLC(dlc) {
		if source.IsManual() {
			m.ManualRequiredDLC = appendUnique(m.ManualRequiredDLC, dlc)
		}
		return false
	}

	m.RequiredDLC = append(m.RequiredDLC, dlc)
	if source.IsManual() {
		m.ManualRequiredDLC = appendUnique(m.ManualRequiredDLC, dlc)
	}
	e.modChanged(m, "required DLC "+dlc.String()+" added")
	return true
}

// RemoveRequiredDLC removes a DLC requirement with the same precedence rules
// as RemoveRequiredMod.
func (e *Engine) RemoveRequiredDLC(m *catalogs.Mod, dlc catalogs.DLC, source catalogs.Source) bool {
	if m == nil || !m.RequiresDLC(dlc) {
		return false
	}
	manualOrigin := slices.Contains(m.ManualRequiredDLC, dlc)

	m.RequiredDLC = without(m.RequiredDLC, dlc)
	m.ManualRequiredDLC = without(m.ManualRequiredDLC, dlc)
	if source.IsManual() && !manualOrigin {
		m.ExclusionForRequiredDLC = appendUnique(m.ExclusionForRequiredDLC, dlc)
	} else {
		m.ExclusionForRequiredDLC = without(m.ExclusionForRequiredDLC, dlc)
	}
	e.modChanged(m, "required DLC "+dlc.String()+" removed")
	return true
}
