package reconcile

import (
	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/changes"
)

// AddStatus adds a status and removes every status it conflicts with.
// Adding a present status is a no-op.
func (e *Engine) AddStatus(m *catalogs.Mod, status catalogs.Status, source catalogs.Source) bool {
	if m == nil || !status.IsValid() {
		return false
	}
	if m.HasStatus(status) {
		return false
	}
	if status == catalogs.StatusNoDescription && !e.allowNoDescriptionChange(m, source) {
		return false
	}

	for _, conflict := range status.Conflicts() {
		if m.HasStatus(conflict) {
			m.Statuses = without(m.Statuses, conflict)
			e.modChanged(m, conflict.String()+" removed")
		}
	}

	m.Statuses = append(m.Statuses, status)
	fragment := status.String() + " added"

	switch status {
	case catalogs.StatusRemoved:
		m.ExclusionForNoDescription = catalogs.ExclusionNone
		e.ledger.Removed(changes.KindMod, m.ID.String(), m.String(), fragment)
	case catalogs.StatusSourceUnavailable:
		e.modChanged(m, fragment)
		if m.SourceURL != "" {
			m.SourceURL = ""
			e.modChanged(m, "source URL removed")
		}
		m.ExclusionForSourceURL = true
	default:
		e.modChanged(m, fragment)
	}
	return true
}

// RemoveStatus removes a status. Removing an absent status is a no-op.
func (e *Engine) RemoveStatus(m *catalogs.Mod, status catalogs.Status, source catalogs.Source) bool {
	if m == nil || !m.HasStatus(status) {
		return false
	}
	if status == catalogs.StatusNoDescription && !e.allowNoDescriptionChange(m, source) {
		return false
	}

	m.Statuses = without(m.Statuses, status)
	e.modChanged(m, status.String()+" removed")
	return true
}

// allowNoDescriptionChange applies the three-state exclusion of the
// NoDescription status. Every manual change toggles the exclusion. A scraper
// change is rejected while excluded and resolves a pending exclusion.
func (e *Engine) allowNoDescriptionChange(m *catalogs.Mod, source catalogs.Source) bool {
	if source.IsManual() {
		m.ExclusionForNoDescription = m.ExclusionForNoDescription.Toggle()
		return true
	}
	switch m.ExclusionForNoDescription {
	case catalogs.ExclusionExcluded:
		e.log("update_status").Debug().Uint64("mod_id", uint64(m.ID)).Msg("Ignoring scraped description status a human decided")
		return false
	case catalogs.ExclusionPending:
		m.ExclusionForNoDescription = catalogs.ExclusionNone
	}
	return true
}
