package reconcile

import (
	"fmt"

	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/changes"
	"github.com/agentstation/modcatalog/pkg/errors"
)

// AddCompatibility records a compatibility between two mods. An existing
// entry with the same triple only gets its note updated.
func (e *Engine) AddCompatibility(first, second catalogs.ID, status catalogs.CompatibilityStatus, note string) (bool, error) {
	if first == second {
		return false, &errors.ValidationError{Field: "compatibility", Value: first, Message: "mod cannot be paired with itself"}
	}
	if !status.IsValid() {
		return false, &errors.ValidationError{Field: "compatibility.Status", Value: status, Message: "unknown compatibility status"}
	}
	firstMod, ok := e.catalog.Mod(first)
	if !ok {
		return false, &errors.ValidationError{Field: "compatibility.FirstModID", Value: first, Message: "not a known mod"}
	}
	secondMod, ok := e.catalog.Mod(second)
	if !ok {
		return false, &errors.ValidationError{Field: "compatibility.SecondModID", Value: second, Message: "not a known mod"}
	}

	if existing, ok := e.catalog.Compatibility(first, second, status); ok {
		if existing.Note == note {
			return false, nil
		}
		existing.Note = note
		e.ledger.Updated(changes.KindCompatibility, compatibilityKey(existing), compatibilityDisplay(existing), "note changed")
		return true, nil
	}

	compat := &catalogs.Compatibility{FirstModID: first, SecondModID: second, Status: status, Note: note}
	if err := e.catalog.AddCompatibility(compat); err != nil {
		return false, err
	}
	e.ledger.Added(changes.KindCompatibility, compatibilityKey(compat), compatibilityDisplay(compat))
	e.modChanged(firstMod, fmt.Sprintf("compatibility %s with Mod %d added", status, second))
	e.modChanged(secondMod, fmt.Sprintf("compatibility %s with Mod %d added", status, first))
	return true, nil
}

// RemoveCompatibility deletes the entry with the exact triple. It returns
// false when no such entry exists.
func (e *Engine) RemoveCompatibility(first, second catalogs.ID, status catalogs.CompatibilityStatus) bool {
	compat, ok := e.catalog.Compatibility(first, second, status)
	if !ok {
		e.log("remove_compatibility").Debug().
			Uint64("first_mod_id", uint64(first)).
			Uint64("second_mod_id", uint64(second)).
			Str("status", status.String()).
			Msg("No compatibility to remove")
		return false
	}
	e.catalog.RemoveCompatibility(first, second, status)
	e.ledger.Removed(changes.KindCompatibility, compatibilityKey(compat), compatibilityDisplay(compat), "removed")
	if m, ok := e.catalog.Mod(first); ok {
		e.modChanged(m, fmt.Sprintf("compatibility %s with Mod %d removed", status, second))
	}
	if m, ok := e.catalog.Mod(second); ok {
		e.modChanged(m, fmt.Sprintf("compatibility %s with Mod %d removed", status, first))
	}
	return true
}

func compatibilityKey(c *catalogs.Compatibility) string {
	return fmt.Sprintf("%d/%d/%s", c.FirstModID, c.SecondModID, c.Status)
}

func compatibilityDisplay(c *catalogs.Compatibility) string {
	return fmt.Sprintf("[Mod %d] and [Mod %d]: %s", c.FirstModID, c.SecondModID, c.Status)
}
