package reconcile

import (
	"slices"

	"github.com/agentstation/modcatalog/pkg/catalogs"
)

// AddSuccessor records that another mod replaces this one.
func (e *Engine) AddSuccessor(m *catalogs.Mod, id catalogs.ID) bool {
	return e.addRelation(m, successorsOf, id, "successor")
}

// RemoveSuccessor removes a successor.
func (e *Engine) RemoveSuccessor(m *catalogs.Mod, id catalogs.ID) bool {
	return e.removeRelation(m, successorsOf, id, "successor")
}

// AddAlternative records a mod with similar functionality.
func (e *Engine) AddAlternative(m *catalogs.Mod, id catalogs.ID) bool {
	return e.addRelation(m, alternativesOf, id, "alternative")
}

// RemoveAlternative removes an alternative.
func (e *Engine) RemoveAlternative(m *catalogs.Mod, id catalogs.ID) bool {
	return e.removeRelation(m, alternativesOf, id, "alternative")
}

// AddRecommendation records a mod that works well with this one.
func (e *Engine) AddRecommendation(m *catalogs.Mod, id catalogs.ID) bool {
	return e.addRelation(m, recommendationsOf, id, "recommendation")
}

// RemoveRecommendation removes a recommendation.
func (e *Engine) RemoveRecommendation(m *catalogs.Mod, id catalogs.ID) bool {
	return e.removeRelation(m, recommendationsOf, id, "recommendation")
}

// relationField selects one relation list of a mod. It is only called on a
// non-nil mod.
type relationField func(*catalogs.Mod) *[]catalogs.ID

func successorsOf(m *catalogs.Mod) *[]catalogs.ID      { return &m.Successors }
func alternativesOf(m *catalogs.Mod) *[]catalogs.ID    { return &m.Alternatives }
func recommendationsOf(m *catalogs.Mod) *[]catalogs.ID { return &m.Recommendations }

func (e *Engine) addRelation(m *catalogs.Mod, field relationField, id catalogs.ID, label string) bool {
	if m == nil || id == m.ID {
		return false
	}
	list := field(m)
	if _, ok := e.catalog.Mod(id); !ok {
		e.log("add_"+label).Debug().
			Uint64("mod_id", uint64(m.ID)).
			Uint64("related_id", uint64(id)).
			Str("relation", label).
			Msg("Ignoring relation to an unknown mod")
		return false
	}
	if slices.Contains(*list, id) {
		return false
	}
	*list = append(*list, id)
	e.modChanged(m, label+" Mod "+id.String()+" added")
	return true
}

func (e *Engine) removeRelation(m *catalogs.Mod, field relationField, id catalogs.ID, label string) bool {
	if m == nil {
		return false
	}
	list := field(m)
	before := len(*list)
	*list = without(*list, id)
	if len(*list) == before {
		return false
	}
	e.modChanged(m, label+" Mod "+id.String()+" removed")
	return true
}
