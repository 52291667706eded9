package reconcile

import (
	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/changes"
	"github.com/agentstation/modcatalog/pkg/errors"
)

// AddGroup creates a group with the next free group ID. Every member must be
// a known mod outside any other group. Mods that already require a member
// gain the group as a requirement.
func (e *Engine) AddGroup(name string, members []catalogs.ID, source catalogs.Source) (*catalogs.Group, error) {
	if name == "" {
		return nil, &errors.ValidationError{Field: "group.Name", Message: "cannot be empty"}
	}
	var unique []catalogs.ID
	for _, id := range members {
		if _, ok := e.catalog.Mod(id); !ok {
			return nil, &errors.ValidationError{Field: "group.Members", Value: id, Message: "not a known mod"}
		}
		if other, taken := e.catalog.GroupOf(id); taken {
			return nil, &errors.ValidationError{Field: "group.Members", Value: id, Message: "already a member of group " + other.ID.String()}
		}
		unique = appendUnique(unique, id)
	}

	id, err := e.catalog.NextGroupID()
	if err != nil {
		return nil, err
	}
	g := &catalogs.Group{
		ID:          id,
		Name:        name,
		Members:     unique,
		ChangeNotes: []string{e.datedNote("added")},
	}
	if err := e.catalog.AddGroup(g); err != nil {
		return nil, err
	}
	e.ledger.Added(changes.KindGroup, g.ID.String(), g.String())

	for _, member := range g.Members {
		m, _ := e.catalog.Mod(member)
		e.modChanged(m, "added to "+e.catalog.Describe(g.ID))
		e.requireGroupForMember(member, g, source)
	}
	e.log("add_group").Debug().Uint64("group_id", uint64(g.ID)).Str("name", name).Int("members", len(g.Members)).Msg("Group added")
	return g, nil
}

// RemoveGroup deletes a group and purges it from every requirement list.
func (e *Engine) RemoveGroup(g *catalogs.Group) bool {
	if g == nil {
		return false
	}
	if _, ok := e.catalog.Group(g.ID); !ok {
		return false
	}
	describe := e.catalog.Describe(g.ID)

	for _, m := range e.catalog.Mods {
		e.purgeRequirement(m, g.ID, describe)
	}
	for _, member := range g.Members {
		if m, ok := e.catalog.Mod(member); ok {
			e.modChanged(m, "removed from "+describe)
		}
	}

	e.catalog.RemoveGroup(g.ID)
	e.ledger.Removed(changes.KindGroup, g.ID.String(), g.String(), "removed")
	e.log("remove_group").Debug().Uint64("group_id", uint64(g.ID)).Msg("Group removed")
	return true
}

// AddGroupMember adds a mod to a group. Mods that require the new member
// gain the group as a requirement.
func (e *Engine) AddGroupMember(g *catalogs.Group, modID catalogs.ID, source catalogs.Source) bool {
	if g == nil {
		return false
	}
	m, ok := e.catalog.Mod(modID)
	if !ok {
		e.log("add_group_member").Debug().Uint64("group_id", uint64(g.ID)).Uint64("mod_id", uint64(modID)).Msg("Ignoring unknown group member")
		return false
	}
	if !e.catalog.AddGroupMember(g, modID) {
		e.log("add_group_member").Debug().Uint64("group_id", uint64(g.ID)).Uint64("mod_id", uint64(modID)).Msg("Mod is already a group member")
		return false
	}

	e.groupChanged(g, "Mod "+modID.String()+" added")
	e.modChanged(m, "added to "+e.catalog.Describe(g.ID))
	e.requireGroupForMember(modID, g, source)
	return true
}

// RemoveGroupMember removes a mod from a group. Mods that required the group
// only through that member lose the group.
func (e *Engine) RemoveGroupMember(g *catalogs.Group, modID catalogs.ID, source catalogs.Source) bool {
	if g == nil || !e.catalog.RemoveGroupMember(g, modID) {
		return false
	}

	e.groupChanged(g, "Mod "+modID.String()+" removed")
	if m, ok := e.catalog.Mod(modID); ok {
		e.modChanged(m, "removed from "+e.catalog.Describe(g.ID))
	}
	for _, m := range e.catalog.Mods {
		if m.Requires(modID) && m.Requires(g.ID) && !e.requiresAnyMember(m, g) {
			e.removeRequirement(m, g.ID, source)
		}
	}
	if g.IsDegenerate() {
		e.log("remove_group_member").Info().Uint64("group_id", uint64(g.ID)).Int("members", len(g.Members)).Msg("Group has at most one member")
	}
	return true
}

func (e *Engine) requireGroupForMember(member catalogs.ID, g *catalogs.Group, source catalogs.Source) {
	for _, m := range e.catalog.Mods {
		if m.Requires(member) && !m.Requires(g.ID) {
			e.addRequirement(m, g.ID, source)
		}
	}
}
