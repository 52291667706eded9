package catalogs

import "slices"

// Group is a named set of mods where any one member satisfies a requirement.
type Group struct {
	ID          ID       `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Members     []ID     `json:"members" yaml:"members"`
	ChangeNotes []string `json:"change_notes,omitempty" yaml:"change_notes,omitempty"`
}

// Has reports whether id is a member.
func (g *Group) Has(id ID) bool {
	return slices.Contains(g.Members, id)
}

// IsDegenerate reports whether the group has at most one member.
func (g *Group) IsDegenerate() bool {
	return len(g.Members) <= 1
}

// String returns a short display form, e.g. "[Group 1001] Road tools".
func (g *Group) String() string {
	return "[Group " + g.ID.String() + "] " + g.Name
}
