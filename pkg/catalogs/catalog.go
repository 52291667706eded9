// Package catalogs holds the mod catalog entity model: mods, authors, groups,
// compatibilities and the catalog document that owns them, together with the
// lookup indices rebuilt on load and the YAML codec used to persist it.
//
// The catalog is a plain data structure. It is not safe for concurrent use;
// all mutation during an update run goes through pkg/reconcile, which keeps the
// change ledger and the exclusion rules consistent with the data.
//
// Example usage:
//
//	cat, err := catalogs.LoadFile("ModCatalog_v12.yaml")
//	if err != nil {
//	    return err
//	}
//	if mod, ok := cat.Mod(100); ok {
//	    fmt.Println(mod.Name, mod.Stability)
//	}
package catalogs

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/modcatalog/pkg/constants"
	"github.com/agentstation/modcatalog/pkg/errors"
)

// Catalog is one version of the mod catalog.
type Catalog struct {
	Version          uint64   `json:"version" yaml:"version"`
	StructureVersion int      `json:"structure_version" yaml:"structure_version"`
	Updated          utc.Time `json:"updated" yaml:"updated"`

	Note             string `json:"note,omitempty" yaml:"note,omitempty"`
	ReportHeaderText string `json:"report_header_text,omitempty" yaml:"report_header_text,omitempty"`
	ReportFooterText string `json:"report_footer_text,omitempty" yaml:"report_footer_text,omitempty"`

	Mods            []*Mod           `json:"mods" yaml:"mods"`
	Groups          []*Group         `json:"groups,omitempty" yaml:"groups,omitempty"`
	Compatibilities []*Compatibility `json:"compatibilities,omitempty" yaml:"compatibilities,omitempty"`
	Authors         []*Author        `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Derived indices, rebuilt by Reindex.
	mods         map[ID]*Mod
	groups       map[ID]*Group
	memberGroup  map[ID]*Group
	authorsByID  map[uint64]*Author
	authorsByURL map[string]*Author
}

// New creates an empty catalog at the given version.
func New(version uint64) *Catalog {
	cat := &Catalog{
		Version:          version,
		StructureVersion: constants.CurrentStructureVersion,
		Updated:          utc.Now(),
	}
	cat.Reindex()
	return cat
}

// Reindex rebuilds the lookup indices from the collections. Later duplicates
// never shadow earlier entries; Validate reports them.
func (c *Catalog) Reindex() {
	c.mods = make(map[ID]*Mod, len(c.Mods))
	c.groups = make(map[ID]*Group, len(c.Groups))
	c.memberGroup = make(map[ID]*Group)
	c.authorsByID = make(map[uint64]*Author, len(c.Authors))
	c.authorsByURL = make(map[string]*Author)

	for _, m := range c.Mods {
		if _, exists := c.mods[m.ID]; !exists {
			c.mods[m.ID] = m
		}
	}
	for _, g := range c.Groups {
		if _, exists := c.groups[g.ID]; exists {
			continue
		}
		c.groups[g.ID] = g
		for _, member := range g.Members {
			if _, taken := c.memberGroup[member]; !taken {
				c.memberGroup[member] = g
			}
		}
	}
	for _, a := range c.Authors {
		c.indexAuthor(a)
	}
}

// ensureIndex builds the indices for catalogs not created by New or Decode.
func (c *Catalog) ensureIndex() {
	if c.mods == nil {
		c.Reindex()
	}
}

func (c *Catalog) indexAuthor(a *Author) {
	if a.ID != 0 {
		if _, exists := c.authorsByID[a.ID]; !exists {
			c.authorsByID[a.ID] = a
		}
		return
	}
	if a.URL != "" {
		if _, exists := c.authorsByURL[a.URL]; !exists {
			c.authorsByURL[a.URL] = a
		}
	}
}

// Mod returns a mod by ID and whether it exists.
func (c *Catalog) Mod(id ID) (*Mod, bool) {
	m, ok := c.mods[id]
	return m, ok
}

// Group returns a group by ID and whether it exists.
func (c *Catalog) Group(id ID) (*Group, bool) {
	g, ok := c.groups[id]
	return g, ok
}

// GroupOf returns the group the mod is a member of.
func (c *Catalog) GroupOf(modID ID) (*Group, bool) {
	g, ok := c.memberGroup[modID]
	return g, ok
}

// AuthorByID returns an author by profile number.
func (c *Catalog) AuthorByID(id uint64) (*Author, bool) {
	a, ok := c.authorsByID[id]
	return a, ok
}

// AuthorByURL returns an author by custom URL slug.
func (c *Catalog) AuthorByURL(url string) (*Author, bool) {
	a, ok := c.authorsByURL[url]
	return a, ok
}

// AuthorOf returns the author a mod references.
func (c *Catalog) AuthorOf(m *Mod) (*Author, bool) {
	if m.AuthorID != 0 {
		return c.AuthorByID(m.AuthorID)
	}
	if m.AuthorURL != "" {
		return c.AuthorByURL(m.AuthorURL)
	}
	return nil, false
}

// Builtin returns the builtin entry with the given ID.
func (c *Catalog) Builtin(id ID) (Builtin, bool) {
	b, ok := BuiltinMods[id]
	return b, ok
}

// IsKnown reports whether id resolves to a mod, a group or a builtin entry.
func (c *Catalog) IsKnown(id ID) bool {
	if _, ok := c.mods[id]; ok {
		return true
	}
	if _, ok := c.groups[id]; ok {
		return true
	}
	_, ok := BuiltinMods[id]
	return ok
}

// Describe returns a display form for any required-items ID.
func (c *Catalog) Describe(id ID) string {
	if _, ok := c.groups[id]; ok {
		return "Group " + id.String()
	}
	if b, ok := BuiltinMods[id]; ok {
		return "builtin " + b.Name
	}
	return "Mod " + id.String()
}

// AddMod inserts a mod. The ID must be unused.
func (c *Catalog) AddMod(m *Mod) error {
	c.ensureIndex()
	if m == nil {
		return &errors.ValidationError{Field: "mod", Message: "cannot be nil"}
	}
	if c.IsKnown(m.ID) {
		return &errors.ValidationError{Field: "mod.ID", Value: m.ID, Message: "already exists"}
	}
	c.Mods = append(c.Mods, m)
	c.mods[m.ID] = m
	return nil
}

// AddAuthor inserts an author. Exactly one of ID and URL must be set and unused.
func (c *Catalog) AddAuthor(a *Author) error {
	c.ensureIndex()
	if a == nil {
		return &errors.ValidationError{Field: "author", Message: "cannot be nil"}
	}
	if (a.ID == 0) == (a.URL == "") {
		return &errors.ValidationError{Field: "author", Value: a.Key(), Message: "exactly one of ID and URL must be set"}
	}
	if _, exists := c.authorsByID[a.ID]; a.ID != 0 && exists {
		return &errors.ValidationError{Field: "author.ID", Value: a.ID, Message: "already exists"}
	}
	if _, exists := c.authorsByURL[a.URL]; a.URL != "" && exists {
		return &errors.ValidationError{Field: "author.URL", Value: a.URL, Message: "already exists"}
	}
	c.Authors = append(c.Authors, a)
	c.indexAuthor(a)
	return nil
}

// SetAuthorID moves a URL-keyed author to a profile number.
func (c *Catalog) SetAuthorID(a *Author, id uint64) error {
	c.ensureIndex()
	if id == 0 {
		return &errors.ValidationError{Field: "author.ID", Value: id, Message: "cannot be zero"}
	}
	if other, exists := c.authorsByID[id]; exists && other != a {
		return &errors.ValidationError{Field: "author.ID", Value: id, Message: "already exists"}
	}
	delete(c.authorsByURL, a.URL)
	delete(c.authorsByID, a.ID)
	a.ID = id
	a.URL = ""
	c.indexAuthor(a)
	return nil
}

// AddGroup inserts a group. The ID must be unused and every member must be free.
func (c *Catalog) AddGroup(g *Group) error {
	c.ensureIndex()
	if g == nil {
		return &errors.ValidationError{Field: "group", Message: "cannot be nil"}
	}
	if c.IsKnown(g.ID) {
		return &errors.ValidationError{Field: "group.ID", Value: g.ID, Message: "already exists"}
	}
	for _, member := range g.Members {
		if other, taken := c.memberGroup[member]; taken {
			return &errors.ValidationError{Field: "group.Members", Value: member, Message: "already a member of group " + other.ID.String()}
		}
	}
	c.Groups = append(c.Groups, g)
	c.groups[g.ID] = g
	for _, member := range g.Members {
		c.memberGroup[member] = g
	}
	return nil
}

// RemoveGroup deletes a group and its membership index entries.
func (c *Catalog) RemoveGroup(id ID) bool {
	g, ok := c.groups[id]
	if !ok {
		return false
	}
	for _, member := range g.Members {
		if c.memberGroup[member] == g {
			delete(c.memberGroup, member)
		}
	}
	delete(c.groups, id)
	c.Groups = removeFirst(c.Groups, func(x *Group) bool { return x == g })
	return true
}

// AddGroupMember appends a mod to a group. It fails when the mod is already
// a member of any group.
func (c *Catalog) AddGroupMember(g *Group, modID ID) bool {
	c.ensureIndex()
	if _, taken := c.memberGroup[modID]; taken {
		return false
	}
	g.Members = append(g.Members, modID)
	c.memberGroup[modID] = g
	return true
}

// RemoveGroupMember removes a mod from a group.
func (c *Catalog) RemoveGroupMember(g *Group, modID ID) bool {
	if !g.Has(modID) {
		return false
	}
	g.Members = removeFirst(g.Members, func(x ID) bool { return x == modID })
	if c.memberGroup[modID] == g {
		delete(c.memberGroup, modID)
	}
	return true
}

// NextGroupID returns the lowest free ID in the group range.
func (c *Catalog) NextGroupID() (ID, error) {
	for id := ID(constants.LowestGroupID); id <= constants.HighestGroupID; id++ {
		if !c.IsKnown(id) {
			return id, nil
		}
	}
	return 0, &errors.ResourceError{Operation: "allocate", Resource: "group", Message: "group ID range exhausted"}
}

// Compatibility returns the entry with the exact triple.
func (c *Catalog) Compatibility(first, second ID, status CompatibilityStatus) (*Compatibility, bool) {
	for _, compat := range c.Compatibilities {
		if compat.Matches(first, second, status) {
			return compat, true
		}
	}
	return nil, false
}

// AddCompatibility inserts a compatibility. The triple must be unused.
func (c *Catalog) AddCompatibility(compat *Compatibility) error {
	if compat == nil {
		return &errors.ValidationError{Field: "compatibility", Message: "cannot be nil"}
	}
	if _, exists := c.Compatibility(compat.FirstModID, compat.SecondModID, compat.Status); exists {
		return &errors.ValidationError{Field: "compatibility", Value: compat.Status, Message: "already exists"}
	}
	c.Compatibilities = append(c.Compatibilities, compat)
	return nil
}

// RemoveCompatibility deletes the entry with the exact triple.
func (c *Catalog) RemoveCompatibility(first, second ID, status CompatibilityStatus) bool {
	before := len(c.Compatibilities)
	c.Compatibilities = removeFirst(c.Compatibilities, func(x *Compatibility) bool {
		return x.Matches(first, second, status)
	})
	return len(c.Compatibilities) != before
}

// Stats summarizes the catalog contents.
type Stats struct {
	Mods            int
	RemovedMods     int
	Groups          int
	Compatibilities int
	Authors         int
	RetiredAuthors  int
}

// Stats counts the entities in the catalog.
func (c *Catalog) Stats() Stats {
	s := Stats{
		Mods:            len(c.Mods),
		Groups:          len(c.Groups),
		Compatibilities: len(c.Compatibilities),
		Authors:         len(c.Authors),
	}
	for _, m := range c.Mods {
		if m.IsRemoved() {
			s.RemovedMods++
		}
	}
	for _, a := range c.Authors {
		if a.Retired {
			s.RetiredAuthors++
		}
	}
	return s
}

func removeFirst[T any](list []T, match func(T) bool) []T {
	for i, x := range list {
		if match(x) {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
