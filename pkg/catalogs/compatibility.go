package catalogs

// Compatibility records how two mods relate. Entries are keyed by the
// exact (first, second, status) triple.
type Compatibility struct {
	FirstModID  ID                  `json:"first_mod_id" yaml:"first_mod_id"`
	SecondModID ID                  `json:"second_mod_id" yaml:"second_mod_id"`
	Status      CompatibilityStatus `json:"status" yaml:"status"`
	Note        string              `json:"note,omitempty" yaml:"note,omitempty"`
}

// Matches reports whether the entry has exactly this triple.
func (c *Compatibility) Matches(first, second ID, status CompatibilityStatus) bool {
	return c.FirstModID == first && c.SecondModID == second && c.Status == status
}

// Involves reports whether the mod is either side of the entry.
func (c *Compatibility) Involves(id ID) bool {
	return c.FirstModID == id || c.SecondModID == id
}
