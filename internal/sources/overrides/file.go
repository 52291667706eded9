package overrides

// File is one override document. YAML and TOML documents share the schema.
type File struct {
	Catalog         *CatalogTexts           `yaml:"catalog,omitempty" toml:"catalog,omitempty"`
	Mods            []ModOverride           `yaml:"mods,omitempty" toml:"mods,omitempty"`
	Authors         []AuthorOverride        `yaml:"authors,omitempty" toml:"authors,omitempty"`
	Groups          []GroupOverride         `yaml:"groups,omitempty" toml:"groups,omitempty"`
	Compatibilities []CompatibilityOverride `yaml:"compatibilities,omitempty" toml:"compatibilities,omitempty"`
}

// CatalogTexts replaces catalog-level texts. A nil field is left alone and
// an empty string clears the text.
type CatalogTexts struct {
	Note         *string `yaml:"note,omitempty" toml:"note,omitempty"`
	ReportHeader *string `yaml:"report_header,omitempty" toml:"report_header,omitempty"`
	ReportFooter *string `yaml:"report_footer,omitempty" toml:"report_footer,omitempty"`
}

// ModOverride is a manual change to one mod. Unknown mods are created
// (as unlisted) only when a name is given.
type ModOverride struct {
	ID   uint64  `yaml:"id" toml:"id"`
	Name *string `yaml:"name,omitempty" toml:"name,omitempty"`

	AuthorID    *uint64 `yaml:"author_id,omitempty" toml:"author_id,omitempty"`
	AuthorURL   *string `yaml:"author_url,omitempty" toml:"author_url,omitempty"`
	SourceURL   *string `yaml:"source_url,omitempty" toml:"source_url,omitempty"`
	GameVersion *string `yaml:"game_version,omitempty" toml:"game_version,omitempty"`

	Stability     *string `yaml:"stability,omitempty" toml:"stability,omitempty"`
	StabilityNote *string `yaml:"stability_note,omitempty" toml:"stability_note,omitempty"`
	Note          *string `yaml:"note,omitempty" toml:"note,omitempty"`

	AddStatuses    []string `yaml:"add_statuses,omitempty" toml:"add_statuses,omitempty"`
	RemoveStatuses []string `yaml:"remove_statuses,omitempty" toml:"remove_statuses,omitempty"`

	AddRequiredDLC    []string `yaml:"add_required_dlc,omitempty" toml:"add_required_dlc,omitempty"` // app ID or name
	RemoveRequiredDLC []string `yaml:"remove_required_dlc,omitempty" toml:"remove_required_dlc,omitempty"`

	AddRequiredMods    []uint64 `yaml:"add_required_mods,omitempty" toml:"add_required_mods,omitempty"`
	RemoveRequiredMods []uint64 `yaml:"remove_required_mods,omitempty" toml:"remove_required_mods,omitempty"`

	AddSuccessors         []uint64 `yaml:"add_successors,omitempty" toml:"add_successors,omitempty"`
	RemoveSuccessors      []uint64 `yaml:"remove_successors,omitempty" toml:"remove_successors,omitempty"`
	AddAlternatives       []uint64 `yaml:"add_alternatives,omitempty" toml:"add_alternatives,omitempty"`
	RemoveAlternatives    []uint64 `yaml:"remove_alternatives,omitempty" toml:"remove_alternatives,omitempty"`
	AddRecommendations    []uint64 `yaml:"add_recommendations,omitempty" toml:"add_recommendations,omitempty"`
	RemoveRecommendations []uint64 `yaml:"remove_recommendations,omitempty" toml:"remove_recommendations,omitempty"`

	Reviewed bool `yaml:"reviewed,omitempty" toml:"reviewed,omitempty"` // Advance the review date
}

// AuthorOverride is a manual change to one author, keyed by profile ID or URL.
type AuthorOverride struct {
	ID        uint64  `yaml:"id,omitempty" toml:"id,omitempty"`
	URL       string  `yaml:"url,omitempty" toml:"url,omitempty"`
	Name      *string `yaml:"name,omitempty" toml:"name,omitempty"`
	ProfileID *uint64 `yaml:"profile_id,omitempty" toml:"profile_id,omitempty"` // Moves a URL author to a profile ID
	Retired   *bool   `yaml:"retired,omitempty" toml:"retired,omitempty"`
}

// GroupOverride creates, changes or removes a group. A zero ID creates a
// new group from Name and AddMembers.
type GroupOverride struct {
	ID            uint64   `yaml:"id,omitempty" toml:"id,omitempty"`
	Name          string   `yaml:"name,omitempty" toml:"name,omitempty"`
	AddMembers    []uint64 `yaml:"add_members,omitempty" toml:"add_members,omitempty"`
	RemoveMembers []uint64 `yaml:"remove_members,omitempty" toml:"remove_members,omitempty"`
	Remove        bool     `yaml:"remove,omitempty" toml:"remove,omitempty"`
}

// CompatibilityOverride adds or removes one compatibility entry.
type CompatibilityOverride struct {
	FirstModID  uint64 `yaml:"first_mod_id" toml:"first_mod_id"`
	SecondModID uint64 `yaml:"second_mod_id" toml:"second_mod_id"`
	Status      string `yaml:"status" toml:"status"`
	Note        string `yaml:"note,omitempty" toml:"note,omitempty"`
	Remove      bool   `yaml:"remove,omitempty" toml:"remove,omitempty"`
}

// merge appends the entries of other to f.
func (f *File) merge(other File) {
	if other.Catalog != nil {
		if f.Catalog == nil {
			f.Catalog = &CatalogTexts{}
		}
		if other.Catalog.Note != nil {
			f.Catalog.Note = other.Catalog.Note
		}
		if other.Catalog.ReportHeader != nil {
			f.Catalog.ReportHeader = other.Catalog.ReportHeader
		}
		if other.Catalog.ReportFooter != nil {
			f.Catalog.ReportFooter = other.Catalog.ReportFooter
		}
	}
	f.Mods = append(f.Mods, other.Mods...)
	f.Authors = append(f.Authors, other.Authors...)
	f.Groups = append(f.Groups, other.Groups...)
	f.Compatibilities = append(f.Compatibilities, other.Compatibilities...)
}

// IsEmpty reports whether the file holds no overrides.
func (f *File) IsEmpty() bool {
	return f.Catalog == nil && len(f.Mods) == 0 && len(f.Authors) == 0 &&
		len(f.Groups) == 0 && len(f.Compatibilities) == 0
}
