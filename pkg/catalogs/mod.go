package catalogs

import (
	"slices"

	"github.com/agentstation/utc"
)

// Mod is a third-party add-on tracked by the catalog.
type Mod struct {
	ID        ID     `json:"id" yaml:"id"`                                     // Unique, immutable identifier
	Name      string `json:"name" yaml:"name"`                                 // Display name
	AuthorID  uint64 `json:"author_id,omitempty" yaml:"author_id,omitempty"`   // Author profile number
	AuthorURL string `json:"author_url,omitempty" yaml:"author_url,omitempty"` // Author custom URL slug, only when AuthorID is unset

	Published utc.Time `json:"published" yaml:"published"`
	Updated   utc.Time `json:"updated" yaml:"updated"`

	SourceURL             string `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	CompatibleGameVersion string `json:"compatible_game_version,omitempty" yaml:"compatible_game_version,omitempty"`

	// Relationships
	RequiredDLC     []DLC `json:"required_dlc,omitempty" yaml:"required_dlc,omitempty"`
	RequiredMods    []ID  `json:"required_mods,omitempty" yaml:"required_mods,omitempty"` // Mods, groups and builtins
	Successors      []ID  `json:"successors,omitempty" yaml:"successors,omitempty"`
	Alternatives    []ID  `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
	Recommendations []ID  `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`

	Stability     Stability `json:"stability" yaml:"stability"`
	StabilityNote string    `json:"stability_note,omitempty" yaml:"stability_note,omitempty"`
	Statuses      []Status  `json:"statuses,omitempty" yaml:"statuses,omitempty"`
	Note          string    `json:"note,omitempty" yaml:"note,omitempty"`

	// Human overrides
	ExclusionForSourceURL     bool      `json:"exclusion_for_source_url,omitempty" yaml:"exclusion_for_source_url,omitempty"`
	ExclusionForGameVersion   bool      `json:"exclusion_for_game_version,omitempty" yaml:"exclusion_for_game_version,omitempty"`
	ExclusionForNoDescription Exclusion `json:"exclusion_for_no_description,omitempty" yaml:"exclusion_for_no_description,omitempty"`
	ManualRequiredMods        []ID      `json:"manual_required_mods,omitempty" yaml:"manual_required_mods,omitempty"`             // Requirements added by a human
	ManualRequiredDLC         []DLC     `json:"manual_required_dlc,omitempty" yaml:"manual_required_dlc,omitempty"`               // DLC requirements added by a human
	ExclusionForRequiredMods  []ID      `json:"exclusion_for_required_mods,omitempty" yaml:"exclusion_for_required_mods,omitempty"` // Scraper findings a human removed
	ExclusionForRequiredDLC   []DLC     `json:"exclusion_for_required_dlc,omitempty" yaml:"exclusion_for_required_dlc,omitempty"`   // Scraper DLC findings a human removed

	ReviewDate     utc.Time `json:"review_date" yaml:"review_date"`           // Last human review
	AutoReviewDate utc.Time `json:"auto_review_date" yaml:"auto_review_date"` // Last scraper review

	ChangeNotes []string `json:"change_notes,omitempty" yaml:"change_notes,omitempty"`
}

// HasStatus reports whether the mod carries the status.
func (m *Mod) HasStatus(s Status) bool {
	return slices.Contains(m.Statuses, s)
}

// IsRemoved reports whether the mod was removed from its listing.
func (m *Mod) IsRemoved() bool {
	return m.HasStatus(StatusRemoved)
}

// Requires reports whether id is in the required-items list.
func (m *Mod) Requires(id ID) bool {
	return slices.Contains(m.RequiredMods, id)
}

// RequiresDLC reports whether the DLC is required.
func (m *Mod) RequiresDLC(dlc DLC) bool {
	return slices.Contains(m.RequiredDLC, dlc)
}

// HasAuthor reports whether the mod references any author.
func (m *Mod) HasAuthor() bool {
	return m.AuthorID != 0 || m.AuthorURL != ""
}

// String returns a short display form, e.g. "[Mod 100] Foo".
func (m *Mod) String() string {
	return "[Mod " + m.ID.String() + "] " + m.Name
}
