package catalogs

import (
	"strconv"

	"github.com/agentstation/utc"
)

// Author is a mod author, identified by profile number or by custom URL slug.
// Exactly one of ID and URL is set.
type Author struct {
	ID   uint64 `json:"id,omitempty" yaml:"id,omitempty"`   // Profile number
	URL  string `json:"url,omitempty" yaml:"url,omitempty"` // Custom URL slug, only when ID is unset
	Name string `json:"name" yaml:"name"`

	LastSeen            utc.Time `json:"last_seen" yaml:"last_seen"` // Latest update date across their mods
	Retired             bool     `json:"retired,omitempty" yaml:"retired,omitempty"`
	ExclusionForRetired bool     `json:"exclusion_for_retired,omitempty" yaml:"exclusion_for_retired,omitempty"` // Keeps an inactive author active

	ChangeNotes []string `json:"change_notes,omitempty" yaml:"change_notes,omitempty"`
}

// URLKeyPrefix marks author keys built from a custom URL slug, so an
// all-digit slug never collides with a profile number.
const URLKeyPrefix = "url:"

// Key returns the identifier used for the author in logs and the run ledger.
func (a *Author) Key() string {
	if a.ID != 0 {
		return strconv.FormatUint(a.ID, 10)
	}
	return URLKeyPrefix + a.URL
}

func (a *Author) label() string {
	if a.ID != 0 {
		return strconv.FormatUint(a.ID, 10)
	}
	return a.URL
}

// Owns reports whether the mod references this author.
func (a *Author) Owns(m *Mod) bool {
	if a.ID != 0 {
		return m.AuthorID == a.ID
	}
	return a.URL != "" && m.AuthorID == 0 && m.AuthorURL == a.URL
}

// String returns a short display form, e.g. "[Author 42] Jane".
func (a *Author) String() string {
	return "[Author " + a.label() + "] " + a.Name
}
