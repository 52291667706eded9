package catalogs

import "slices"

// Status is a flag describing the state of a mod or its source.
type Status string

// Status constants.
const (
	StatusUnlisted              Status = "Unlisted"
	StatusRemoved               Status = "Removed"
	StatusNoCommentSection      Status = "NoCommentSection"
	StatusNoDescription         Status = "NoDescription"
	StatusNoLongerNeeded        Status = "NoLongerNeeded"
	StatusDeprecated            Status = "Deprecated"
	StatusAbandoned             Status = "Abandoned"
	StatusSourceUnavailable     Status = "SourceUnavailable"
	StatusSourceBundled         Status = "SourceBundled"
	StatusSourceNotUpdated      Status = "SourceNotUpdated"
	StatusSourceObfuscated      Status = "SourceObfuscated"
	StatusMusicCopyrighted      Status = "MusicCopyrighted"
	StatusMusicCopyrightFree    Status = "MusicCopyrightFree"
	StatusMusicCopyrightUnknown Status = "MusicCopyrightUnknown"
	StatusReupload              Status = "Reupload"
	StatusBreaksEditors         Status = "BreaksEditors"
	StatusModForModders         Status = "ModForModders"
	StatusTestVersion           Status = "TestVersion"
	StatusSavesCantLoadWithout  Status = "SavesCantLoadWithout"
)

// AllStatuses lists every known status in display order.
var AllStatuses = []Status{
	StatusUnlisted, StatusRemoved, StatusNoCommentSection, StatusNoDescription,
	StatusNoLongerNeeded, StatusDeprecated, StatusAbandoned,
	StatusSourceUnavailable, StatusSourceBundled, StatusSourceNotUpdated, StatusSourceObfuscated,
	StatusMusicCopyrighted, StatusMusicCopyrightFree, StatusMusicCopyrightUnknown,
	StatusReupload, StatusBreaksEditors, StatusModForModders, StatusTestVersion, StatusSavesCantLoadWithout,
}

// String returns the string representation of a Status.
func (s Status) String() string {
	return string(s)
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return slices.Contains(AllStatuses, s)
}

// statusConflicts maps a status to the statuses it displaces when added.
var statusConflicts = map[Status][]Status{
	StatusUnlisted:              {StatusRemoved},
	StatusRemoved:               {StatusUnlisted, StatusNoCommentSection, StatusNoDescription},
	StatusNoLongerNeeded:        {StatusDeprecated, StatusAbandoned},
	StatusDeprecated:            {StatusNoLongerNeeded, StatusAbandoned},
	StatusAbandoned:             {StatusNoLongerNeeded, StatusDeprecated},
	StatusSourceUnavailable:     {StatusSourceBundled, StatusSourceNotUpdated, StatusSourceObfuscated},
	StatusSourceBundled:         {StatusSourceUnavailable},
	StatusSourceNotUpdated:      {StatusSourceUnavailable},
	StatusSourceObfuscated:      {StatusSourceUnavailable},
	StatusMusicCopyrighted:      {StatusMusicCopyrightFree, StatusMusicCopyrightUnknown},
	StatusMusicCopyrightFree:    {StatusMusicCopyrighted, StatusMusicCopyrightUnknown},
	StatusMusicCopyrightUnknown: {StatusMusicCopyrighted, StatusMusicCopyrightFree},
}

// Conflicts returns the statuses removed when s is added.
func (s Status) Conflicts() []Status {
	return statusConflicts[s]
}

// Stability classifies how well a mod works with the current game version.
type Stability string

// Stability constants.
const (
	StabilityNotReviewed             Stability = "NotReviewed"
	StabilityIncompatible            Stability = "Incompatible"
	StabilityRequiresIncompatibleMod Stability = "RequiresIncompatibleMod"
	StabilityGameBreaking            Stability = "GameBreaking"
	StabilityBroken                  Stability = "Broken"
	StabilityMajorIssues             Stability = "MajorIssues"
	StabilityMinorIssues             Stability = "MinorIssues"
	StabilityUsersReportIssues       Stability = "UsersReportIssues"
	StabilityNotEnoughInformation    Stability = "NotEnoughInformation"
	StabilityStable                  Stability = "Stable"
)

var allStabilities = []Stability{
	StabilityNotReviewed, StabilityIncompatible, StabilityRequiresIncompatibleMod,
	StabilityGameBreaking, StabilityBroken, StabilityMajorIssues, StabilityMinorIssues,
	StabilityUsersReportIssues, StabilityNotEnoughInformation, StabilityStable,
}

// String returns the string representation of a Stability.
func (s Stability) String() string {
	return string(s)
}

// IsValid reports whether s is a known stability.
func (s Stability) IsValid() bool {
	return slices.Contains(allStabilities, s)
}

// CompatibilityStatus describes how two mods relate to each other.
type CompatibilityStatus string

// CompatibilityStatus constants.
const (
	CompatibilityNewerVersion                  CompatibilityStatus = "NewerVersion"
	CompatibilityOlderVersion                  CompatibilityStatus = "OlderVersion"
	CompatibilityFunctionalityCovered          CompatibilityStatus = "FunctionalityCovered"
	CompatibilitySameFunctionality             CompatibilityStatus = "SameFunctionality"
	CompatibilityIncompatibleAccordingToAuthor CompatibilityStatus = "IncompatibleAccordingToAuthor"
	CompatibilityIncompatibleAccordingToUsers  CompatibilityStatus = "IncompatibleAccordingToUsers"
	CompatibilityMajorIssues                   CompatibilityStatus = "MajorIssues"
	CompatibilityMinorIssues                   CompatibilityStatus = "MinorIssues"
	CompatibilityRequiresSpecificSettings      CompatibilityStatus = "RequiresSpecificSettings"
	CompatibilityCompatibleAccordingToAuthor   CompatibilityStatus = "CompatibleAccordingToAuthor"
)

var allCompatibilityStatuses = []CompatibilityStatus{
	CompatibilityNewerVersion, CompatibilityOlderVersion, CompatibilityFunctionalityCovered,
	CompatibilitySameFunctionality, CompatibilityIncompatibleAccordingToAuthor,
	CompatibilityIncompatibleAccordingToUsers, CompatibilityMajorIssues, CompatibilityMinorIssues,
	CompatibilityRequiresSpecificSettings, CompatibilityCompatibleAccordingToAuthor,
}

// String returns the string representation of a CompatibilityStatus.
func (s CompatibilityStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known compatibility status.
func (s CompatibilityStatus) IsValid() bool {
	return slices.Contains(allCompatibilityStatuses, s)
}

// Exclusion is a three-state human override flag.
type Exclusion string

// Exclusion constants.
const (
	ExclusionNone     Exclusion = ""         // No human decision recorded
	ExclusionExcluded Exclusion = "excluded" // A human decided; automated changes are rejected
	ExclusionPending  Exclusion = "pending"  // A human reverted the decision; the next automated change resolves it
)

// Toggle returns the state after a human changes the guarded value.
func (e Exclusion) Toggle() Exclusion {
	if e == ExclusionExcluded {
		return ExclusionPending
	}
	return ExclusionExcluded
}
