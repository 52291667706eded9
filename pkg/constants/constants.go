// Package constants provides shared constants used throughout the modcatalog codebase.
// This includes identifier ranges, file naming, file permissions and the default
// thresholds that the reconciliation engine and the update run rely on.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Identifier ranges within the shared required-items namespace
const (
	// LowestBuiltinID is the first identifier reserved for builtin entries
	LowestBuiltinID = 1

	// HighestBuiltinID is the last identifier reserved for builtin entries
	HighestBuiltinID = 99

	// LowestGroupID is the first identifier handed out to groups
	LowestGroupID = 1000

	// HighestGroupID is the last identifier handed out to groups
	HighestGroupID = 9999
)

// Catalog structure constants
const (
	// CurrentStructureVersion is the schema generation written by this module
	CurrentStructureVersion = 3

	// MinOverrideStructureVersion is the lowest structure version the override importer runs on
	MinOverrideStructureVersion = 3

	// VersionTwoNote is the fixed catalog note inserted at catalog version 2
	VersionTwoNote = "This catalog version introduces the new structure. Some data may be incomplete."
)

// Author retirement
const (
	// DefaultRetirementMonths is the inactivity window after which an author is retired
	DefaultRetirementMonths = 12
)

// File naming
const (
	// CatalogFileFormat names a versioned catalog file
	CatalogFileFormat = "ModCatalog_v%d.yaml"

	// ChangeLogFileFormat names the change log written next to a catalog version
	ChangeLogFileFormat = "ModCatalog_v%d_ChangeNotes.md"

	// OverridesFileFormat names the combined manual-override snapshot of a catalog version
	OverridesFileFormat = "ModCatalog_v%d_Overrides.yaml"

	// BundledCatalogFile is the catalog shipped inside the binary
	BundledCatalogFile = "catalog.yaml"
)

// Format constants
const (
	// DateFormat is the date layout used in change notes and change log headings
	DateFormat = "2006-01-02"

	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"
)

// Timeout constants
const (
	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)
