package catalogs

import (
	"strconv"

	"github.com/agentstation/modcatalog/pkg/constants"
)

// ID identifies a mod, a group or a builtin entry. The three share one
// namespace so a required-items list can hold any of them.
type ID uint64

// String returns the decimal form of the ID.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// IsBuiltin reports whether the ID falls in the range reserved for builtin entries.
func (id ID) IsBuiltin() bool {
	return id >= constants.LowestBuiltinID && id <= constants.HighestBuiltinID
}

// IsGroupRange reports whether the ID falls in the range handed out to groups.
func (id ID) IsGroupRange() bool {
	return id >= constants.LowestGroupID && id <= constants.HighestGroupID
}

// Source identifies which collector reported a fact.
type Source string

// Source constants.
const (
	SourceScraper Source = "scraper" // Automated discovery
	SourceManual  Source = "manual"  // Human-curated override data
)

// String returns the string representation of a Source.
func (s Source) String() string {
	return string(s)
}

// IsManual reports whether the fact came from a human.
func (s Source) IsManual() bool {
	return s == SourceManual
}

// Builtin is an entry shipped with the host program that mods may require.
type Builtin struct {
	ID   ID
	Name string
}

// BuiltinMods are the builtin entries that may appear in required-items lists.
var BuiltinMods = map[ID]Builtin{
	1: {ID: 1, Name: "Hard Mode"},
	2: {ID: 2, Name: "Unlimited Money"},
	3: {ID: 3, Name: "Unlimited Oil And Ore"},
	4: {ID: 4, Name: "Unlimited Soil"},
	5: {ID: 5, Name: "Unlock All"},
}

// DLC identifies a paid expansion of the host program by its store app ID.
type DLC uint32

// DLC constants.
const (
	DLCDeluxeEdition       DLC = 346791
	DLCAfterDark           DLC = 369150
	DLCSnowfall            DLC = 420610
	DLCNaturalDisasters    DLC = 515191
	DLCMassTransit         DLC = 547502
	DLCGreenCities         DLC = 614580
	DLCParklife            DLC = 715191
	DLCIndustries          DLC = 715194
	DLCCampus              DLC = 944071
	DLCSunsetHarbor        DLC = 1146930
	DLCAirports            DLC = 1894204
	DLCPlazasAndPromenades DLC = 2148901
	DLCFinancialDistricts  DLC = 2144480
	DLCHotelsAndRetreats   DLC = 2224690
)

var dlcNames = map[DLC]string{
	DLCDeluxeEdition:       "Deluxe Edition",
	DLCAfterDark:           "After Dark",
	DLCSnowfall:            "Snowfall",
	DLCNaturalDisasters:    "Natural Disasters",
	DLCMassTransit:         "Mass Transit",
	DLCGreenCities:         "Green Cities",
	DLCParklife:            "Parklife",
	DLCIndustries:          "Industries",
	DLCCampus:              "Campus",
	DLCSunsetHarbor:        "Sunset Harbor",
	DLCAirports:            "Airports",
	DLCPlazasAndPromenades: "Plazas & Promenades",
	DLCFinancialDistricts:  "Financial Districts",
	DLCHotelsAndRetreats:   "Hotels & Retreats",
}

// String returns the DLC name, or its app ID when unknown.
func (d DLC) String() string {
	if name, ok := dlcNames[d]; ok {
		return name
	}
	return strconv.FormatUint(uint64(d), 10)
}

// IsKnown reports whether the DLC is one of the named expansions.
func (d DLC) IsKnown() bool {
	_, ok := dlcNames[d]
	return ok
}

// ParseDLC resolves a DLC from its app ID or its name.
func ParseDLC(s string) (DLC, bool) {
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return DLC(n), true
	}
	for dlc, name := range dlcNames {
		if name == s {
			return dlc, true
		}
	}
	return 0, false
}
