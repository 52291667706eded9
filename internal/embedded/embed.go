// Package embedded holds the seed catalog compiled into the binary.
package embedded

import (
	"embed"

	"github.com/agentstation/modcatalog/pkg/constants"
)

// FS embeds the bundled catalog at build time.
//
//go:embed catalog.yaml
var FS embed.FS

// CatalogFile is the name of the bundled catalog inside FS.
const CatalogFile = constants.BundledCatalogFile
