package constants_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/modcatalog/pkg/constants"
)

func TestIdentifierRangesDoNotOverlap(t *testing.T) {
	assert.Less(t, constants.HighestBuiltinID, constants.LowestGroupID)
	assert.Less(t, constants.LowestGroupID, constants.HighestGroupID)
	assert.Positive(t, constants.LowestBuiltinID)
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "ModCatalog_v12.yaml", fmt.Sprintf(constants.CatalogFileFormat, 12))
	assert.Equal(t, "ModCatalog_v12_ChangeNotes.md", fmt.Sprintf(constants.ChangeLogFileFormat, 12))
	assert.Equal(t, "ModCatalog_v12_Overrides.yaml", fmt.Sprintf(constants.OverridesFileFormat, 12))
}
