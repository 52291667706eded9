package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/modcatalog/pkg/catalogs"
)

func TestRelations(t *testing.T) {
	tests := []struct {
		name   string
		add    func(*Engine, *catalogs.Mod, catalogs.ID) bool
		remove func(*Engine, *catalogs.Mod, catalogs.ID) bool
		list   func(*catalogs.Mod) []catalogs.ID
		label  string
	}{
		{
			name:   "successor",
			add:    (*Engine).AddSuccessor,
			remove: (*Engine).RemoveSuccessor,
			list:   func(m *catalogs.Mod) []catalogs.ID { return m.Successors },
			label:  "successor",
		},
		{
			name:   "alternative",
			add:    (*Engine).AddAlternative,
			remove: (*Engine).RemoveAlternative,
			list:   func(m *catalogs.Mod) []catalogs.ID { return m.Alternatives },
			label:  "alternative",
		},
		{
			name:   "recommendation",
			add:    (*Engine).AddRecommendation,
			remove: (*Engine).RemoveRecommendation,
			list:   func(m *catalogs.Mod) []catalogs.ID { return m.Recommendations },
			label:  "recommendation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			m := mod(t, e, 100)

			assert.True(t, tt.add(e, m, 200))
			assert.False(t, tt.add(e, m, 200), "duplicate")
			assert.False(t, tt.add(e, m, 100), "self")
			assert.False(t, tt.add(e, m, 999), "unknown mod")
			assert.False(t, tt.add(e, m, 1000), "group")
			assert.Equal(t, []catalogs.ID{200}, tt.list(m))
			assert.Equal(t, []string{tt.label + " Mod 200 added"}, modFragments(e, 100))

			e.Reset()
			assert.False(t, tt.remove(e, m, 300), "absent")
			assert.True(t, tt.remove(e, m, 200))
			assert.Empty(t, tt.list(m))
			assert.Equal(t, []string{tt.label + " Mod 200 removed"}, modFragments(e, 100))

			assert.False(t, tt.add(e, nil, 200))
			assert.False(t, tt.remove(e, nil, 200))
		})
	}
}
