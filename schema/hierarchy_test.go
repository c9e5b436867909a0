package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHierarchy(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		expectError string
	}{
		{
			name: "valid",
			yaml: "name: t\ncriteria:\n  - name: A\n    sub_criteria: [A1, A2]\n  - name: B\n    sub_criteria: [B1]\n",
		},
		{name: "missing name", yaml: "criteria:\n  - name: A\n", expectError: "Name"},
		{name: "no criteria", yaml: "name: t\ncriteria: []\n", expectError: "Criteria"},
		{
			name:        "duplicate criterion",
			yaml:        "name: t\ncriteria:\n  - name: A\n  - name: ' A'\n",
			expectError: "duplicate criterion",
		},
		{
			name:        "shared sub-criterion",
			yaml:        "name: t\ncriteria:\n  - name: A\n    sub_criteria: [X]\n  - name: B\n    sub_criteria: [X]\n",
			expectError: "appears under both",
		},
		{name: "bad yaml", yaml: "name: [", expectError: "failed to parse hierarchy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHierarchy([]byte(tt.yaml))
			if tt.expectError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestHierarchyLookups(t *testing.T) {
	h := Hierarchy{
		Name: "t",
		Criteria: []Criterion{
			{Name: " Access ", SubCriteria: []string{"Ramps", " Lifts"}},
			{Name: "Safety", SubCriteria: []string{"CCTV"}},
		},
	}

	assert.Equal(t, []string{"Access", "Safety"}, h.CriteriaKeys())

	subs, ok := h.SubCriteria("Access")
	require.True(t, ok)
	assert.Equal(t, []string{"Ramps", "Lifts"}, subs)

	_, ok = h.SubCriteria("Comfort")
	assert.False(t, ok)
}

func TestDefaultHierarchy(t *testing.T) {
	h, err := DefaultHierarchy()
	require.NoError(t, err)
	assert.Equal(t, "public-space", h.Name)
	assert.Len(t, h.Criteria, 7)

	total := 0
	for _, c := range h.Criteria {
		total += len(c.SubCriteria)
	}
	assert.Equal(t, 40, total)

	loaded, err := LoadHierarchy("")
	require.NoError(t, err)
	assert.Equal(t, h, loaded)

	_, err = LoadHierarchy("does-not-exist.yaml")
	assert.Error(t, err)
}
