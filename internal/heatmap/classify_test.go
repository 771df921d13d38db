package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/streakmap/domain"
)

func TestClassify_PicksHighestQualifyingLevel(t *testing.T) {
	levels := []domain.IntensityLevel{
		{Label: "heavy", MinCount: 5, Color: "#44A340"},
		{Label: "light", MinCount: 1, Color: "#D6E685"},
		{Label: "medium", MinCount: 3, Color: "#8CC665"},
	}

	tests := []struct {
		count int
		want  string
	}{
		{count: 0, want: ""},
		{count: -2, want: ""},
		{count: 1, want: "light"},
		{count: 2, want: "light"},
		{count: 3, want: "medium"},
		{count: 4, want: "medium"},
		{count: 5, want: "heavy"},
		{count: 10, want: "heavy"},
	}

	for _, tt := range tests {
		got := Classify(levels, tt.count)
		if tt.want == "" {
			assert.Nil(t, got, "count %d", tt.count)
			continue
		}
		require.NotNil(t, got, "count %d", tt.count)
		assert.Equal(t, tt.want, got.Label, "count %d", tt.count)
	}
}

func TestClassify_EmptyLevels(t *testing.T) {
	assert.Nil(t, Classify(nil, 7))
	assert.Nil(t, Classify([]domain.IntensityLevel{}, 1))
}

func TestClassify_BelowLowestThreshold(t *testing.T) {
	levels := []domain.IntensityLevel{{Label: "busy", MinCount: 4}}
	assert.Nil(t, Classify(levels, 3))
	require.NotNil(t, Classify(levels, 4))
}

func TestClassify_LastInsertedWinsOnTies(t *testing.T) {
	levels := []domain.IntensityLevel{
		{Label: "first", MinCount: 2},
		{Label: "low", MinCount: 1},
		{Label: "second", MinCount: 2},
	}

	got := Classify(levels, 2)
	require.NotNil(t, got)
	assert.Equal(t, "second", got.Label)
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	levels := []domain.IntensityLevel{
		{Label: "c", MinCount: 5},
		{Label: "a", MinCount: 1},
	}

	got := Classify(levels, 6)
	require.NotNil(t, got)
	got.Label = "changed"

	assert.Equal(t, "c", levels[0].Label)
	assert.Equal(t, "a", levels[1].Label)
}
