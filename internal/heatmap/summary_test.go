package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fastygo/streakmap/domain"
)

func TestSummarize(t *testing.T) {
	days := denseSeries("2024-01-01", 3, 0, 2, 2, 0, 5)

	assert.Equal(t, domain.HeatmapSummary{
		TotalCount:    12,
		ActiveDays:    4,
		CurrentStreak: 1,
		BestStreak:    2,
	}, Summarize(days))
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, domain.HeatmapSummary{}, Summarize(nil))
}
