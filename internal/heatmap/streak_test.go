package heatmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/streakmap/domain"
)

func denseSeries(start string, counts ...int) []domain.HeatmapDay {
	first, _ := ParseDay(start)
	days := make([]domain.HeatmapDay, len(counts))
	for i, c := range counts {
		days[i] = domain.HeatmapDay{Date: FormatDay(first.AddDate(0, 0, i)), Count: c}
	}
	return days
}

func TestStreakFromDays(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   domain.StreakStats
	}{
		{name: "basic", counts: []int{1, 1, 0, 1, 1, 1}, want: domain.StreakStats{Current: 3, Best: 3}},
		{name: "ends idle", counts: []int{1, 1, 1, 0}, want: domain.StreakStats{Current: 0, Best: 3}},
		{name: "empty", counts: nil, want: domain.StreakStats{}},
		{name: "all zero", counts: []int{0, 0, 0}, want: domain.StreakStats{}},
		{name: "best earlier", counts: []int{2, 2, 2, 2, 0, 1}, want: domain.StreakStats{Current: 1, Best: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StreakFromDays(denseSeries("2024-01-01", tt.counts...)))
		})
	}
}

func TestStreaksFromEntries_GapResets(t *testing.T) {
	entries := []domain.ActivityEntry{
		entry("t1", "2024-01-05", 1),
		entry("t1", "2024-01-01", 2),
	}

	got, err := StreaksFromEntries(entries, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, domain.StreakStats{Current: 1, Best: 1}, got["t1"])
}

func TestStreaksFromEntries_ConsecutiveAndZero(t *testing.T) {
	entries := []domain.ActivityEntry{
		entry("t1", "2024-01-01", 1),
		entry("t1", "2024-01-02", 1),
		entry("t1", "2024-01-03", 1),
		entry("t1", "2024-01-04", 0),
		entry("t1", "2024-01-05", 4),
		entry("t2", "2024-01-01", 0),
	}

	got, err := StreaksFromEntries(entries, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, domain.StreakStats{Current: 1, Best: 3}, got["t1"])
	assert.Equal(t, domain.StreakStats{Current: 0, Best: 0}, got["t2"])
	assert.Len(t, got, 2)
}

func TestStreaksFromEntries_DuplicateDatesAreSummed(t *testing.T) {
	entries := []domain.ActivityEntry{
		entry("t1", "2024-01-01", 1),
		entry("t1", "2024-01-02", 1),
		entry("t1", "2024-01-02", 2),
		entry("t1", "2024-01-03", 1),
		entry("t1", "2024-01-03", -1),
	}

	got, err := StreaksFromEntries(entries, time.Time{})
	require.NoError(t, err)
	// Jan 2 counts once; Jan 3 nets to zero and breaks the run.
	assert.Equal(t, domain.StreakStats{Current: 0, Best: 2}, got["t1"])
}

func TestStreaksFromEntries_AsOf(t *testing.T) {
	entries := []domain.ActivityEntry{
		entry("t1", "2024-01-01", 1),
		entry("t1", "2024-01-02", 1),
		entry("t1", "2024-01-09", 1),
	}

	got, err := StreaksFromEntries(entries, mustDay(t, "2024-01-02"))
	require.NoError(t, err)
	assert.Equal(t, domain.StreakStats{Current: 2, Best: 2}, got["t1"])

	got, err = StreaksFromEntries(entries, mustDay(t, "2024-01-04"))
	require.NoError(t, err)
	assert.Equal(t, domain.StreakStats{Current: 0, Best: 2}, got["t1"])

	got, err = StreaksFromEntries(entries, mustDay(t, "2023-12-31"))
	require.NoError(t, err)
	assert.NotContains(t, got, "t1")
}

func TestStreaksFromEntries_InvalidDate(t *testing.T) {
	_, err := StreaksFromEntries([]domain.ActivityEntry{entry("t1", "2024/01/01", 1)}, time.Time{})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestStreaksFromEntries_Empty(t *testing.T) {
	got, err := StreaksFromEntries(nil, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStreaks_ModesAgree(t *testing.T) {
	today := mustDay(t, "2024-03-01")
	sets := map[string][]domain.ActivityEntry{
		"active today": {
			entry("t1", "2024-02-27", 1),
			entry("t1", "2024-02-28", 2),
			entry("t1", "2024-02-29", 1),
			entry("t1", "2024-03-01", 3),
			entry("t1", "2024-02-20", 1),
		},
		"idle today": {
			entry("t1", "2024-02-10", 1),
			entry("t1", "2024-02-11", 1),
			entry("t1", "2024-02-29", 1),
		},
		"zero rows": {
			entry("t1", "2024-02-25", 1),
			entry("t1", "2024-02-26", 0),
			entry("t1", "2024-02-27", 1),
			entry("t1", "2024-02-28", 1),
			entry("t1", "2024-02-29", 1),
			entry("t1", "2024-03-01", 1),
		},
		"unsorted duplicates": {
			entry("t1", "2024-03-01", 1),
			entry("t1", "2024-02-29", 1),
			entry("t1", "2024-03-01", 4),
			entry("t1", "2024-02-28", 2),
			entry("t1", "2024-02-28", 0),
		},
		"single": {
			entry("t1", "2024-03-01", 1),
		},
	}

	for name, entries := range sets {
		t.Run(name, func(t *testing.T) {
			days, err := Build(testTask(), entries, 90, today)
			require.NoError(t, err)

			sparse, err := StreaksFromEntries(entries, today)
			require.NoError(t, err)

			assert.Equal(t, StreakFromDays(days), sparse["t1"])
		})
	}
}
