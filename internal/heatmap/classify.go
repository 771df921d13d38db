package heatmap

import (
	"cmp"
	"slices"

	"github.com/fastygo/streakmap/domain"
)

// Classify returns the highest level whose MinCount does not exceed count,
// or nil when count is not positive or no level qualifies.
//
// Levels are evaluated in ascending MinCount order regardless of the order
// they are stored in. Among levels sharing a MinCount the one inserted last
// wins. The returned level is a copy.
func Classify(levels []domain.IntensityLevel, count int) *domain.IntensityLevel {
	if count <= 0 {
		return nil
	}
	return classifySorted(sortLevels(levels), count)
}

func sortLevels(levels []domain.IntensityLevel) []domain.IntensityLevel {
	sorted := slices.Clone(levels)
	slices.SortStableFunc(sorted, func(a, b domain.IntensityLevel) int {
		return cmp.Compare(a.MinCount, b.MinCount)
	})
	return sorted
}

func classifySorted(sorted []domain.IntensityLevel, count int) *domain.IntensityLevel {
	if count <= 0 {
		return nil
	}
	var matched *domain.IntensityLevel
	for i := range sorted {
		if sorted[i].MinCount > count {
			break
		}
		level := sorted[i]
		matched = &level
	}
	return matched
}
