package model

import "math"

// ComputeStats derives Stats from apps and the relationship count. The
// average is rounded half away from zero and is 0 for an empty app set.
func ComputeStats(apps []App, relationships int) Stats {
	stats := Stats{Apps: len(apps), Relationships: relationships}
	for _, app := range apps {
		stats.Fields += len(app.Fields)
	}
	if stats.Apps == 0 {
		stats.Empty = true
		return stats
	}
	stats.AverageFields = int(math.Round(float64(stats.Fields) / float64(stats.Apps)))
	return stats
}
