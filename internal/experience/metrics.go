package experience

import (
	"math"

	"github.com/jonathan/resume-forge/internal/dates"
	"github.com/jonathan/resume-forge/internal/types"
)

// ComputeMetrics re-scans the assembled experience. It is independent of the
// per-skill aggregation: experience years span the earliest project start to the
// latest project end (today for ongoing work).
func ComputeMetrics(experience []types.ExperienceEntry, today dates.Date) types.Metrics {
	var earliest, latest dates.Date
	projects := 0

	for _, e := range experience {
		for _, p := range e.Projects {
			projects++
			if s := dates.Parse(p.Start); s.IsConcrete() && (!earliest.IsConcrete() || s.Before(earliest)) {
				earliest = s
			}
			if end := dates.OrToday(dates.Parse(p.End), today); !latest.IsConcrete() || end.After(latest) {
				latest = end
			}
		}
	}

	months, _ := dates.MonthsBetween(earliest, latest)
	return types.Metrics{
		ExperienceYears: max(int(math.RoundToEven(float64(months)/12)), 0),
		Companies:       len(experience),
		Projects:        projects,
	}
}
