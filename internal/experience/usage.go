package experience

import (
	"math"

	"github.com/jonathan/resume-forge/internal/dates"
	"github.com/jonathan/resume-forge/internal/types"
)

// UsageStat accumulates how long a skill was used across retained projects
type UsageStat struct {
	Months     int
	FirstStart dates.Date
	LastEnd    dates.Date
}

// projectSpan returns the parsed start and the end used for duration (today when ongoing)
func projectSpan(p types.Project, today dates.Date) (dates.Date, dates.Date) {
	return dates.Parse(p.Start), dates.OrToday(dates.Parse(p.End), today)
}

// AggregateSkillUsage sums project durations per skill id and tracks the first
// start and last end seen. Ongoing projects run until today.
func AggregateSkillUsage(retained []types.ProjectRef, today dates.Date) map[string]*UsageStat {
	stats := make(map[string]*UsageStat)
	for _, ref := range retained {
		start, end := projectSpan(ref.Project, today)
		months, _ := dates.MonthsBetween(start, end)

		for _, skillID := range ref.Skills {
			stat, ok := stats[skillID]
			if !ok {
				stat = &UsageStat{}
				stats[skillID] = stat
			}
			stat.Months += months
			if start.IsConcrete() && (!stat.FirstStart.IsConcrete() || start.Before(stat.FirstStart)) {
				stat.FirstStart = start
			}
			if !stat.LastEnd.IsConcrete() || end.After(stat.LastEnd) {
				stat.LastEnd = end
			}
		}
	}
	return stats
}

// Annotate writes usage figures onto every skill item of the groups.
// Skills never used by a retained project get zero months and no dates.
func Annotate(groups []types.SkillGroupOut, stats map[string]*UsageStat) {
	for gi := range groups {
		for ii := range groups[gi].Items {
			item := &groups[gi].Items[ii]
			item.Months, item.Years, item.FirstUsed, item.LastUsed = 0, 0, "", ""

			stat, ok := stats[item.ID]
			if !ok {
				continue
			}
			item.Months = stat.Months
			item.Years = roundYears(stat.Months)
			item.FirstUsed = dates.FormatYearMonth(stat.FirstStart)
			item.LastUsed = dates.FormatYearMonth(stat.LastEnd)
		}
	}
}

// roundYears converts months to years with one decimal, halves to even
func roundYears(months int) float64 {
	return math.RoundToEven(float64(months)/12*10) / 10
}
