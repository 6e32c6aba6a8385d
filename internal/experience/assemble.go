package experience

import (
	"sort"

	"github.com/jonathan/resume-forge/internal/dates"
	"github.com/jonathan/resume-forge/internal/localize"
	"github.com/jonathan/resume-forge/internal/types"
)

// DefaultProjectType is used for projects that do not declare a type
const DefaultProjectType = "employment"

// SkillItems resolves skill ids against the registry. Unknown ids use the id as their name.
func SkillItems(registry types.Ordered[types.SkillRegistryEntry], ids []string, loc *localize.Localizer) []types.SkillItem {
	items := make([]types.SkillItem, 0, len(ids))
	for _, id := range ids {
		entry, _ := registry.Get(id)
		items = append(items, types.SkillItem{
			ID:    id,
			Name:  loc.TextOr(entry.Name, id),
			Level: entry.Level,
		})
	}
	return items
}

// AssembleExperience groups retained projects under their employers, in the order
// employers are declared, and sorts the result reverse-chronologically.
// Employers without a retained project are left out.
func AssembleExperience(doc *types.CareerDocument, retained []types.ProjectRef, lang string, today dates.Date) []types.ExperienceEntry {
	loc := localize.New(lang)

	byEmployer := make(map[string][]types.ProjectEntry)
	for _, ref := range retained {
		byEmployer[ref.Employer] = append(byEmployer[ref.Employer], projectEntry(doc, ref, loc, today))
	}

	experience := make([]types.ExperienceEntry, 0, len(byEmployer))
	for _, key := range doc.Employers.Keys() {
		projects := byEmployer[key]
		if len(projects) == 0 {
			continue
		}
		employer, _ := doc.Employers.Get(key)
		experience = append(experience, employerEntry(key, employer, projects, loc, today))
	}

	sort.SliceStable(experience, func(i, j int) bool {
		return laterFirst(sortKey(experience[i], today), sortKey(experience[j], today))
	})
	return experience
}

func projectEntry(doc *types.CareerDocument, ref types.ProjectRef, loc *localize.Localizer, today dates.Date) types.ProjectEntry {
	start := dates.Parse(ref.Start)
	end := dates.Parse(ref.End)

	projectType := ref.Type
	if projectType == "" {
		projectType = DefaultProjectType
	}

	entry := types.ProjectEntry{
		ID:               ref.ID,
		Name:             loc.Text(ref.Name),
		Type:             projectType,
		Start:            dates.FormatYearMonth(start),
		End:              dates.FormatYearMonth(end),
		DurationMonths:   monthsPtr(start, dates.OrToday(end, today)),
		Summary:          loc.Text(ref.Summary),
		Responsibilities: loc.Texts(ref.Responsibilities),
		Skills:           SkillItems(doc.Skills.Registry, ref.Skills, loc),
		Links:            copyStrings(ref.Links),
		Contributions:    make([]types.ContributionOut, 0, len(ref.Contributions)),
	}

	for _, id := range ref.Contributions {
		c, _ := doc.Contributions.Get(id)
		entry.Contributions = append(entry.Contributions, types.ContributionOut{
			Repo: c.Repo,
			Link: c.Link,
			Note: loc.Text(c.Note),
		})
	}
	return entry
}

func employerEntry(key string, employer types.Employer, projects []types.ProjectEntry, loc *localize.Localizer, today dates.Date) types.ExperienceEntry {
	var start, end dates.Date
	ongoing := false
	for _, p := range projects {
		if s := dates.Parse(p.Start); s.IsConcrete() && (!start.IsConcrete() || s.Before(start)) {
			start = s
		}
		e := dates.Parse(p.End)
		if !e.IsConcrete() {
			ongoing = true
			continue
		}
		if !end.IsConcrete() || e.After(end) {
			end = e
		}
	}
	if ongoing {
		end = dates.Date{}
	}

	return types.ExperienceEntry{
		EmployerKey:    key,
		Employer:       loc.TextOr(employer.Name, key),
		Location:       loc.Text(employer.Location),
		URL:            employer.URL,
		Role:           roleTitle(employer.Roles, loc),
		Start:          dates.FormatYearMonth(start),
		End:            dates.FormatYearMonth(end),
		DurationMonths: monthsPtr(start, dates.OrToday(end, today)),
		Keywords:       keywords(projects),
		Projects:       projects,
	}
}

// roleTitle is the first non-empty role title in declaration order
func roleTitle(roles []types.Role, loc *localize.Localizer) string {
	for _, r := range roles {
		if title := loc.Text(r.Title); title != "" {
			return title
		}
	}
	return ""
}

// keywords lists skill names across projects, deduplicated in first-seen order
func keywords(projects []types.ProjectEntry) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range projects {
		for _, s := range p.Skills {
			if s.Name == "" {
				continue
			}
			if _, dup := seen[s.Name]; dup {
				continue
			}
			seen[s.Name] = struct{}{}
			out = append(out, s.Name)
		}
	}
	return out
}

// sortKey is (end.year, end.month, start.year, start.month). A missing end is
// today and a missing start falls back to the end.
func sortKey(e types.ExperienceEntry, today dates.Date) [4]int {
	end := dates.OrToday(dates.Parse(e.End), today)
	start := dates.OrToday(dates.Parse(e.Start), end)
	return [4]int{end.Year(), end.Month(), start.Year(), start.Month()}
}

func laterFirst(a, b [4]int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

func monthsPtr(a, b dates.Date) *int {
	m, ok := dates.MonthsBetween(a, b)
	if !ok {
		return nil
	}
	return &m
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
