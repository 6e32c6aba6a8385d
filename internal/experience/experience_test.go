package experience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-forge/internal/dates"
	"github.com/jonathan/resume-forge/internal/localize"
	"github.com/jonathan/resume-forge/internal/types"
)

const fixtureYAML = `
data:
  skills:
    registry:
      go: {name: Go, level: expert}
      k8s: {name: {en: Kubernetes, ru: Кубернетес}}
    groups:
      - id: backend
        name: {en: Backend}
        items: [go, k8s, rust]
  contributions:
    c1: {repo: org/repo, link: "https://example.com/pr/1", note: {en: Fixed a race}}
  employers:
    acme:
      name: Acme
      location: {en: Berlin}
      roles:
        - title: ""
        - title: Engineer
    globex:
      name: {en: Globex}
      roles: [{title: SRE}]
    initech:
      name: Initech
  projects:
    p1: {employer: initech, start: "2015-01", end: "2016-01", skills: [go]}
    p2: {employer: acme, name: Billing, start: "2020-01", end: "2020-07", skills: [go, k8s], contributions: [c1]}
    p3: {employer: acme, type: contract, start: "2021-01", end: "2021-05", skills: [go]}
    p4: {employer: globex, start: "2024-01", end: present, skills: [k8s]}
    p5: {start: "2010-01", end: "2011-01", skills: [go]}
`

var today = dates.Of(2025, time.June, 15)

func loadFixture(t *testing.T) *types.CareerDocument {
	t.Helper()
	doc, err := ParseDocument([]byte(fixtureYAML))
	require.NoError(t, err)
	return doc
}

func projectIDs(refs []types.ProjectRef) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}

func employerKeys(entries []types.ExperienceEntry) []string {
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.EmployerKey)
	}
	return keys
}

func TestFilter(t *testing.T) {
	doc := loadFixture(t)

	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, projectIDs(Filter(doc, nil)))
	assert.Equal(t, []string{"p2", "p3", "p4"}, projectIDs(Filter(doc, []string{" p1 ", ""})))
}

func TestAggregateSkillUsage_SumsAcrossProjects(t *testing.T) {
	doc := loadFixture(t)

	stats := AggregateSkillUsage(Filter(doc, []string{"p1"}), today)

	require.Contains(t, stats, "go")
	assert.Equal(t, 10, stats["go"].Months)
	assert.Equal(t, "2020-01", dates.FormatYearMonth(stats["go"].FirstStart))
	assert.Equal(t, "2021-05", dates.FormatYearMonth(stats["go"].LastEnd))

	require.Contains(t, stats, "k8s")
	assert.Equal(t, 6+17, stats["k8s"].Months)
	assert.Equal(t, "2025-06", dates.FormatYearMonth(stats["k8s"].LastEnd))
}

func TestAggregateSkillUsage_ExcludedProjectContributesNothing(t *testing.T) {
	doc := loadFixture(t)

	with := AggregateSkillUsage(Filter(doc, nil), today)
	without := AggregateSkillUsage(Filter(doc, []string{"p1"}), today)

	assert.Equal(t, 22, with["go"].Months)
	assert.Equal(t, "2015-01", dates.FormatYearMonth(with["go"].FirstStart))
	assert.Equal(t, 10, without["go"].Months)
	assert.Equal(t, "2020-01", dates.FormatYearMonth(without["go"].FirstStart))
}

func TestAnnotate(t *testing.T) {
	doc := loadFixture(t)
	loc := localize.New("en")
	groups := []types.SkillGroupOut{{
		ID:    "backend",
		Group: "Backend",
		Items: SkillItems(doc.Skills.Registry, []string{"go", "k8s", "rust"}, loc),
	}}

	Annotate(groups, AggregateSkillUsage(Filter(doc, []string{"p1"}), today))

	items := groups[0].Items
	assert.Equal(t, types.SkillItem{ID: "go", Name: "Go", Level: "expert", Months: 10, Years: 0.8, FirstUsed: "2020-01", LastUsed: "2021-05"}, items[0])
	assert.Equal(t, 23, items[1].Months)
	assert.Equal(t, 1.9, items[1].Years)
	assert.Equal(t, types.SkillItem{ID: "rust", Name: "rust"}, items[2])
}

func TestAnnotate_RoundsYearsHalfToEven(t *testing.T) {
	tests := []struct {
		months int
		years  float64
	}{
		{months: 3, years: 0.2},
		{months: 9, years: 0.8},
		{months: 10, years: 0.8},
		{months: 15, years: 1.2},
		{months: 27, years: 2.2},
		{months: 30, years: 2.5},
	}
	for _, tt := range tests {
		groups := []types.SkillGroupOut{{ID: "g", Items: []types.SkillItem{{ID: "go", Name: "Go"}}}}
		Annotate(groups, map[string]*UsageStat{"go": {Months: tt.months}})
		assert.Equal(t, tt.years, groups[0].Items[0].Years, "months=%d", tt.months)
	}
}

func TestAssembleExperience(t *testing.T) {
	doc := loadFixture(t)

	experience := AssembleExperience(doc, Filter(doc, []string{"p1"}), "en", today)

	require.Equal(t, []string{"globex", "acme"}, employerKeys(experience))

	globex := experience[0]
	assert.Equal(t, "Globex", globex.Employer)
	assert.Equal(t, "SRE", globex.Role)
	assert.Equal(t, "2024-01", globex.Start)
	assert.Empty(t, globex.End, "ongoing employer has no end")
	require.NotNil(t, globex.DurationMonths)
	assert.Equal(t, 17, *globex.DurationMonths)

	acme := experience[1]
	assert.Equal(t, "Acme", acme.Employer)
	assert.Equal(t, "Berlin", acme.Location)
	assert.Equal(t, "Engineer", acme.Role)
	assert.Equal(t, "2020-01", acme.Start)
	assert.Equal(t, "2021-05", acme.End)
	assert.Equal(t, 16, *acme.DurationMonths)
	assert.Equal(t, []string{"Go", "Kubernetes"}, acme.Keywords)

	require.Len(t, acme.Projects, 2)
	billing := acme.Projects[0]
	assert.Equal(t, "Billing", billing.Name)
	assert.Equal(t, DefaultProjectType, billing.Type)
	assert.Equal(t, 6, *billing.DurationMonths)
	assert.Equal(t, []types.ContributionOut{{Repo: "org/repo", Link: "https://example.com/pr/1", Note: "Fixed a race"}}, billing.Contributions)
	assert.Equal(t, "contract", acme.Projects[1].Type)
}

func TestAssembleExperience_EmployerWithOnlyExcludedProjectIsDropped(t *testing.T) {
	doc := loadFixture(t)

	assert.Equal(t, []string{"globex", "acme", "initech"}, employerKeys(AssembleExperience(doc, Filter(doc, nil), "en", today)))
	assert.NotContains(t, employerKeys(AssembleExperience(doc, Filter(doc, []string{"p1"}), "en", today)), "initech")
}

func TestAssembleExperience_OngoingSiblingKeepsEmployerOpen(t *testing.T) {
	doc, err := ParseDocument([]byte(`
employers:
  acme: {name: Acme}
projects:
  a: {employer: acme, start: "2019-03", end: "2020-03"}
  b: {employer: acme, start: "2022-01"}
  c: {employer: acme, start: "2023-01", end: ongoing}
`))
	require.NoError(t, err)

	experience := AssembleExperience(doc, Filter(doc, nil), "en", today)

	require.Len(t, experience, 1)
	assert.Equal(t, "2019-03", experience[0].Start)
	assert.Empty(t, experience[0].End)
	assert.Equal(t, 75, *experience[0].DurationMonths)
	assert.Empty(t, experience[0].Projects[1].End)
	assert.Equal(t, 41, *experience[0].Projects[1].DurationMonths)
}

func TestAssembleExperience_SortOrder(t *testing.T) {
	doc, err := ParseDocument([]byte(`
employers:
  old: {name: Old}
  mid_late_start: {name: MidLate}
  mid_early_start: {name: MidEarly}
  nostart: {name: NoStart}
projects:
  o: {employer: old, start: "2010-01", end: "2012-01"}
  ml: {employer: mid_late_start, start: "2018-06", end: "2020-01"}
  me: {employer: mid_early_start, start: "2016-01", end: "2020-01"}
  ns: {employer: nostart, end: "2019-01"}
`))
	require.NoError(t, err)

	experience := AssembleExperience(doc, Filter(doc, nil), "en", today)

	assert.Equal(t, []string{"mid_late_start", "mid_early_start", "nostart", "old"}, employerKeys(experience))
	assert.Nil(t, experience[2].DurationMonths, "no start means no duration")
}

func TestComputeMetrics(t *testing.T) {
	doc := loadFixture(t)

	excluded := ComputeMetrics(AssembleExperience(doc, Filter(doc, []string{"p1"}), "en", today), today)
	assert.Equal(t, types.Metrics{ExperienceYears: 5, Companies: 2, Projects: 3}, excluded)

	all := ComputeMetrics(AssembleExperience(doc, Filter(doc, nil), "en", today), today)
	assert.Equal(t, types.Metrics{ExperienceYears: 10, Companies: 3, Projects: 4}, all)
}

func TestComputeMetrics_Empty(t *testing.T) {
	assert.Equal(t, types.Metrics{}, ComputeMetrics(nil, today))
}

// Per-skill usage and global metrics are separate aggregations. A project whose
// employer is not declared still counts toward skill usage but never reaches the
// experience list the metrics are computed from.
func TestUsageAndMetricsAreIndependent(t *testing.T) {
	doc, err := ParseDocument([]byte(`
employers:
  acme: {name: Acme}
projects:
  a: {employer: acme, start: "2020-01", end: "2021-01", skills: [go]}
  b: {employer: ghost, start: "2000-01", end: "2001-01", skills: [go]}
`))
	require.NoError(t, err)
	retained := Filter(doc, nil)

	stats := AggregateSkillUsage(retained, today)
	metrics := ComputeMetrics(AssembleExperience(doc, retained, "en", today), today)

	assert.Equal(t, 24, stats["go"].Months)
	assert.Equal(t, types.Metrics{ExperienceYears: 1, Companies: 1, Projects: 1}, metrics)
}
