package intermediate

import (
	"log/slog"
	"sort"

	"github.com/jonathan/resume-forge/internal/dates"
	"github.com/jonathan/resume-forge/internal/experience"
	"github.com/jonathan/resume-forge/internal/localize"
	"github.com/jonathan/resume-forge/internal/logfields"
	"github.com/jonathan/resume-forge/internal/types"
)

// Options selects what one expansion produces
type Options struct {
	// Language is a raw language hint; it is normalized to a two-letter code
	Language string
	// Exclude lists project ids left out of every derived section
	Exclude []string
	// Labels are UI labels resolved into the output
	Labels types.Ordered[localize.Label]
	// Environment is passed through untouched
	Environment map[string]any
}

// Assembler builds intermediate documents. It holds no state between calls.
type Assembler struct {
	Clock  dates.Clock
	Logger *slog.Logger
}

// NewAssembler creates an Assembler reading the system clock
func NewAssembler(logger *slog.Logger) *Assembler {
	return &Assembler{Clock: dates.SystemClock, Logger: logger}
}

func (a *Assembler) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// Expand resolves doc for opts.Language and computes experience, skill usage and metrics
func (a *Assembler) Expand(doc *types.CareerDocument, opts Options) (*types.IntermediateDocument, error) {
	if doc == nil {
		return nil, &ExpandError{Message: "career document is nil"}
	}

	today := a.Clock.Today()
	loc := localize.New(opts.Language)

	retained := experience.Filter(doc, opts.Exclude)
	exp := experience.AssembleExperience(doc, retained, loc.Lang(), today)

	skills := skillGroups(doc.Skills, loc)
	experience.Annotate(skills, experience.AggregateSkillUsage(retained, today))

	environment := make(map[string]any, len(opts.Environment))
	for k, v := range opts.Environment {
		environment[k] = v
	}

	out := &types.IntermediateDocument{
		Version:         types.IntermediateVersion,
		GeneratedAt:     today.String(),
		Lang:            loc.Lang(),
		Locale:          loc.Locale(),
		Environment:     environment,
		Person:          person(doc.Person, loc),
		Highlights:      loc.Texts(doc.Highlights),
		Skills:          skills,
		Languages:       languages(doc.Languages, loc),
		Experience:      exp,
		Education:       education(doc.Education, loc),
		Classes:         classes(doc.Classes, loc),
		Recommendations: recommendations(doc.Recommendations, loc),
		Awards:          loc.Texts(doc.Awards),
		Certifications:  loc.Texts(doc.Certifications),
		Publications:    loc.Texts(doc.Publications),
		Talks:           loc.Texts(doc.Talks),
		Interests:       loc.Texts(doc.Interests),
		Metrics:         experience.ComputeMetrics(exp, today),
		Labels:          localize.ResolveLabels(opts.Labels, loc.Lang()),
	}

	a.logger().Debug("expanded career document",
		logfields.Lang(out.Lang),
		logfields.Projects(len(retained)),
		logfields.Employers(len(exp)),
		logfields.Excluded(opts.Exclude),
	)
	return out, nil
}

func person(p types.Person, loc *localize.Localizer) types.PersonOut {
	return types.PersonOut{
		Name:     loc.Text(p.Name),
		Title:    loc.Text(p.Title),
		Location: loc.Text(p.Location),
		Contacts: copyStrings(p.Contacts),
		Summary:  loc.Text(p.Summary),
	}
}

func skillGroups(catalog types.SkillCatalog, loc *localize.Localizer) []types.SkillGroupOut {
	groups := make([]types.SkillGroupOut, 0, len(catalog.Groups))
	for _, g := range catalog.Groups {
		groups = append(groups, types.SkillGroupOut{
			ID:    g.ID,
			Group: loc.TextOr(g.Name, g.ID),
			Items: experience.SkillItems(catalog.Registry, g.Items, loc),
		})
	}
	return groups
}

func languages(in types.Ordered[types.SpokenLanguage], loc *localize.Localizer) []types.LanguageOut {
	out := make([]types.LanguageOut, 0, in.Len())
	for _, key := range in.Keys() {
		l, _ := in.Get(key)
		out = append(out, types.LanguageOut{Name: loc.TextOr(l.Name, key), Level: l.Level})
	}
	return out
}

// education is sorted by end year, then start year, both descending.
// Entries without a year sort last.
func education(in types.Ordered[types.Education], loc *localize.Localizer) []types.EducationOut {
	out := make([]types.EducationOut, 0, in.Len())
	for _, key := range in.Keys() {
		e, _ := in.Get(key)
		out = append(out, types.EducationOut{
			Institution: loc.Text(e.Institution),
			Degree:      loc.Text(e.Degree),
			Field:       loc.Text(e.Field),
			Start:       e.Start,
			End:         e.End,
			Location:    loc.Text(e.Location),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		ei, ej := dates.Parse(out[i].End).Year(), dates.Parse(out[j].End).Year()
		if ei != ej {
			return ei > ej
		}
		return dates.Parse(out[i].Start).Year() > dates.Parse(out[j].Start).Year()
	})
	return out
}

func classes(in []types.Class, loc *localize.Localizer) []types.ClassOut {
	out := make([]types.ClassOut, 0, len(in))
	for _, c := range in {
		out = append(out, types.ClassOut{
			Name:     loc.Text(c.Name),
			Provider: loc.Text(c.Provider),
			Year:     c.Year,
			Link:     c.Link,
		})
	}
	return out
}

func recommendations(in []types.Recommendation, loc *localize.Localizer) []types.RecommendationOut {
	out := make([]types.RecommendationOut, 0, len(in))
	for _, r := range in {
		out = append(out, types.RecommendationOut{
			Name:     loc.Text(r.Name),
			Title:    loc.Text(r.Title),
			Relation: loc.Text(r.Relation),
			Text:     loc.Text(r.Text),
			Contact:  copyStrings(r.Contact),
		})
	}
	return out
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
