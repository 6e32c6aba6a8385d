package types

// IntermediateVersion is the version stamped on every intermediate document
const IntermediateVersion = 1

// IntermediateDocument is the normalized, language-resolved structure handed to the template stage
type IntermediateDocument struct {
	Version         int                 `json:"version" yaml:"version"`
	GeneratedAt     string              `json:"generated_at" yaml:"generated_at"`
	Lang            string              `json:"lang" yaml:"lang"`
	Locale          string              `json:"locale" yaml:"locale"`
	Environment     map[string]any      `json:"environment" yaml:"environment"`
	Person          PersonOut           `json:"person" yaml:"person"`
	Highlights      []string            `json:"highlights" yaml:"highlights"`
	Skills          []SkillGroupOut     `json:"skills" yaml:"skills"`
	Languages       []LanguageOut       `json:"languages" yaml:"languages"`
	Experience      []ExperienceEntry   `json:"experience" yaml:"experience"`
	Education       []EducationOut      `json:"education" yaml:"education"`
	Classes         []ClassOut          `json:"classes" yaml:"classes"`
	Recommendations []RecommendationOut `json:"recommendations" yaml:"recommendations"`
	Awards          []string            `json:"awards" yaml:"awards"`
	Certifications  []string            `json:"certifications" yaml:"certifications"`
	Publications    []string            `json:"publications" yaml:"publications"`
	Talks           []string            `json:"talks" yaml:"talks"`
	Interests       []string            `json:"interests" yaml:"interests"`
	Metrics         Metrics             `json:"metrics" yaml:"metrics"`
	Labels          map[string]any      `json:"labels" yaml:"labels"`
}

// PersonOut is the resolved person block
type PersonOut struct {
	Name     string            `json:"name" yaml:"name"`
	Title    string            `json:"title" yaml:"title"`
	Location string            `json:"location" yaml:"location"`
	Contacts map[string]string `json:"contacts" yaml:"contacts"`
	Summary  string            `json:"summary" yaml:"summary"`
}

// SkillGroupOut is a resolved skill group
type SkillGroupOut struct {
	ID    string      `json:"id" yaml:"id"`
	Group string      `json:"group" yaml:"group"`
	Items []SkillItem `json:"items" yaml:"items"`
}

// SkillItem is one skill with its usage annotation.
// Months, Years, FirstUsed and LastUsed are only set on skill group items.
type SkillItem struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Level     string  `json:"level,omitempty" yaml:"level,omitempty"`
	Highlight bool    `json:"highlight" yaml:"highlight"`
	Months    int     `json:"months" yaml:"months"`
	Years     float64 `json:"years" yaml:"years"`
	FirstUsed string  `json:"first_used,omitempty" yaml:"first_used,omitempty"`
	LastUsed  string  `json:"last_used,omitempty" yaml:"last_used,omitempty"`
}

// LanguageOut is a resolved spoken language
type LanguageOut struct {
	Name  string `json:"name" yaml:"name"`
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

// ExperienceEntry is one employer roll-up of its retained projects
type ExperienceEntry struct {
	EmployerKey    string         `json:"employer_key" yaml:"employer_key"`
	Employer       string         `json:"employer" yaml:"employer"`
	Location       string         `json:"location,omitempty" yaml:"location,omitempty"`
	URL            string         `json:"url,omitempty" yaml:"url,omitempty"`
	Role           string         `json:"role,omitempty" yaml:"role,omitempty"`
	Start          string         `json:"start,omitempty" yaml:"start,omitempty"`
	End            string         `json:"end,omitempty" yaml:"end,omitempty"`
	DurationMonths *int           `json:"duration_months" yaml:"duration_months"`
	Keywords       []string       `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Projects       []ProjectEntry `json:"projects" yaml:"projects"`
}

// ProjectEntry is a resolved project inside an experience entry
type ProjectEntry struct {
	ID               string            `json:"id" yaml:"id"`
	Name             string            `json:"name" yaml:"name"`
	Type             string            `json:"type" yaml:"type"`
	Start            string            `json:"start,omitempty" yaml:"start,omitempty"`
	End              string            `json:"end,omitempty" yaml:"end,omitempty"`
	DurationMonths   *int              `json:"duration_months" yaml:"duration_months"`
	Summary          string            `json:"summary,omitempty" yaml:"summary,omitempty"`
	Responsibilities []string          `json:"responsibilities" yaml:"responsibilities"`
	Skills           []SkillItem       `json:"skills" yaml:"skills"`
	Links            map[string]string `json:"links" yaml:"links"`
	Contributions    []ContributionOut `json:"contributions" yaml:"contributions"`
}

// ContributionOut is a resolved contribution reference
type ContributionOut struct {
	Repo string `json:"repo,omitempty" yaml:"repo,omitempty"`
	Link string `json:"link,omitempty" yaml:"link,omitempty"`
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// EducationOut is a resolved education entry
type EducationOut struct {
	Institution string `json:"institution" yaml:"institution"`
	Degree      string `json:"degree,omitempty" yaml:"degree,omitempty"`
	Field       string `json:"field,omitempty" yaml:"field,omitempty"`
	Start       string `json:"start,omitempty" yaml:"start,omitempty"`
	End         string `json:"end,omitempty" yaml:"end,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
}

// ClassOut is a resolved class entry
type ClassOut struct {
	Name     string `json:"name" yaml:"name"`
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Year     string `json:"year,omitempty" yaml:"year,omitempty"`
	Link     string `json:"link,omitempty" yaml:"link,omitempty"`
}

// RecommendationOut is a resolved recommendation
type RecommendationOut struct {
	Name     string            `json:"name" yaml:"name"`
	Title    string            `json:"title,omitempty" yaml:"title,omitempty"`
	Relation string            `json:"relation,omitempty" yaml:"relation,omitempty"`
	Text     string            `json:"text" yaml:"text"`
	Contact  map[string]string `json:"contact" yaml:"contact"`
}

// Metrics are aggregate figures derived from the assembled experience
type Metrics struct {
	ExperienceYears int `json:"experience_years" yaml:"experience_years"`
	Companies       int `json:"companies" yaml:"companies"`
	Projects        int `json:"projects" yaml:"projects"`
}
