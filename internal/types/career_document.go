package types

// CareerDocument is the multi-language career history supplied by the user.
// Every translatable field may be written either as plain text or as a language mapping.
type CareerDocument struct {
	Person          Person                  `yaml:"person"`
	Highlights      []Localized             `yaml:"highlights"`
	Skills          SkillCatalog            `yaml:"skills"`
	Languages       Ordered[SpokenLanguage] `yaml:"languages"`
	Contributions   Ordered[Contribution]   `yaml:"contributions"`
	Projects        Ordered[Project]        `yaml:"projects"`
	Employers       Ordered[Employer]       `yaml:"employers"`
	Education       Ordered[Education]      `yaml:"education"`
	Classes         []Class                 `yaml:"classes"`
	Recommendations []Recommendation        `yaml:"recommendations"`
	Awards          []Localized             `yaml:"awards"`
	Certifications  []Localized             `yaml:"certifications"`
	Publications    []Localized             `yaml:"publications"`
	Talks           []Localized             `yaml:"talks"`
	Interests       []Localized             `yaml:"interests"`
}

// Person holds the identity block of the document
type Person struct {
	Name     Localized         `yaml:"name"`
	Title    Localized         `yaml:"title"`
	Location Localized         `yaml:"location"`
	Summary  Localized         `yaml:"summary"`
	Contacts map[string]string `yaml:"contacts"`
}

// SkillCatalog holds the canonical skill registry and the display grouping
type SkillCatalog struct {
	Registry Ordered[SkillRegistryEntry] `yaml:"registry"`
	Groups   []SkillGroup                `yaml:"groups"`
}

// SkillRegistryEntry is the reference metadata for one skill id
type SkillRegistryEntry struct {
	Name  Localized `yaml:"name"`
	Level string    `yaml:"level"`
}

// SkillGroup is a named list of skill ids shown together
type SkillGroup struct {
	ID    string    `yaml:"id"`
	Name  Localized `yaml:"name"`
	Items []string  `yaml:"items"`
}

// SpokenLanguage is a natural language the person speaks
type SpokenLanguage struct {
	Name  Localized `yaml:"name"`
	Level string    `yaml:"level"`
}

// Contribution is an entry of the open-source contributions registry
type Contribution struct {
	Repo string    `yaml:"repo"`
	Link string    `yaml:"link"`
	Note Localized `yaml:"note"`
}

// Project is a unit of work performed for an employer
type Project struct {
	Employer         string            `yaml:"employer"`
	Type             string            `yaml:"type"`
	Name             Localized         `yaml:"name"`
	Start            string            `yaml:"start"`
	End              string            `yaml:"end"`
	Summary          Localized         `yaml:"summary"`
	Responsibilities []Localized       `yaml:"responsibilities"`
	Skills           []string          `yaml:"skills"`
	Contributions    []string          `yaml:"contributions"`
	Links            map[string]string `yaml:"links"`
}

// ProjectRef pairs a project with the id it is keyed by
type ProjectRef struct {
	ID string
	Project
}

// Employer is an organization projects are grouped under
type Employer struct {
	Name     Localized `yaml:"name"`
	Location Localized `yaml:"location"`
	URL      string    `yaml:"url"`
	Roles    []Role    `yaml:"roles"`
}

// Role is a job title held at an employer
type Role struct {
	Title Localized `yaml:"title"`
}

// Education is a degree or program entry
type Education struct {
	Institution Localized `yaml:"institution"`
	Degree      Localized `yaml:"degree"`
	Field       Localized `yaml:"field"`
	Location    Localized `yaml:"location"`
	Start       string    `yaml:"start"`
	End         string    `yaml:"end"`
}

// Class is a course or training entry
type Class struct {
	Name     Localized `yaml:"name"`
	Provider Localized `yaml:"provider"`
	Year     string    `yaml:"year"`
	Link     string    `yaml:"link"`
}

// Recommendation is a quote from a former colleague
type Recommendation struct {
	Name     Localized         `yaml:"name"`
	Title    Localized         `yaml:"title"`
	Relation Localized         `yaml:"relation"`
	Text     Localized         `yaml:"text"`
	Contact  map[string]string `yaml:"contact"`
}
