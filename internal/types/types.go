package types

// ResumeDocument is the structured resume consumed by the scoring engine
type ResumeDocument struct {
	PersonalInfo PersonalInfo      `json:"personalInfo" yaml:"personalInfo"`
	Experience   []ExperienceEntry `json:"experience" yaml:"experience"`
	Education    []EducationEntry  `json:"education" yaml:"education"`
	Skills       []string          `json:"skills" yaml:"skills"`
	Projects     []ProjectEntry    `json:"projects" yaml:"projects"`
}

// PersonalInfo holds contact details and the professional summary
type PersonalInfo struct {
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
	Location string `json:"location" yaml:"location"`
	Website  string `json:"website,omitempty" yaml:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	Summary  string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// ExperienceEntry is one position held
type ExperienceEntry struct {
	Position     string   `json:"position" yaml:"position"`
	Company      string   `json:"company" yaml:"company"`
	StartDate    string   `json:"startDate" yaml:"startDate"`
	EndDate      string   `json:"endDate" yaml:"endDate"`
	Current      bool     `json:"current" yaml:"current"`
	Description  string   `json:"description" yaml:"description"`
	Achievements []string `json:"achievements" yaml:"achievements"`
}

// EducationEntry is one degree or programme
type EducationEntry struct {
	Institution string `json:"institution" yaml:"institution"`
	Degree      string `json:"degree" yaml:"degree"`
	Field       string `json:"field" yaml:"field"`
	StartDate   string `json:"startDate" yaml:"startDate"`
	EndDate     string `json:"endDate" yaml:"endDate"`
	GPA         string `json:"gpa,omitempty" yaml:"gpa,omitempty"`
}

// ProjectEntry is a side or portfolio project
type ProjectEntry struct {
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	Technologies []string `json:"technologies,omitempty" yaml:"technologies,omitempty"`
	Link         string   `json:"link,omitempty" yaml:"link,omitempty"`
}

// Category names a rubric dimension
type Category string

const (
	CategoryContact    Category = "contact"
	CategorySummary    Category = "summary"
	CategoryExperience Category = "experience"
	CategoryEducation  Category = "education"
	CategorySkills     Category = "skills"
	CategoryFormatting Category = "formatting"
	// CategoryGeneral is used only for findings that belong to no rubric dimension
	CategoryGeneral Category = "general"
)

// Severity ranks how urgent a finding is
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// FindingKind identifies a finding independently of its rendered message
type FindingKind string

// Feedback is a single actionable suggestion
type Feedback struct {
	Kind     FindingKind `json:"kind"`
	Category Category    `json:"category"`
	Severity Severity    `json:"severity"`
	Field    string      `json:"field,omitempty"`
	Message  string      `json:"message"`
}

// CategoryResult is the outcome of one rubric category
type CategoryResult struct {
	Category    Category   `json:"category"`
	Subscore    float64    `json:"subscore"`
	MaxSubscore float64    `json:"maxSubscore"`
	Findings    []Feedback `json:"findings"`
}

// ScoreReport is the engine output for one document
type ScoreReport struct {
	Score             int                         `json:"score"`
	Band              Band                        `json:"band"`
	CategoryBreakdown map[Category]CategoryResult `json:"categoryBreakdown"`
	Categories        []CategoryResult            `json:"categories"`
	Feedback          []Feedback                  `json:"feedback"`
}

// Band is the display banding of an aggregate score
type Band string

const (
	BandStrong    Band = "strong"
	BandGood      Band = "good"
	BandNeedsWork Band = "needs work"
	BandWeak      Band = "weak"
)

// FleetStats summarizes scores across many resumes
type FleetStats struct {
	TotalResumes int          `json:"totalResumes"`
	AverageScore int          `json:"averageScore"`
	HighScoring  int          `json:"highScoring"`
	Bands        map[Band]int `json:"bands"`
}

// ScoredResume pairs a source identifier with its report
type ScoredResume struct {
	ID     string      `json:"id"`
	Report ScoreReport `json:"report"`
}

// FleetReport is the output of a batch scoring run
type FleetReport struct {
	Stats   FleetStats     `json:"stats"`
	Resumes []ScoredResume `json:"resumes,omitempty"`
	Failed  []FailedResume `json:"failed,omitempty"`
}

// FailedResume records an input that could not be read or parsed
type FailedResume struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// ValidationReport lists shape issues found in a raw resume document
type ValidationReport struct {
	Valid  bool         `json:"valid"`
	Issues []FieldIssue `json:"issues,omitempty"`
}

// FieldIssue is a single schema violation
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
