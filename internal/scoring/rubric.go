package scoring

import (
	"math"
	"regexp"
	"strings"

	"resumescore/internal/types"
)

// finding is an unrendered feedback item produced by an evaluator
type finding struct {
	kind     types.FindingKind
	severity types.Severity
	field    string
	count    int
}

// evaluator scores one category; the engine clamps the result to the category maximum
type evaluator func(doc *types.ResumeDocument) (float64, []finding)

// criterion is one row of the rubric table
type criterion struct {
	category types.Category
	max      float64
	evaluate evaluator
}

// rubric partitions the 100 point budget across categories, in report order
var rubric = []criterion{
	{category: types.CategoryContact, max: 20, evaluate: evaluateContact},
	{category: types.CategorySummary, max: 15, evaluate: evaluateSummary},
	{category: types.CategoryExperience, max: 30, evaluate: evaluateExperience},
	{category: types.CategoryEducation, max: 10, evaluate: evaluateEducation},
	{category: types.CategorySkills, max: 15, evaluate: evaluateSkills},
	{category: types.CategoryFormatting, max: 10, evaluate: evaluateFormatting},
}

// CategorySpec describes a rubric category and its share of the total
type CategorySpec struct {
	Category types.Category `json:"category"`
	Max      float64        `json:"max"`
}

// Rubric returns the categories in evaluation order
func Rubric() []CategorySpec {
	specs := make([]CategorySpec, 0, len(rubric))
	for _, c := range rubric {
		specs = append(specs, CategorySpec{Category: c.category, Max: c.max})
	}
	return specs
}

// Contact weights
const (
	nameCredit         = 5.0
	emailCredit        = 5.0
	invalidEmailCredit = 2.0
	phoneCredit        = 4.0
	invalidPhoneCredit = 2.0
	locationCredit     = 4.0
	profileLinkCredit  = 2.0
	minPhoneDigits     = 7
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s.]+(\.[^@\s.]+)+$`)

func isValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func isValidPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= minPhoneDigits
}

func evaluateContact(doc *types.ResumeDocument) (float64, []finding) {
	info := doc.PersonalInfo
	var score float64
	var findings []finding

	if isBlank(info.Name) {
		findings = append(findings, finding{kind: KindMissingName, severity: types.SeverityCritical, field: "name"})
	} else {
		score += nameCredit
	}

	switch {
	case isBlank(info.Email):
		findings = append(findings, finding{kind: KindMissingEmail, severity: types.SeverityCritical, field: "email"})
	case !isValidEmail(info.Email):
		score += invalidEmailCredit
		findings = append(findings, finding{kind: KindInvalidEmail, severity: types.SeverityWarning, field: "email"})
	default:
		score += emailCredit
	}

	switch {
	case isBlank(info.Phone):
		findings = append(findings, finding{kind: KindMissingPhone, severity: types.SeverityCritical, field: "phone"})
	case !isValidPhone(info.Phone):
		score += invalidPhoneCredit
		findings = append(findings, finding{kind: KindInvalidPhone, severity: types.SeverityWarning, field: "phone"})
	default:
		score += phoneCredit
	}

	if isBlank(info.Location) {
		findings = append(findings, finding{kind: KindMissingLocation, severity: types.SeverityCritical, field: "location"})
	} else {
		score += locationCredit
	}

	if isBlank(info.LinkedIn) && isBlank(info.Website) {
		findings = append(findings, finding{kind: KindMissingProfileLink, severity: types.SeverityInfo, field: "linkedin"})
	} else {
		score += profileLinkCredit
	}

	return score, findings
}

// Summary length band, in words
const (
	summaryMinWords      = 20
	summaryMaxWords      = 150
	summaryFullCredit    = 15.0
	summaryShortCredit   = 6.0
	summaryVerboseCredit = 9.0
)

func evaluateSummary(doc *types.ResumeDocument) (float64, []finding) {
	words := wordCount(doc.PersonalInfo.Summary)
	switch {
	case words == 0:
		return 0, []finding{{kind: KindMissingSummary, severity: types.SeverityCritical, field: "summary"}}
	case words < summaryMinWords:
		return summaryShortCredit, []finding{{kind: KindSummaryTooShort, severity: types.SeverityWarning, field: "summary", count: words}}
	case words > summaryMaxWords:
		return summaryVerboseCredit, []finding{{kind: KindSummaryVerbose, severity: types.SeverityWarning, field: "summary", count: words}}
	default:
		return summaryFullCredit, nil
	}
}

// Experience sub-check weights and saturation targets
const (
	achievementLinesCredit = 6.0
	achievementLinesTarget = 6
	quantifiedCredit       = 8.0
	quantifiedTarget       = 2
	actionVerbCredit       = 6.0
	actionVerbTarget       = 3
	experienceEntriesFull  = 3
)

// entryCredit has diminishing returns past the third entry
var entryCredit = []float64{0, 4, 7, 10}

// saturating returns credit*min(n,target)/target
func saturating(credit float64, n, target int) float64 {
	return credit * float64(min(n, target)) / float64(target)
}

func evaluateExperience(doc *types.ResumeDocument) (float64, []finding) {
	entries := eligibleExperience(doc.Experience)
	if len(entries) == 0 {
		return 0, []finding{{kind: KindMissingExperience, severity: types.SeverityCritical, field: "experience"}}
	}

	var findings []finding
	score := entryCredit[min(len(entries), experienceEntriesFull)]
	if len(entries) < experienceEntriesFull {
		findings = append(findings, finding{kind: KindFewExperience, severity: types.SeverityInfo, field: "experience", count: len(entries)})
	}

	lines := achievementLines(entries)
	quantified, verbLed := 0, 0
	for _, line := range lines {
		if isQuantified(line) {
			quantified++
		}
		if isActionVerbLed(line) {
			verbLed++
		}
	}

	score += saturating(achievementLinesCredit, len(lines), achievementLinesTarget)
	if len(lines) < achievementLinesTarget {
		findings = append(findings, finding{kind: KindFewAchievements, severity: types.SeverityInfo, field: "achievements", count: len(lines)})
	}

	score += saturating(quantifiedCredit, quantified, quantifiedTarget)
	if quantified < quantifiedTarget {
		findings = append(findings, finding{kind: KindUnquantified, severity: types.SeverityWarning, field: "achievements", count: quantified})
	}

	score += saturating(actionVerbCredit, verbLed, actionVerbTarget)
	if verbLed < actionVerbTarget {
		findings = append(findings, finding{kind: KindWeakActionVerbs, severity: types.SeverityInfo, field: "achievements", count: verbLed})
	}

	return score, findings
}

// Education weights
const (
	educationPresenceCredit = 5.0
	educationCoreCredit     = 3.0
	educationDetailCredit   = 2.0
)

func evaluateEducation(doc *types.ResumeDocument) (float64, []finding) {
	entries := eligibleEducation(doc.Education)
	if len(entries) == 0 {
		return 0, []finding{{kind: KindMissingEducation, severity: types.SeverityCritical, field: "education"}}
	}

	score := educationPresenceCredit
	var findings []finding

	hasCore, hasDetail := false, false
	for _, entry := range entries {
		if !isBlank(entry.Degree) && !isBlank(entry.Institution) {
			hasCore = true
		}
		if !isBlank(entry.Field) || !isBlank(entry.EndDate) {
			hasDetail = true
		}
	}

	if hasCore {
		score += educationCoreCredit
	} else {
		findings = append(findings, finding{kind: KindIncompleteEducation, severity: types.SeverityWarning, field: "education"})
	}
	if hasDetail {
		score += educationDetailCredit
	} else {
		findings = append(findings, finding{kind: KindMissingEducationDetails, severity: types.SeverityInfo, field: "education"})
	}

	return score, findings
}

// skillBuckets maps a minimum distinct-skill count to its credit, highest first
var skillBuckets = []struct {
	min    int
	credit float64
}{
	{min: 10, credit: 15},
	{min: 5, credit: 10},
	{min: 3, credit: 7},
	{min: 1, credit: 4},
}

func skillCredit(count int) float64 {
	for _, bucket := range skillBuckets {
		if count >= bucket.min {
			return bucket.credit
		}
	}
	return 0
}

func evaluateSkills(doc *types.ResumeDocument) (float64, []finding) {
	skills, _ := distinctSkills(doc.Skills)
	if len(skills) == 0 {
		return 0, []finding{{kind: KindMissingSkills, severity: types.SeverityCritical, field: "skills"}}
	}

	score := skillCredit(len(skills))
	if len(skills) < skillBuckets[0].min {
		return score, []finding{{kind: KindFewSkills, severity: types.SeverityInfo, field: "skills", count: len(skills)}}
	}
	return score, nil
}

// Formatting weights and length band, in words
const (
	sectionCredit      = 1.0
	placeholderCredit  = 2.0
	duplicateCredit    = 2.0
	lengthCredit       = 2.0
	excessLengthCredit = 1.0
	minDocumentWords   = 50
	maxDocumentWords   = 1200
)

// placeholderValues are the sample values shown by resume editing forms
var placeholderValues = map[string]bool{
	"john doe":                true,
	"jane doe":                true,
	"john@example.com":        true,
	"jane@example.com":        true,
	"+1 (555) 123-4567":       true,
	"new york, ny":            true,
	"linkedin.com/in/johndoe": true,
	"johndoe.com":             true,
}

func isPlaceholder(value string) bool {
	if isBlank(value) {
		return false
	}
	normalized := normalizeLine(value)
	return placeholderValues[normalized] || strings.Contains(normalized, "lorem ipsum")
}

func evaluateFormatting(doc *types.ResumeDocument) (float64, []finding) {
	words := documentWordCount(doc)
	if words == 0 {
		return 0, []finding{{kind: KindEmptyResume, severity: types.SeverityCritical}}
	}

	var score float64
	var findings []finding

	if missing := missingSections(doc); len(missing) > 0 {
		score += sectionCredit * float64(4-len(missing))
		findings = append(findings, finding{kind: KindMissingSections, severity: types.SeverityInfo, field: strings.Join(missing, ", "), count: len(missing)})
	} else {
		score += 4 * sectionCredit
	}

	if fields := placeholderFields(doc); len(fields) > 0 {
		findings = append(findings, finding{kind: KindPlaceholderText, severity: types.SeverityWarning, field: strings.Join(fields, ", "), count: len(fields)})
	} else {
		score += placeholderCredit
	}

	if sections := duplicatedSections(doc); len(sections) > 0 {
		findings = append(findings, finding{kind: KindDuplicate, severity: types.SeverityWarning, field: strings.Join(sections, ", "), count: len(sections)})
	} else {
		score += duplicateCredit
	}

	switch {
	case words < minDocumentWords:
		score += lengthCredit * float64(words) / minDocumentWords
		findings = append(findings, finding{kind: KindTooSparse, severity: types.SeverityInfo, count: words})
	case words > maxDocumentWords:
		score += excessLengthCredit
		findings = append(findings, finding{kind: KindTooLong, severity: types.SeverityWarning, count: words})
	default:
		score += lengthCredit
	}

	return score, findings
}

// missingSections lists the core sections with no eligible content
func missingSections(doc *types.ResumeDocument) []string {
	var missing []string
	if isBlank(doc.PersonalInfo.Summary) {
		missing = append(missing, "summary")
	}
	if len(eligibleExperience(doc.Experience)) == 0 {
		missing = append(missing, "experience")
	}
	if len(eligibleEducation(doc.Education)) == 0 {
		missing = append(missing, "education")
	}
	if skills, _ := distinctSkills(doc.Skills); len(skills) == 0 {
		missing = append(missing, "skills")
	}
	return missing
}

// placeholderFields lists the fields still holding form sample text
func placeholderFields(doc *types.ResumeDocument) []string {
	info := doc.PersonalInfo
	candidates := []struct {
		field string
		value string
	}{
		{"name", info.Name},
		{"email", info.Email},
		{"phone", info.Phone},
		{"location", info.Location},
		{"website", info.Website},
		{"linkedin", info.LinkedIn},
		{"summary", info.Summary},
	}

	var fields []string
	for _, c := range candidates {
		if isPlaceholder(c.value) {
			fields = append(fields, c.field)
		}
	}

	for _, entry := range doc.Experience {
		if isPlaceholder(entry.Description) || anyPlaceholder(entry.Achievements) {
			fields = append(fields, "experience")
			break
		}
	}
	for _, project := range doc.Projects {
		if isPlaceholder(project.Description) {
			fields = append(fields, "projects")
			break
		}
	}
	return fields
}

func anyPlaceholder(values []string) bool {
	for _, v := range values {
		if isPlaceholder(v) {
			return true
		}
	}
	return false
}

// duplicatedSections lists sections containing repeated entries or lines
func duplicatedSections(doc *types.ResumeDocument) []string {
	var sections []string

	seenEntries := make(map[string]bool)
	seenLines := make(map[string]bool)
	duplicateExperience := false
	for _, entry := range doc.Experience {
		if !isBlank(entry.Position) && !isBlank(entry.Company) {
			key := normalizeLine(entry.Position) + "|" + normalizeLine(entry.Company) + "|" + normalizeLine(entry.StartDate)
			if seenEntries[key] {
				duplicateExperience = true
			}
			seenEntries[key] = true
		}
		for _, line := range achievementLines([]types.ExperienceEntry{entry}) {
			key := normalizeLine(line)
			if seenLines[key] {
				duplicateExperience = true
			}
			seenLines[key] = true
		}
	}
	if duplicateExperience {
		sections = append(sections, "experience")
	}

	if _, duplicates := distinctSkills(doc.Skills); duplicates > 0 {
		sections = append(sections, "skills")
	}

	seenProjects := make(map[string]bool)
	for _, project := range doc.Projects {
		if isBlank(project.Name) {
			continue
		}
		key := normalizeLine(project.Name)
		if seenProjects[key] {
			sections = append(sections, "projects")
			break
		}
		seenProjects[key] = true
	}

	return sections
}

// roundScore rounds the summed subscores once and clamps into [0, 100]
func roundScore(total float64) int {
	return int(math.Max(0, math.Min(100, math.Round(total))))
}
