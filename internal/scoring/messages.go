package scoring

import (
	"maps"
	"strconv"
	"strings"

	"resumescore/internal/types"
)

// Finding kinds emitted by the rubric
const (
	KindNoResumeData types.FindingKind = "no_resume_data"

	KindMissingName        types.FindingKind = "missing_name"
	KindMissingEmail       types.FindingKind = "missing_email"
	KindInvalidEmail       types.FindingKind = "invalid_email"
	KindMissingPhone       types.FindingKind = "missing_phone"
	KindInvalidPhone       types.FindingKind = "invalid_phone"
	KindMissingLocation    types.FindingKind = "missing_location"
	KindMissingProfileLink types.FindingKind = "missing_profile_link"

	KindMissingSummary  types.FindingKind = "missing_summary"
	KindSummaryTooShort types.FindingKind = "summary_too_short"
	KindSummaryVerbose  types.FindingKind = "summary_too_verbose"

	KindMissingExperience types.FindingKind = "missing_experience"
	KindFewExperience     types.FindingKind = "few_experience_entries"
	KindFewAchievements   types.FindingKind = "few_achievements"
	KindUnquantified      types.FindingKind = "unquantified_achievements"
	KindWeakActionVerbs   types.FindingKind = "weak_action_verbs"

	KindMissingEducation        types.FindingKind = "missing_education"
	KindIncompleteEducation     types.FindingKind = "incomplete_education"
	KindMissingEducationDetails types.FindingKind = "missing_education_details"

	KindMissingSkills types.FindingKind = "missing_skills"
	KindFewSkills     types.FindingKind = "few_skills"

	KindEmptyResume     types.FindingKind = "empty_resume"
	KindMissingSections types.FindingKind = "missing_sections"
	KindPlaceholderText types.FindingKind = "placeholder_text"
	KindDuplicate       types.FindingKind = "duplicate_content"
	KindTooSparse       types.FindingKind = "content_too_sparse"
	KindTooLong         types.FindingKind = "content_too_long"
)

// MessageCatalog maps a finding kind to its message template.
// Templates may use {field} and {count}.
type MessageCatalog map[types.FindingKind]string

// DefaultMessages is the built-in English catalog
var DefaultMessages = MessageCatalog{
	KindNoResumeData: "No resume data was supplied",

	KindMissingName:        "Add your full name",
	KindMissingEmail:       "Add an email address",
	KindInvalidEmail:       "Fix the email address so it looks like name@domain.com",
	KindMissingPhone:       "Add a phone number",
	KindInvalidPhone:       "Fix the phone number so it includes at least 7 digits",
	KindMissingLocation:    "Add your location (city and region)",
	KindMissingProfileLink: "Add a LinkedIn profile or personal website",

	KindMissingSummary:  "Add a professional summary of 20 to 150 words",
	KindSummaryTooShort: "Expand the professional summary: {count} words is too short, aim for at least 20",
	KindSummaryVerbose:  "Shorten the professional summary: {count} words is too verbose, keep it under 150",

	KindMissingExperience: "Add at least one work experience entry",
	KindFewExperience:     "Add more relevant work experience if you have it ({count} listed)",
	KindFewAchievements:   "Add more achievement bullet points to your roles ({count} found)",
	KindUnquantified:      "Quantify at least one more achievement with a number or percentage ({count} quantified)",
	KindWeakActionVerbs:   "Start achievement lines with action verbs such as Led, Built or Improved ({count} found)",

	KindMissingEducation:        "Add your education history",
	KindIncompleteEducation:     "List both the degree and the institution for your education",
	KindMissingEducationDetails: "Add a field of study or graduation date to your education",

	KindMissingSkills: "Add a skills section listing your key skills",
	KindFewSkills:     "List more skills ({count} distinct skills found, 10 or more is ideal)",

	KindEmptyResume:     "The resume has no content yet",
	KindMissingSections: "Fill in the empty sections: {field}",
	KindPlaceholderText: "Replace the placeholder text in: {field}",
	KindDuplicate:       "Remove duplicated content in: {field}",
	KindTooSparse:       "Add more detail; the resume has only {count} words",
	KindTooLong:         "Trim the resume; {count} words is more than recruiters will read",
}

// merged returns the defaults overlaid with c
func (c MessageCatalog) merged() MessageCatalog {
	out := maps.Clone(DefaultMessages)
	maps.Copy(out, c)
	return out
}

// Render fills the template for f, falling back to the kind name
func (c MessageCatalog) Render(f finding) string {
	template, ok := c[f.kind]
	if !ok || template == "" {
		template = string(f.kind)
	}
	return strings.NewReplacer(
		"{field}", f.field,
		"{count}", strconv.Itoa(f.count),
	).Replace(template)
}
