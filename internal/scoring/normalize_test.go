package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resumescore/internal/types"
)

func TestIsActionVerbLed(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Led the platform migration", true},
		{"  LED the platform migration", true},
		{"- Improved p99 latency", true},
		{"• built a billing pipeline", true},
		{"Reduced, then eliminated, toil", true},
		{"Responsible for deployments", false},
		{"Was part of the team", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, isActionVerbLed(tt.line))
		})
	}
}

func TestIsQuantified(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Increased throughput by 30%", true},
		{"Saved $40k per quarter", true},
		{"Cut cloud spend by €12,000", true},
		{"Served millions of users", true},
		{"Reduced latency to 40ms", true},
		{"Doubled conversion", true},
		{"Improved team morale", false},
		{"Worked on the frontend", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, isQuantified(tt.line))
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ada@example.org", true},
		{"first.last@mail.example.co.uk", true},
		{"  padded@example.org  ", true},
		{"ada.example.org", false},
		{"ada@localhost", false},
		{"ada@@example.org", false},
		{"ada @example.org", false},
		{"@example.org", false},
		{"ada@example.", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, isValidEmail(tt.email))
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, isValidPhone("+1 (312) 555-0199"))
	assert.True(t, isValidPhone("5550199123"))
	assert.False(t, isValidPhone("555-01"))
	assert.False(t, isValidPhone("call me"))
}

func TestDistinctSkills(t *testing.T) {
	skills, duplicates := distinctSkills([]string{"Go", "golang", " Kubernetes ", "k8s", "Rust", "", "  "})
	assert.Equal(t, []string{"go", "kubernetes", "rust"}, skills)
	assert.Equal(t, 2, duplicates)

	reversed, _ := distinctSkills([]string{"Rust", "k8s", " Kubernetes ", "golang", "Go"})
	assert.Equal(t, skills, reversed)
}

func TestSplitLines(t *testing.T) {
	lines := splitLines("- Led migration\n\n  * Shipped v2  \n•   \nWrote docs")
	assert.Equal(t, []string{"Led migration", "Shipped v2", "Wrote docs"}, lines)
}

func TestAchievementLines_IncludesDescriptions(t *testing.T) {
	entries := []types.ExperienceEntry{
		{Description: "Led a team\nBuilt a thing", Achievements: []string{"Cut costs by 10%", " "}},
	}
	assert.Len(t, achievementLines(entries), 3)
}

func TestSkillCredit(t *testing.T) {
	tests := []struct {
		count int
		want  float64
	}{
		{0, 0}, {1, 4}, {2, 4}, {3, 7}, {4, 7}, {5, 10}, {9, 10}, {10, 15}, {25, 15},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, skillCredit(tt.count), "count %d", tt.count)
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		score int
		want  types.Band
	}{
		{100, types.BandStrong},
		{80, types.BandStrong},
		{79, types.BandGood},
		{60, types.BandGood},
		{59, types.BandNeedsWork},
		{40, types.BandNeedsWork},
		{39, types.BandWeak},
		{0, types.BandWeak},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.score), "score %d", tt.score)
	}
	assert.Equal(t, "green", BandColor(types.BandStrong))
	assert.Equal(t, "red", BandColor(types.BandWeak))
}

func TestMessageCatalog_Render(t *testing.T) {
	msg := DefaultMessages.Render(finding{kind: KindSummaryVerbose, count: 512})
	assert.Equal(t, "Shorten the professional summary: 512 words is too verbose, keep it under 150", msg)

	msg = DefaultMessages.Render(finding{kind: KindPlaceholderText, field: "name, email"})
	assert.Equal(t, "Replace the placeholder text in: name, email", msg)

	assert.Equal(t, "unknown_kind", MessageCatalog{}.Render(finding{kind: "unknown_kind"}))
}

func TestDefaultMessagesCoverEveryKind(t *testing.T) {
	all := []types.FindingKind{
		KindNoResumeData, KindMissingName, KindMissingEmail, KindInvalidEmail, KindMissingPhone,
		KindInvalidPhone, KindMissingLocation, KindMissingProfileLink, KindMissingSummary,
		KindSummaryTooShort, KindSummaryVerbose, KindMissingExperience, KindFewExperience,
		KindFewAchievements, KindUnquantified, KindWeakActionVerbs, KindMissingEducation,
		KindIncompleteEducation, KindMissingEducationDetails, KindMissingSkills, KindFewSkills,
		KindEmptyResume, KindMissingSections, KindPlaceholderText, KindDuplicate, KindTooSparse,
		KindTooLong,
	}
	for _, kind := range all {
		assert.NotEmpty(t, DefaultMessages[kind], "missing message for %s", kind)
	}
}
