package scoring

import (
	"regexp"
	"slices"
	"strings"

	"resumescore/internal/types"
)

// isBlank reports whether s has no visible content
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// normalizeToken lowercases and strips surrounding punctuation
func normalizeToken(s string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(s)), ".,!?;:()[]\"'")
}

// normalizeLine collapses whitespace and case so near-identical lines compare equal
func normalizeLine(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// bulletPrefixes are stripped from the start of free-text lines
const bulletPrefixes = "-*•·–—>+ \t"

// splitLines breaks a free-text block into non-blank, bullet-stripped lines
func splitLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), bulletPrefixes)
		if !isBlank(line) {
			lines = append(lines, line)
		}
	}
	return lines
}

// firstWord returns the normalized first word of a line
func firstWord(line string) string {
	fields := strings.Fields(strings.TrimLeft(strings.TrimSpace(line), bulletPrefixes))
	if len(fields) == 0 {
		return ""
	}
	return normalizeToken(fields[0])
}

// actionVerbs is the curated set of verbs that should lead an achievement line
var actionVerbs = map[string]bool{
	"accelerated": true, "achieved": true, "analyzed": true, "architected": true,
	"automated": true, "boosted": true, "built": true, "coached": true,
	"collaborated": true, "consolidated": true, "coordinated": true, "created": true,
	"cut": true, "decreased": true, "delivered": true, "deployed": true,
	"designed": true, "developed": true, "directed": true, "drove": true,
	"eliminated": true, "enabled": true, "engineered": true, "established": true,
	"expanded": true, "generated": true, "grew": true, "headed": true,
	"implemented": true, "improved": true, "increased": true, "initiated": true,
	"integrated": true, "introduced": true, "launched": true, "led": true,
	"managed": true, "mentored": true, "migrated": true, "modernized": true,
	"negotiated": true, "optimized": true, "orchestrated": true, "organized": true,
	"oversaw": true, "owned": true, "pioneered": true, "planned": true,
	"produced": true, "reduced": true, "refactored": true, "resolved": true,
	"revamped": true, "saved": true, "scaled": true, "secured": true,
	"shipped": true, "simplified": true, "spearheaded": true, "streamlined": true,
	"strengthened": true, "supervised": true, "trained": true, "transformed": true,
	"tripled": true, "doubled": true, "upgraded": true, "won": true, "wrote": true,
}

// isActionVerbLed reports whether a line opens with a curated action verb
func isActionVerbLed(line string) bool {
	return actionVerbs[firstWord(line)]
}

var digitPattern = regexp.MustCompile(`\d`)

// quantityUnits are words that signal a measured outcome even without digits
var quantityUnits = map[string]bool{
	"ms": true, "sec": true, "seconds": true, "minutes": true, "hours": true,
	"days": true, "weeks": true, "months": true, "years": true,
	"users": true, "customers": true, "clients": true, "requests": true,
	"transactions": true, "k": true, "m": true, "b": true,
	"thousand": true, "million": true, "millions": true, "billion": true, "billions": true,
	"x": true, "tb": true, "gb": true, "mb": true, "kb": true,
	"double": true, "doubled": true, "triple": true, "tripled": true, "half": true,
}

// isQuantified reports whether a line contains measurable impact language
func isQuantified(line string) bool {
	if digitPattern.MatchString(line) {
		return true
	}
	if strings.ContainsAny(line, "%$€£¥₹") {
		return true
	}
	for _, field := range strings.Fields(line) {
		if quantityUnits[normalizeToken(field)] {
			return true
		}
	}
	return false
}

// skillAliases maps common spellings to one canonical key
var skillAliases = map[string]string{
	"golang":     "go",
	"go lang":    "go",
	"js":         "javascript",
	"ts":         "typescript",
	"k8s":        "kubernetes",
	"react.js":   "react",
	"reactjs":    "react",
	"vue.js":     "vue",
	"vuejs":      "vue",
	"nodejs":     "node.js",
	"node":       "node.js",
	"postgres":   "postgresql",
	"psql":       "postgresql",
	"py":         "python",
	"python3":    "python",
	"aws cloud":  "aws",
	"gcp cloud":  "gcp",
	"ml":         "machine learning",
	"c sharp":    "c#",
	"csharp":     "c#",
	"dotnet":     ".net",
	"ms excel":   "excel",
	"ms office":  "microsoft office",
}

// canonicalSkill returns the comparison key for a skill, or "" for blank input
func canonicalSkill(skill string) string {
	key := strings.ToLower(strings.Join(strings.Fields(skill), " "))
	if key == "" {
		return ""
	}
	if canonical, ok := skillAliases[key]; ok {
		return canonical
	}
	return key
}

// distinctSkills returns the sorted canonical skill set and the number of duplicates dropped
func distinctSkills(skills []string) ([]string, int) {
	seen := make(map[string]bool, len(skills))
	duplicates := 0
	for _, skill := range skills {
		key := canonicalSkill(skill)
		if key == "" {
			continue
		}
		if seen[key] {
			duplicates++
			continue
		}
		seen[key] = true
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, duplicates
}

// isEligibleExperience reports whether an entry carries any scoreable content
func isEligibleExperience(entry types.ExperienceEntry) bool {
	if !isBlank(entry.Position) || !isBlank(entry.Company) || !isBlank(entry.Description) {
		return true
	}
	return slices.ContainsFunc(entry.Achievements, func(line string) bool { return !isBlank(line) })
}

// isEligibleEducation reports whether an entry carries any scoreable content
func isEligibleEducation(entry types.EducationEntry) bool {
	return !isBlank(entry.Institution) || !isBlank(entry.Degree) || !isBlank(entry.Field)
}

func eligibleExperience(entries []types.ExperienceEntry) []types.ExperienceEntry {
	var out []types.ExperienceEntry
	for _, entry := range entries {
		if isEligibleExperience(entry) {
			out = append(out, entry)
		}
	}
	return out
}

func eligibleEducation(entries []types.EducationEntry) []types.EducationEntry {
	var out []types.EducationEntry
	for _, entry := range entries {
		if isEligibleEducation(entry) {
			out = append(out, entry)
		}
	}
	return out
}

// achievementLines flattens achievement bullets and description lines of the given entries
func achievementLines(entries []types.ExperienceEntry) []string {
	var lines []string
	for _, entry := range entries {
		for _, line := range entry.Achievements {
			lines = append(lines, splitLines(line)...)
		}
		lines = append(lines, splitLines(entry.Description)...)
	}
	return lines
}

// documentWordCount counts words across every free-text field of the document
func documentWordCount(doc *types.ResumeDocument) int {
	info := doc.PersonalInfo
	total := wordCount(info.Name) + wordCount(info.Email) + wordCount(info.Phone) +
		wordCount(info.Location) + wordCount(info.Website) + wordCount(info.LinkedIn) +
		wordCount(info.Summary)

	for _, entry := range doc.Experience {
		total += wordCount(entry.Position) + wordCount(entry.Company) + wordCount(entry.Description)
		for _, line := range entry.Achievements {
			total += wordCount(line)
		}
	}
	for _, entry := range doc.Education {
		total += wordCount(entry.Institution) + wordCount(entry.Degree) + wordCount(entry.Field)
	}
	for _, skill := range doc.Skills {
		total += wordCount(skill)
	}
	for _, project := range doc.Projects {
		total += wordCount(project.Name) + wordCount(project.Description)
		for _, tech := range project.Technologies {
			total += wordCount(tech)
		}
	}
	return total
}
