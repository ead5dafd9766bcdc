package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"resumescore/internal/scoring"
	"resumescore/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("yaml", "any", &YAMLFormatter{})
	registry.RegisterFormatter("text", "ScoreReport", &ScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "ScoreReport", &ScoreMarkdownFormatter{})
	registry.RegisterFormatter("text", "FleetReport", &FleetTextFormatter{})
	registry.RegisterFormatter("markdown", "FleetReport", &FleetMarkdownFormatter{})
	registry.RegisterFormatter("text", "ValidationReport", &ValidationTextFormatter{})
	registry.RegisterFormatter("markdown", "ValidationReport", &ValidationMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ScoreReport:
		return "ScoreReport"
	case types.FleetReport:
		return "FleetReport"
	case types.ValidationReport:
		return "ValidationReport"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// YAMLFormatter renders any data type as YAML via its JSON shape, so field
// names match the JSON output
type YAMLFormatter struct{}

func (yf *YAMLFormatter) Format(data any) (string, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	var generic any
	if err := json.Unmarshal(jsonData, &generic); err != nil {
		return "", err
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (yf *YAMLFormatter) SupportedType() string {
	return "any"
}

// ScoreTextFormatter handles text formatting for a single score report
type ScoreTextFormatter struct{}

func (stf *ScoreTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ScoreReport)
	if !ok {
		return "", fmt.Errorf("expected ScoreReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS SCORE ===\n")
	fmt.Fprintf(&output, "Score: %d/100 (%s)\n\n", report.Score, report.Band)

	output.WriteString("=== CATEGORIES ===\n")
	for _, c := range report.Categories {
		fmt.Fprintf(&output, "%-12s %5.1f / %.0f\n", c.Category, c.Subscore, c.MaxSubscore)
	}
	output.WriteString("\n")

	if len(report.Feedback) == 0 {
		output.WriteString("No suggestions.\n")
		return output.String(), nil
	}

	output.WriteString("=== FEEDBACK ===\n")
	for i, f := range report.Feedback {
		fmt.Fprintf(&output, "%d. [%s] %s: %s\n", i+1, f.Severity, f.Category, f.Message)
	}

	return output.String(), nil
}

func (stf *ScoreTextFormatter) SupportedType() string {
	return "ScoreReport"
}

// ScoreMarkdownFormatter handles markdown formatting for a single score report
type ScoreMarkdownFormatter struct{}

func (smf *ScoreMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ScoreReport)
	if !ok {
		return "", fmt.Errorf("expected ScoreReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Score Report\n\n")
	fmt.Fprintf(&output, "**Score:** %d/100 (%s, %s)\n\n", report.Score, report.Band, scoring.BandColor(report.Band))

	output.WriteString("## Categories\n\n")
	output.WriteString("| Category | Subscore | Max |\n")
	output.WriteString("|----------|----------|-----|\n")
	for _, c := range report.Categories {
		fmt.Fprintf(&output, "| %s | %.1f | %.0f |\n", c.Category, c.Subscore, c.MaxSubscore)
	}
	output.WriteString("\n")

	if len(report.Feedback) == 0 {
		output.WriteString("## No Suggestions\n\nThe resume meets every rubric check.\n")
		return output.String(), nil
	}

	output.WriteString("## Feedback\n\n")
	for _, f := range report.Feedback {
		fmt.Fprintf(&output, "- **%s** (%s): %s\n", f.Severity, f.Category, f.Message)
	}

	return output.String(), nil
}

func (smf *ScoreMarkdownFormatter) SupportedType() string {
	return "ScoreReport"
}

// FleetTextFormatter handles text formatting for batch results
type FleetTextFormatter struct{}

func (ftf *FleetTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.FleetReport)
	if !ok {
		return "", fmt.Errorf("expected FleetReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== FLEET STATISTICS ===\n")
	fmt.Fprintf(&output, "Total resumes: %d\n", report.Stats.TotalResumes)
	fmt.Fprintf(&output, "Average score: %d\n", report.Stats.AverageScore)
	fmt.Fprintf(&output, "High scoring:  %d\n\n", report.Stats.HighScoring)

	output.WriteString("=== BANDS ===\n")
	for _, band := range bandOrder {
		fmt.Fprintf(&output, "%-10s %d\n", band, report.Stats.Bands[band])
	}

	if len(report.Resumes) > 0 {
		output.WriteString("\n=== RESUMES ===\n")
		for _, r := range report.Resumes {
			fmt.Fprintf(&output, "%3d  %-10s %s\n", r.Report.Score, r.Report.Band, r.ID)
		}
	}

	if len(report.Failed) > 0 {
		output.WriteString("\n=== FAILED ===\n")
		for _, f := range report.Failed {
			fmt.Fprintf(&output, "%s: %s\n", f.ID, f.Error)
		}
	}

	return output.String(), nil
}

func (ftf *FleetTextFormatter) SupportedType() string {
	return "FleetReport"
}

// FleetMarkdownFormatter handles markdown formatting for batch results
type FleetMarkdownFormatter struct{}

func (fmf *FleetMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.FleetReport)
	if !ok {
		return "", fmt.Errorf("expected FleetReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Fleet Statistics\n\n")
	fmt.Fprintf(&output, "- **Total resumes:** %d\n", report.Stats.TotalResumes)
	fmt.Fprintf(&output, "- **Average score:** %d\n", report.Stats.AverageScore)
	fmt.Fprintf(&output, "- **High scoring:** %d\n\n", report.Stats.HighScoring)

	output.WriteString("## Bands\n\n")
	output.WriteString("| Band | Count |\n|------|-------|\n")
	for _, band := range bandOrder {
		fmt.Fprintf(&output, "| %s | %d |\n", band, report.Stats.Bands[band])
	}

	if len(report.Resumes) > 0 {
		output.WriteString("\n## Resumes\n\n")
		output.WriteString("| Resume | Score | Band |\n|--------|-------|------|\n")
		for _, r := range report.Resumes {
			fmt.Fprintf(&output, "| %s | %d | %s |\n", r.ID, r.Report.Score, r.Report.Band)
		}
	}

	if len(report.Failed) > 0 {
		output.WriteString("\n## Failed\n\n")
		for _, f := range report.Failed {
			fmt.Fprintf(&output, "- `%s`: %s\n", f.ID, f.Error)
		}
	}

	return output.String(), nil
}

func (fmf *FleetMarkdownFormatter) SupportedType() string {
	return "FleetReport"
}

// ValidationTextFormatter handles text formatting for schema validation results
type ValidationTextFormatter struct{}

func (vtf *ValidationTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ValidationReport)
	if !ok {
		return "", fmt.Errorf("expected ValidationReport, got %T", data)
	}

	if report.Valid {
		return "Document is valid.\n", nil
	}

	var output strings.Builder
	output.WriteString("=== VALIDATION ISSUES ===\n")
	for _, issue := range report.Issues {
		fmt.Fprintf(&output, "%s: %s\n", issue.Field, issue.Message)
	}
	return output.String(), nil
}

func (vtf *ValidationTextFormatter) SupportedType() string {
	return "ValidationReport"
}

// ValidationMarkdownFormatter handles markdown formatting for schema validation results
type ValidationMarkdownFormatter struct{}

func (vmf *ValidationMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ValidationReport)
	if !ok {
		return "", fmt.Errorf("expected ValidationReport, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Resume Validation\n\n")
	if report.Valid {
		output.WriteString("The document matches the resume schema.\n")
		return output.String(), nil
	}

	output.WriteString("## Issues\n\n")
	for _, issue := range report.Issues {
		fmt.Fprintf(&output, "- `%s`: %s\n", issue.Field, issue.Message)
	}
	return output.String(), nil
}

func (vmf *ValidationMarkdownFormatter) SupportedType() string {
	return "ValidationReport"
}

var bandOrder = []types.Band{types.BandStrong, types.BandGood, types.BandNeedsWork, types.BandWeak}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
