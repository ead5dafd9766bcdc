// Package schemas checks the shape of raw resume documents against a JSON Schema.
//
// Shape problems never block scoring; they are reported so editors can fix them.
package schemas

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"resumescore/internal/types"
)

//go:embed resume.schema.json
var resumeSchema string

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load resume schema: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load resume schema: %s", e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(resumeSchema))
	if err != nil {
		return nil, &SchemaLoadError{Message: "invalid embedded schema", Cause: err}
	}
	return schema, nil
})

// ResumeSchema returns the embedded schema document
func ResumeSchema() string {
	return resumeSchema
}

// ValidateResume checks a decoded JSON value against the resume schema
func ValidateResume(raw any) (types.ValidationReport, error) {
	schema, err := compiledSchema()
	if err != nil {
		return types.ValidationReport{}, err
	}
	if raw == nil {
		return types.ValidationReport{
			Valid:  false,
			Issues: []types.FieldIssue{{Field: "(root)", Message: "Document is empty"}},
		}, nil
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return types.ValidationReport{}, fmt.Errorf("failed to validate resume document: %w", err)
	}
	return toReport(result), nil
}

// ValidateResumeJSON checks raw JSON text against the resume schema
func ValidateResumeJSON(content []byte) (types.ValidationReport, error) {
	schema, err := compiledSchema()
	if err != nil {
		return types.ValidationReport{}, err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(content))
	if err != nil {
		return types.ValidationReport{}, fmt.Errorf("failed to validate resume document: %w", err)
	}
	return toReport(result), nil
}

func toReport(result *gojsonschema.Result) types.ValidationReport {
	if result.Valid() {
		return types.ValidationReport{Valid: true}
	}

	issues := make([]types.FieldIssue, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		issues = append(issues, types.FieldIssue{
			Field:   field,
			Message: desc.Description(),
		})
	}
	slices.SortStableFunc(issues, func(a, b types.FieldIssue) int {
		return strings.Compare(a.Field, b.Field)
	})

	return types.ValidationReport{Valid: false, Issues: issues}
}
