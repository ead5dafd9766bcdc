// Package scoring evaluates a structured resume against a fixed ATS rubric.
//
// The engine is a pure function of its input: it performs no I/O, keeps no
// mutable state and may be called from any number of goroutines.
package scoring

import (
	"math"

	"resumescore/internal/types"
)

// Engine renders rubric results with a message catalog
type Engine struct {
	messages MessageCatalog
}

// Option configures an Engine
type Option func(*Engine)

// WithMessages overlays catalog on the default messages
func WithMessages(catalog MessageCatalog) Option {
	return func(e *Engine) {
		e.messages = catalog.merged()
	}
}

// NewEngine creates an engine using the default English messages unless overridden
func NewEngine(opts ...Option) *Engine {
	e := &Engine{messages: MessageCatalog{}.merged()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Score evaluates doc with the default engine
func Score(doc *types.ResumeDocument) types.ScoreReport {
	return defaultEngine.Score(doc)
}

// ScoreRaw decodes loosely-typed input and evaluates it with the default engine
func ScoreRaw(raw any) types.ScoreReport {
	return defaultEngine.ScoreRaw(raw)
}

// ScoreRaw decodes loosely-typed input and evaluates it. Shape errors are
// absorbed: whatever could be decoded is scored.
func (e *Engine) ScoreRaw(raw any) types.ScoreReport {
	doc, _ := types.DecodeResume(raw)
	return e.Score(doc)
}

// Score evaluates doc. A nil document yields the "no resume data" report.
func (e *Engine) Score(doc *types.ResumeDocument) types.ScoreReport {
	if doc == nil {
		return e.emptyReport()
	}

	report := types.ScoreReport{
		CategoryBreakdown: make(map[types.Category]types.CategoryResult, len(rubric)),
		Categories:        make([]types.CategoryResult, 0, len(rubric)),
		Feedback:          []types.Feedback{},
	}

	var total float64
	for _, c := range rubric {
		raw, findings := c.evaluate(doc)
		subscore := clamp(raw, 0, c.max)
		total += subscore

		result := types.CategoryResult{
			Category:    c.category,
			Subscore:    subscore,
			MaxSubscore: c.max,
			Findings:    make([]types.Feedback, 0, len(findings)),
		}
		for _, f := range findings {
			result.Findings = append(result.Findings, e.render(c.category, f))
		}

		report.CategoryBreakdown[c.category] = result
		report.Categories = append(report.Categories, result)
		report.Feedback = append(report.Feedback, result.Findings...)
	}

	report.Score = roundScore(total)
	report.Band = BandFor(report.Score)
	return report
}

func (e *Engine) emptyReport() types.ScoreReport {
	report := types.ScoreReport{
		Score:             0,
		Band:              types.BandWeak,
		CategoryBreakdown: make(map[types.Category]types.CategoryResult, len(rubric)),
		Categories:        make([]types.CategoryResult, 0, len(rubric)),
	}
	for _, c := range rubric {
		result := types.CategoryResult{
			Category:    c.category,
			MaxSubscore: c.max,
			Findings:    []types.Feedback{},
		}
		report.CategoryBreakdown[c.category] = result
		report.Categories = append(report.Categories, result)
	}
	report.Feedback = []types.Feedback{
		e.render(types.CategoryGeneral, finding{kind: KindNoResumeData, severity: types.SeverityCritical}),
	}
	return report
}

func (e *Engine) render(category types.Category, f finding) types.Feedback {
	return types.Feedback{
		Kind:     f.kind,
		Category: category,
		Severity: f.severity,
		Field:    f.field,
		Message:  e.messages.Render(f),
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
