package extract

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// paramPattern matches "Name: Value" and "Name = Value" lines. The name side
// allows word characters, spaces and a few symbols common in technical labels.
var paramPattern = regexp.MustCompile(
	`(?m)^\s*([A-Za-z][\w .()/%°-]{0,60}?)\s*[:=]\s*(\S[^\r\n]{0,120}?)\s*$`)

// valueUnitPattern splits a numeric value from a trailing unit, e.g.
// "12.5 mm", "240V", "3,200 rpm".
var valueUnitPattern = regexp.MustCompile(
	`^([-+]?[\d,]+(?:\.\d+)?)\s*([A-Za-zµΩ°%/][\w°%/²³·-]*)?$`)

// ParameterExtractor pulls name/value pairs out of document text.
type ParameterExtractor struct {
	minConfidence float64
}

// NewParameterExtractor creates a parameter extractor. Candidates scoring
// below minConfidence are dropped.
func NewParameterExtractor(minConfidence float64) *ParameterExtractor {
	return &ParameterExtractor{minConfidence: minConfidence}
}

// Extract scans page text for parameter lines. pageNum is recorded on every
// extracted parameter.
func (e *ParameterExtractor) Extract(text string, pageNum int) []ExtractedParameter {
	// NFKC folds typographic variants (fullwidth digits, unit ligatures)
	// into their plain forms before matching.
	text = norm.NFKC.String(text)

	matches := paramPattern.FindAllStringSubmatch(text, -1)
	params := make([]ExtractedParameter, 0, len(matches))

	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		rawValue := strings.TrimSpace(m[2])
		if name == "" || rawValue == "" {
			continue
		}

		value, unit := splitValueUnit(rawValue)
		confidence := e.score(name, value, unit)
		if confidence < e.minConfidence {
			continue
		}

		params = append(params, ExtractedParameter{
			ID:         uuid.NewString(),
			Name:       name,
			Value:      value,
			Unit:       unit,
			PageNumber: pageNum,
			Confidence: confidence,
			Validation: confidenceStatus(confidence),
			Method:     MethodTextLayer,
		})
	}

	return params
}

// splitValueUnit separates a numeric value from its unit. Values that are not
// numeric are returned whole, with no unit.
func splitValueUnit(raw string) (value, unit string) {
	if m := valueUnitPattern.FindStringSubmatch(raw); m != nil {
		return m[1], m[2]
	}
	return raw, ""
}

// score rates how much a match looks like a real parameter. Numeric values
// with units score highest; long prose-like values are penalized.
func (e *ParameterExtractor) score(name, value, unit string) float64 {
	confidence := 0.5

	if isNumericCell(value) {
		confidence += 0.2
		if unit != "" {
			confidence += 0.2
		}
	}

	words := len(strings.Fields(value))
	switch {
	case words > 8:
		confidence -= 0.3
	case words > 4:
		confidence -= 0.15
	}

	if len(name) <= 3 {
		confidence -= 0.1
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}
