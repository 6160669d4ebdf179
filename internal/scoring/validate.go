package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrInvalidTotal     = errors.New("INVALID_TOTAL")
	ErrInvalidCriterion = errors.New("INVALID_CRITERION")
)

// ConfigError reports why a weight configuration was rejected.
type ConfigError struct {
	Kind  error
	Field string
	Total float64
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Kind == ErrInvalidTotal {
		return fmt.Sprintf("weights must sum to %.0f (got %.1f)", TotalPoints, e.Total)
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid criterion %s: %s", e.Field, e.Msg)
	}
	return "invalid criterion: " + e.Msg
}

func (e *ConfigError) Unwrap() error {
	return e.Kind
}

// Validate checks every leaf is a finite non-negative number and that the
// leaves sum to TotalPoints within SumTolerance.
func Validate(w ScoringWeights) error {
	for _, c := range w.Criteria() {
		switch {
		case math.IsNaN(c.Points) || math.IsInf(c.Points, 0):
			return &ConfigError{Kind: ErrInvalidCriterion, Field: c.Path(), Msg: "value is not a finite number"}
		case c.Points < 0:
			return &ConfigError{Kind: ErrInvalidCriterion, Field: c.Path(), Msg: fmt.Sprintf("value %.2f is negative", c.Points)}
		}
	}

	total := w.Total()
	if math.Abs(total-TotalPoints) > SumTolerance {
		return &ConfigError{Kind: ErrInvalidTotal, Total: total}
	}
	return nil
}

// ValidateJSON checks a raw weights document against the weights schema,
// decodes it and runs Validate.
func ValidateJSON(raw []byte) (ScoringWeights, error) {
	var w ScoringWeights

	result, err := gojsonschema.Validate(weightsSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return w, &ConfigError{Kind: ErrInvalidCriterion, Msg: fmt.Sprintf("malformed document: %v", err)}
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return w, &ConfigError{
			Kind:  ErrInvalidCriterion,
			Field: schemaFieldPath(first),
			Msg:   first.Description(),
		}
	}

	if err := json.Unmarshal(raw, &w); err != nil {
		return w, &ConfigError{Kind: ErrInvalidCriterion, Msg: err.Error()}
	}
	return w, Validate(w)
}

func schemaFieldPath(re gojsonschema.ResultError) string {
	field := re.Field()
	if field == "(root)" {
		field = ""
	}
	if prop, ok := re.Details()["property"].(string); ok && prop != "" {
		if field == "" {
			return prop
		}
		return field + "." + prop
	}
	return field
}

var weightsSchemaLoader = gojsonschema.NewGoLoader(buildWeightsSchema())

func buildWeightsSchema() map[string]interface{} {
	criteria := map[Category][]string{}
	for _, c := range DefaultWeights().Criteria() {
		criteria[c.Category] = append(criteria[c.Category], c.Name)
	}

	properties := map[string]interface{}{}
	required := make([]string, 0, len(criteria))
	for _, cat := range Categories() {
		leaves := map[string]interface{}{}
		for _, name := range criteria[cat] {
			leaves[name] = map[string]interface{}{"type": "number", "minimum": 0}
		}
		properties[string(cat)] = map[string]interface{}{
			"type":                 "object",
			"properties":           leaves,
			"required":             criteria[cat],
			"additionalProperties": false,
		}
		required = append(required, string(cat))
	}

	return map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

// IsConfigError reports whether err is a rejected weight configuration.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
