// Package validation checks raw job variables against the JSON schemas of
// the maturity workers before they are bound to Go types.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ==========================
// Schemas
// ==========================

var nonNegativeWeight = map[string]interface{}{
	"type":    []interface{}{"number", "null"},
	"minimum": 0,
}

var maturityLevel = map[string]interface{}{
	"type":    "integer",
	"minimum": 0,
	"maximum": 4,
}

var transformationYear = map[string]interface{}{
	"type":    "integer",
	"minimum": 1,
	"maximum": 5,
}

var scoringConfigSchema = map[string]interface{}{
	"type":     []interface{}{"object", "null"},
	"required": []interface{}{"level_thresholds"},
	"properties": map[string]interface{}{
		"level_thresholds": map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"emerging", "developing", "advanced", "consolidated"},
			"properties": map[string]interface{}{
				"emerging":     map[string]interface{}{"type": "number"},
				"developing":   map[string]interface{}{"type": "number"},
				"advanced":     map[string]interface{}{"type": "number"},
				"consolidated": map[string]interface{}{"type": "number"},
			},
		},
		"default_weights": map[string]interface{}{
			"type": []interface{}{"object", "null"},
			"properties": map[string]interface{}{
				"module":    map[string]interface{}{"type": "number", "minimum": 0},
				"indicator": map[string]interface{}{"type": "number", "minimum": 0},
			},
		},
	},
}

var indicatorSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"id", "category"},
	"properties": map[string]interface{}{
		"id":   map[string]interface{}{"type": "string", "minLength": 1},
		"name": map[string]interface{}{"type": "string"},
		"category": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"coverage", "frequency", "depth"},
		},
		"weight": nonNegativeWeight,
		"frequencyConfig": map[string]interface{}{
			"type": []interface{}{"object", "null"},
			"properties": map[string]interface{}{
				"min": map[string]interface{}{"type": []interface{}{"number", "null"}},
				"max": map[string]interface{}{"type": []interface{}{"number", "null"}},
			},
		},
		"expectedLevel": map[string]interface{}{
			"type":    []interface{}{"integer", "null"},
			"minimum": 0,
			"maximum": 4,
		},
	},
}

var responseSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"indicator_id"},
	"properties": map[string]interface{}{
		"indicator_id":    map[string]interface{}{"type": "string", "minLength": 1},
		"coverage_value":  map[string]interface{}{"type": []interface{}{"boolean", "null"}},
		"frequency_value": map[string]interface{}{"type": []interface{}{"number", "null"}},
		"depth_level": map[string]interface{}{
			"type":    []interface{}{"integer", "null"},
			"minimum": 0,
			"maximum": 4,
		},
	},
}

var assessmentInputSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"instanceId", "area", "transformationYear", "modules", "responses"},
	"properties": map[string]interface{}{
		"instanceId":         map[string]interface{}{"type": "string", "minLength": 1},
		"area":               map[string]interface{}{"type": "string", "minLength": 1},
		"templateId":         map[string]interface{}{"type": "string"},
		"transformationYear": transformationYear,
		"modules": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"name", "indicators"},
				"properties": map[string]interface{}{
					"id":         map[string]interface{}{"type": "string"},
					"name":       map[string]interface{}{"type": "string"},
					"weight":     nonNegativeWeight,
					"indicators": map[string]interface{}{"type": "array", "items": indicatorSchema},
				},
			},
		},
		"responses":     map[string]interface{}{"type": "array", "items": responseSchema},
		"scoringConfig": scoringConfigSchema,
	},
}

var summarySchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"instanceId", "area", "totalScore", "overallLevel"},
	"properties": map[string]interface{}{
		"instanceId":   map[string]interface{}{"type": "string", "minLength": 1},
		"area":         map[string]interface{}{"type": "string"},
		"totalScore":   map[string]interface{}{"type": "number"},
		"overallLevel": maturityLevel,
	},
}

var cohortInputSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"summaries": map[string]interface{}{"type": "array", "items": summarySchema},
		"instanceIds": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string", "minLength": 1},
		},
		"areas": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
	},
}

var levelInputSchema = map[string]interface{}{
	"type": "object",
	"anyOf": []interface{}{
		map[string]interface{}{"required": []interface{}{"score"}},
		map[string]interface{}{"required": []interface{}{"level"}},
	},
	"properties": map[string]interface{}{
		"score":              map[string]interface{}{"type": "number"},
		"level":              map[string]interface{}{"type": "integer"},
		"transformationYear": transformationYear,
		"scoringConfig":      scoringConfigSchema,
	},
}

var (
	assessmentSchema = mustCompile("assessment", assessmentInputSchema)
	cohortSchema     = mustCompile("cohort", cohortInputSchema)
	levelSchema      = mustCompile("level", levelInputSchema)
)

func mustCompile(name string, schemaMap map[string]interface{}) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
	if err != nil {
		panic(fmt.Sprintf("compile %s schema: %v", name, err))
	}
	return schema
}

// ==========================
// Validators
// ==========================

// ValidateAssessmentInput checks the variables of a score-assessment job.
// The returned error is set only when raw is not a JSON document.
func ValidateAssessmentInput(raw string) (*ValidationResult, error) {
	return validate(assessmentSchema, raw)
}

func ValidateCohortInput(raw string) (*ValidationResult, error) {
	return validate(cohortSchema, raw)
}

func ValidateLevelInput(raw string) (*ValidationResult, error) {
	return validate(levelSchema, raw)
}

func validate(schema *gojsonschema.Schema, raw string) (*ValidationResult, error) {
	result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   fieldOf(desc),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}

	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errs,
	}, nil
}

// fieldOf reports required-property errors against the missing property
// rather than its parent object.
func fieldOf(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() != "required" {
		return field
	}
	property, ok := desc.Details()["property"].(string)
	if !ok {
		return field
	}
	if field == "(root)" {
		return property
	}
	return field + "." + property
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field and its children.
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}
