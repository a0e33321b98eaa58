// Package schemas validates LLM replies against the documented response
// schema. Validation is diagnostic only: the parser's defensive coercion
// decides what gets stored, while schema deviations are surfaced in
// verbose output so prompt regressions are visible.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed matching_result.schema.json
var matchingResultSchema string

// FieldError is a single schema deviation at a specific field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates schema deviations for one reply
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("reply deviates from the response schema:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateReply checks a recovered JSON reply against the matching-result
// schema. Returns nil when the reply conforms, *ValidationError listing
// field-level deviations when it does not, and a plain error when the
// reply is not valid JSON at all.
func ValidateReply(jsonText string) error {
	schemaLoader := gojsonschema.NewStringLoader(matchingResultSchema)
	documentLoader := gojsonschema.NewStringLoader(jsonText)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate reply: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
