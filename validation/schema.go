package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Schema validates decoded request documents against a JSON schema and reports
// field-keyed violations.
type Schema struct {
	schema *gojsonschema.Schema
}

// MustSchema compiles a JSON schema literal; it panics on an invalid schema.
func MustSchema(source string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Sprintf("validation: compile schema: %v", err))
	}
	return &Schema{schema: s}
}

// Validate checks doc and returns the violations found. Only the first problem per field is
// kept.
func (s *Schema) Validate(doc map[string]any) (Violations, error) {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	v := make(Violations)
	if result.Valid() {
		return v, nil
	}
	for _, re := range result.Errors() {
		field := re.Field()
		if re.Type() == "required" {
			if prop, ok := re.Details()["property"].(string); ok {
				field = prop
			}
		}
		v.Add(field, schemaCode(re.Type()))
	}
	return v, nil
}

func schemaCode(errType string) string {
	switch errType {
	case "required":
		return CodeRequired
	case "string_gte":
		return CodeBlank
	case "string_lte":
		return CodeTooLong
	case "format":
		return CodeInvalidEmail
	case "pattern":
		return CodeInvalidUsername
	default:
		return CodeInvalid
	}
}
