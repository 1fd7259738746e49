package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// EntitySchema describes the entities a handler accepts. Keys absent from
// Properties are allowed unless Strict is set.
type EntitySchema struct {
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
	Strict     bool                `json:"strict,omitempty"`
}

type Property struct {
	Type          string   `json:"type"` // string, number, integer, boolean, object, array, any
	Description   string   `json:"description,omitempty"`
	Enum          []string `json:"enum,omitempty"`
	CaseSensitive bool     `json:"caseSensitive,omitempty"`
	Pattern       string   `json:"pattern,omitempty"`
	MinLength     *int     `json:"minLength,omitempty"`
	MaxLength     *int     `json:"maxLength,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const (
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeExtraField           = "EXTRA_FIELD"
	CodeInvalidType          = "INVALID_TYPE"
	CodeMinLength            = "MIN_LENGTH_VIOLATION"
	CodeMaxLength            = "MAX_LENGTH_VIOLATION"
	CodePatternMismatch      = "PATTERN_MISMATCH"
	CodeInvalidEnum          = "INVALID_ENUM_VALUE"
)

var patternCache = map[string]*regexp.Regexp{}

func compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := patternCache[pattern]; ok {
		return re, nil
	}
	return regexp.Compile(pattern)
}

// Precompile compiles every pattern in the schema so validation never fails
// on a malformed expression at query time. Call it while constructing handlers.
func Precompile(schema EntitySchema) error {
	for name, prop := range schema.Properties {
		if prop.Pattern == "" {
			continue
		}
		re, err := regexp.Compile(prop.Pattern)
		if err != nil {
			return fmt.Errorf("property %s: %w", name, err)
		}
		patternCache[prop.Pattern] = re
	}
	return nil
}

// ValidateEntities checks an entity map against schema. nil values count as absent.
func ValidateEntities(entities map[string]interface{}, schema EntitySchema) *ValidationResult {
	errs := []ValidationError{}

	for _, requiredField := range schema.Required {
		if v, exists := entities[requiredField]; !exists || v == nil {
			errs = append(errs, ValidationError{
				Field:   requiredField,
				Message: "required entity missing",
				Code:    CodeRequiredFieldMissing,
			})
		}
	}

	keys := make([]string, 0, len(entities))
	for k := range entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, fieldName := range keys {
		value := entities[fieldName]
		if value == nil {
			continue
		}
		prop, exists := schema.Properties[fieldName]
		if !exists {
			if schema.Strict {
				errs = append(errs, ValidationError{
					Field:   fieldName,
					Message: "entity not allowed",
					Code:    CodeExtraField,
				})
			}
			continue
		}
		errs = append(errs, validateField(fieldName, value, prop)...)
	}

	return &ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

func validateField(fieldName string, value interface{}, prop Property) []ValidationError {
	if err := validateType(value, prop.Type); err != nil {
		return []ValidationError{{Field: fieldName, Message: err.Error(), Code: CodeInvalidType}}
	}

	strVal, ok := value.(string)
	if !ok {
		return nil
	}

	var errs []ValidationError
	if prop.MinLength != nil && len(strVal) < *prop.MinLength {
		errs = append(errs, ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("value must be at least %d characters", *prop.MinLength),
			Code:    CodeMinLength,
		})
	}
	if prop.MaxLength != nil && len(strVal) > *prop.MaxLength {
		errs = append(errs, ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("value must be at most %d characters", *prop.MaxLength),
			Code:    CodeMaxLength,
		})
	}
	if prop.Pattern != "" {
		re, err := compile(prop.Pattern)
		if err != nil || !re.MatchString(strVal) {
			errs = append(errs, ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("value must match pattern %s", prop.Pattern),
				Code:    CodePatternMismatch,
			})
		}
	}
	if len(prop.Enum) > 0 && !inEnum(strVal, prop.Enum, prop.CaseSensitive) {
		errs = append(errs, ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("value must be one of %v", prop.Enum),
			Code:    CodeInvalidEnum,
		})
	}
	return errs
}

func inEnum(v string, enum []string, caseSensitive bool) bool {
	for _, e := range enum {
		if caseSensitive && v == e {
			return true
		}
		if !caseSensitive && strings.EqualFold(v, e) {
			return true
		}
	}
	return false
}

func validateType(value interface{}, expected string) error {
	switch expected {
	case "", "any":
		return nil
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case "number":
		switch value.(type) {
		case float64, float32, int, int32, int64, json.Number:
		default:
			return fmt.Errorf("expected number, got %T", value)
		}
	case "integer":
		switch v := value.(type) {
		case int, int32, int64:
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
		default:
			return fmt.Errorf("expected integer, got %T", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case "object":
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Errorf("expected object, got %T", value)
		}
	case "array":
		if _, ok := value.([]interface{}); !ok {
			return fmt.Errorf("expected array, got %T", value)
		}
	default:
		return fmt.Errorf("unknown schema type %q", expected)
	}
	return nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// FirstWithCode returns the first error with the given code.
func (vr *ValidationResult) FirstWithCode(code string) (ValidationError, bool) {
	for _, err := range vr.Errors {
		if err.Code == code {
			return err, true
		}
	}
	return ValidationError{}, false
}
