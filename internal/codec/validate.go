package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/capplan-go/internal/planner"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dot/bracket path to the offending field
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is the path to a JSON Schema file. When empty the built-in
	// DefaultSchema is used.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Validate checks doc against the JSON Schema, then applies the structural
// rules a schema cannot express well. If the schema file cannot be used,
// only the structural rules run and a warning says so.
func Validate(doc *planner.Document, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	schemaResult := validateWithSchema(doc, opts.SchemaPath)
	result.UsedSchema = schemaResult.UsedSchema
	result.Warnings = append(result.Warnings, schemaResult.Warnings...)
	if schemaResult.UsedSchema && !schemaResult.Valid {
		result.Valid = false
		result.Errors = append(result.Errors, schemaResult.Errors...)
		return result
	}
	if !schemaResult.UsedSchema {
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
	}

	validateNode(doc, "", result)
	return result
}

// validateNode applies the minimal structural rules recursively.
func validateNode(doc *planner.Document, path string, result *ValidationResult) {
	fail := func(field string, err error) {
		result.Valid = false
		p := field
		if path != "" {
			p = path + "." + field
		}
		result.Errors = append(result.Errors, &ValidationError{Path: p, Err: err})
	}

	if doc == nil {
		fail("activity_type", fmt.Errorf("missing document"))
		return
	}

	switch doc.ActivityType {
	case planner.KindTask, planner.KindMilestone:
		if len(doc.Activities) > 0 {
			fail("activities", fmt.Errorf("%s cannot have activities", doc.ActivityType))
		}
		base := doc.Duration
		if doc.BaseDuration != nil {
			base = *doc.BaseDuration
		}
		if math.IsNaN(base) || math.IsInf(base, 0) || base < 0 {
			fail("duration", planner.ErrInvalidDuration)
		}
		if math.IsNaN(doc.Progress) || doc.Progress < 0 || doc.Progress > 1 {
			fail("progress", fmt.Errorf("%w, got %v", planner.ErrInvalidProgress, doc.Progress))
		}
	case planner.KindSerial, planner.KindParallel:
	case planner.KindProject:
		n := len(doc.Activities)
		if n == 0 || doc.Activities[n-1] == nil || doc.Activities[n-1].ActivityType != planner.KindMilestone {
			fail("activities", fmt.Errorf("last activity of a project must be the slack milestone"))
		}
	case "":
		fail("activity_type", fmt.Errorf("missing required field"))
		return
	default:
		fail("activity_type", fmt.Errorf("%w %q", planner.ErrUnknownKind, doc.ActivityType))
		return
	}

	for i, child := range doc.Activities {
		prefix := fmt.Sprintf("activities[%d]", i)
		if path != "" {
			prefix = path + "." + prefix
		}
		validateNode(child, prefix, result)
	}
}

// validateWithSchema attempts JSON Schema validation.
func validateWithSchema(doc *planner.Document, schemaPath string) *ValidationResult {
	result := &ValidationResult{
		Valid:      true,
		Errors:     make([]error, 0),
		Warnings:   make([]string, 0),
		UsedSchema: false,
	}

	schema, warning := compileSchema(schemaPath)
	if schema == nil {
		result.Warnings = append(result.Warnings, warning)
		return result
	}
	result.UsedSchema = true

	// Marshal the document back to JSON for validation
	data, err := json.Marshal(doc)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to marshal document for validation: %w", err),
		})
		return result
	}

	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to unmarshal document for validation: %w", err),
		})
		return result
	}

	if err := schema.Validate(obj); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}

	return result
}

func compileSchema(schemaPath string) (*jsonschema.Schema, string) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if schemaPath == "" {
		if err := compiler.AddResource(DefaultSchemaURL, strings.NewReader(DefaultSchema)); err != nil {
			return nil, fmt.Sprintf("invalid built-in schema: %v", err)
		}
		schema, err := compiler.Compile(DefaultSchemaURL)
		if err != nil {
			return nil, fmt.Sprintf("invalid built-in schema: %v", err)
		}
		return schema, ""
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Sprintf("invalid schema path: %v", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Sprintf("schema file not found: %s", absPath)
		}
		return nil, fmt.Sprintf("failed to read schema file: %v", err)
	}
	schema, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Sprintf("invalid schema file: %v", err)
	}
	return schema, ""
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: fieldPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
