package validation

import (
	"fmt"
	"sort"
	"strings"

	"careerguide-workers/internal/common/errors"
	"careerguide-workers/pkg/registry"

	"github.com/xeipuuv/gojsonschema"
)

// Validator checks job variables against the input schema registered for
// each task type.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles every input schema in reg. Activities without a
// schema are skipped.
func NewValidator(reg *registry.ActivityRegistry) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(reg.Activities))}
	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
		}
		v.schemas[a.TaskType] = schema
	}
	return v, nil
}

// Has reports whether taskType has a compiled schema.
func (v *Validator) Has(taskType string) bool {
	_, ok := v.schemas[taskType]
	return ok
}

// Validate checks the raw JSON variables of a job. Unknown task types pass.
func (v *Validator) Validate(taskType, variables string) error {
	if v == nil {
		return nil
	}
	schema, ok := v.schemas[taskType]
	if !ok {
		return nil
	}
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(variables))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, "job variables could not be validated", err)
	}
	if result.Valid() {
		return nil
	}

	problems := Problems(result)
	return errors.New(errors.ErrCodeInvalidInput, "job variables failed schema validation", strings.Join(problems, "; ")).
		WithMetadata("validationErrors", problems)
}

// Problems flattens a failed result into sorted "field: description" lines.
func Problems(result *gojsonschema.Result) []string {
	out := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		out = append(out, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	sort.Strings(out)
	return out
}
