// Package validate checks a wire document's shape against the JSON-Schema
// github.com/colbson/colbson/schema.Schema.JSONSchema derives for its
// logical type, a boundary-layer safety net that never inspects array
// payloads semantically. Compiled and evaluated with
// github.com/kaptinlin/jsonschema.
package validate

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/kaptinlin/jsonschema"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/colbson/colbson/schema"
)

// Validator compiles the JSON-Schema of the logical type it is asked to
// validate against on every call; compiled schemas are not cached.
type Validator struct {
	compiler *jsonschema.Compiler
}

// NewValidator returns a Validator with a fresh schema compiler.
func NewValidator() *Validator {
	return &Validator{compiler: jsonschema.NewCompiler()}
}

// Validate converts doc to canonical extended JSON and asserts it against
// s.JSONSchema(schema.CanonicalMode).
func (v *Validator) Validate(doc bson.Raw, s schema.Schema) error {
	return v.validate(doc, s, schema.CanonicalMode, true)
}

// ValidateRelaxed is Validate using the relaxed extended-JSON projection,
// useful when the document originates from a JSON-native source rather
// than a BSON driver.
func (v *Validator) ValidateRelaxed(doc bson.Raw, s schema.Schema) error {
	return v.validate(doc, s, schema.RelaxedMode, false)
}

func (v *Validator) validate(doc bson.Raw, s schema.Schema, mode schema.JSONMode, canonical bool) error {
	extJSON, err := bson.MarshalExtJSON(doc, canonical, false)
	if err != nil {
		return fmt.Errorf("validate: converting to extended JSON: %w", err)
	}

	schemaBytes, err := json.Marshal(s.JSONSchema(mode))
	if err != nil {
		return fmt.Errorf("validate: marshaling generated json-schema: %w", err)
	}

	compiled, err := v.compiler.Compile(schemaBytes)
	if err != nil {
		return fmt.Errorf("validate: compiling generated json-schema: %w", err)
	}

	var instance any
	if err := json.Unmarshal(extJSON, &instance); err != nil {
		return fmt.Errorf("validate: decoding extended JSON: %w", err)
	}

	result := compiled.Validate(instance)
	if !result.IsValid() {
		causes := make(map[string]string, len(result.Errors))
		for path, cause := range result.Errors {
			causes[path] = cause.Error()
		}
		return &Error{Op: s.Tag(), Causes: causes}
	}
	return nil
}
