package validate

import "fmt"

// Error reports a JSON-Schema conformance failure: the document does not
// match the shape schema.Schema.JSONSchema produces for its logical type.
type Error struct {
	Op     string
	Causes map[string]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("validate: %s: %d violation(s)", e.Op, len(e.Causes))
}
