package schema

import "go.mongodb.org/mongo-driver/bson"

// Dictionary is a dictionary-encoded ("factor"/"ordered") variant: an
// integer index schema paired with an arbitrary value schema. "ordered"
// additionally carries order semantics over the dictionary values.
type Dictionary struct {
	index   Schema
	value   Schema
	ordered bool
}

// NewDictionary validates that index is a signed integer schema.
func NewDictionary(index, value Schema, ordered bool) (*Dictionary, error) {
	if !IsSignedInteger(index) {
		return nil, newError("dictionary", "construct", errNonIntegerIndex(index.Tag()))
	}
	return &Dictionary{index: index, value: value, ordered: ordered}, nil
}

func (d *Dictionary) Index() Schema { return d.index }
func (d *Dictionary) Value() Schema { return d.value }
func (d *Dictionary) Ordered() bool { return d.ordered }

func (d *Dictionary) Tag() string {
	if d.ordered {
		return "ordered"
	}
	return "factor"
}
func (d *Dictionary) ByteWidth() int { return 0 }

func (d *Dictionary) Equal(o Schema) bool {
	other, ok := o.(*Dictionary)
	return ok && other.ordered == d.ordered &&
		other.index.Equal(d.index) && other.value.Equal(d.value)
}

func (d *Dictionary) EncodeDescriptor() bson.D {
	param := bson.D{
		{Key: KeyIndex, Value: d.index.EncodeDescriptor()},
		{Key: KeyData, Value: d.value.EncodeDescriptor()},
	}
	return bson.D{{Key: KeyType, Value: d.Tag()}, {Key: KeyParam, Value: param}}
}

func (d *Dictionary) JSONSchema(mode JSONMode) map[string]any {
	return map[string]any{
		"type":                 "object",
		"required":             []any{KeyData, KeyMask, KeyType},
		"additionalProperties": false,
		"properties": map[string]any{
			KeyMask: bsonBinaryType(mode),
			KeyType: constEnum(d.Tag()),
			KeyData: map[string]any{
				"type":                 "object",
				"required":             []any{KeyIndex, KeyData},
				"additionalProperties": false,
				"properties": map[string]any{
					KeyIndex: d.index.JSONSchema(mode),
					KeyData:  d.value.JSONSchema(mode),
				},
			},
			KeyParam: map[string]any{
				"type":                 "object",
				"required":             []any{KeyIndex, KeyData},
				"additionalProperties": false,
				"properties": map[string]any{
					KeyIndex: typeSchema(d.index, mode),
					KeyData:  typeSchema(d.value, mode),
				},
			},
		},
	}
}

// List is a variable-length sequence of a single child schema.
type List struct {
	value Schema
}

// NewList returns a list schema over value.
func NewList(value Schema) *List {
	return &List{value: value}
}

func (l *List) Value() Schema  { return l.value }
func (l *List) Tag() string    { return "list" }
func (l *List) ByteWidth() int { return 0 }

func (l *List) Equal(o Schema) bool {
	other, ok := o.(*List)
	return ok && other.value.Equal(l.value)
}

func (l *List) EncodeDescriptor() bson.D {
	return bson.D{
		{Key: KeyType, Value: l.Tag()},
		{Key: KeyParam, Value: l.value.EncodeDescriptor()},
	}
}

func (l *List) JSONSchema(mode JSONMode) map[string]any {
	return map[string]any{
		"type":                 "object",
		"required":             []any{KeyData, KeyMask, KeyType, KeyParam, KeyOffset},
		"additionalProperties": false,
		"properties": map[string]any{
			KeyData:   l.value.JSONSchema(mode),
			KeyMask:   bsonBinaryType(mode),
			KeyType:   constEnum(l.Tag()),
			KeyParam:  typeSchema(l.value, mode),
			KeyOffset: bsonBinaryType(mode),
		},
	}
}

// Field pairs a struct field's name with its child schema.
type Field struct {
	Name string
	Type Schema
}

// Struct is an ordered sequence of named child schemas; field order
// participates in equality and is preserved in the wire document.
type Struct struct {
	fields []Field
}

// NewStruct validates field names are non-empty and unique.
func NewStruct(fields []Field) (*Struct, error) {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, newError("struct", "construct", errEmptyFieldName())
		}
		if seen[f.Name] {
			return nil, newError("struct", "construct", errDuplicateFieldName(f.Name))
		}
		seen[f.Name] = true
	}
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return &Struct{fields: cp}, nil
}

func (s *Struct) Fields() []Field { return s.fields }
func (s *Struct) Tag() string     { return "struct" }
func (s *Struct) ByteWidth() int  { return 0 }

// FieldByName returns the child schema for name, or nil if absent.
func (s *Struct) FieldByName(name string) Schema {
	for _, f := range s.fields {
		if f.Name == name {
			return f.Type
		}
	}
	return nil
}

func (s *Struct) Equal(o Schema) bool {
	other, ok := o.(*Struct)
	if !ok || len(other.fields) != len(s.fields) {
		return false
	}
	for i, f := range s.fields {
		of := other.fields[i]
		if f.Name != of.Name || !f.Type.Equal(of.Type) {
			return false
		}
	}
	return true
}

func (s *Struct) EncodeDescriptor() bson.D {
	fields := make(bson.A, 0, len(s.fields))
	for _, f := range s.fields {
		child := f.Type.EncodeDescriptor()
		doc := bson.D{{Key: KeyName, Value: f.Name}}
		doc = append(doc, child...)
		fields = append(fields, doc)
	}
	return bson.D{
		{Key: KeyType, Value: s.Tag()},
		{Key: KeyParam, Value: fields},
	}
}

func (s *Struct) JSONSchema(mode JSONMode) map[string]any {
	fieldProps := map[string]any{}
	fieldRequired := make([]any, 0, len(s.fields))
	param := make([]any, 0, len(s.fields))

	for _, f := range s.fields {
		fieldRequired = append(fieldRequired, f.Name)
		fieldProps[f.Name] = f.Type.JSONSchema(mode)

		p := typeSchema(f.Type, mode)
		req, _ := p["required"].([]any)
		p["required"] = append(req, KeyName)
		props, _ := p["properties"].(map[string]any)
		props[KeyName] = constEnum(f.Name)
		param = append(param, p)
	}

	return map[string]any{
		"type":                 "object",
		"required":             []any{KeyData, KeyMask, KeyType, KeyParam},
		"additionalProperties": false,
		"properties": map[string]any{
			KeyType: constEnum(s.Tag()),
			KeyMask: bsonBinaryType(mode),
			KeyData: map[string]any{
				"type":                 "object",
				"required":             []any{KeyLength, KeyFields},
				"additionalProperties": false,
				"properties": map[string]any{
					KeyLength: bsonInt64Type(mode),
					KeyFields: map[string]any{
						"type":                 "object",
						"required":             fieldRequired,
						"additionalProperties": false,
						"properties":           fieldProps,
					},
				},
			},
			KeyParam: map[string]any{
				"type":        "array",
				"prefixItems": param,
				"minItems":    len(param),
				"maxItems":    len(param),
			},
		},
	}
}

func errNonIntegerIndex(tag string) error { return &nonIntegerIndexError{tag: tag} }

type nonIntegerIndexError struct{ tag string }

func (e *nonIntegerIndexError) Error() string {
	return "dictionary index must be a signed integer schema, got " + e.tag
}

func errEmptyFieldName() error { return errStr("struct field name must be non-empty") }
func errDuplicateFieldName(name string) error {
	return errStr("struct field name " + name + " is not unique")
}

type errStr string

func (e errStr) Error() string { return string(e) }
