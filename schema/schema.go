// Package schema implements the closed logical-type hierarchy of the
// columnar dataframe codec: a tagged sum type with structural equality, a
// canonical wire descriptor, and a JSON-Schema projection used to validate
// an encoded array document.
//
// Every concrete variant below mirrors one class of
// original_source/python/bson_dataframe/schema.py, translated from an
// open class hierarchy into a closed Go interface with one concrete type
// per variant, matching the "exhaustive match over visitor inheritance"
// guidance for a systems-language rewrite.
package schema

import "go.mongodb.org/mongo-driver/bson"

// Wire keys, single character to keep the document small.
const (
	KeyData   = "d"
	KeyMask   = "m"
	KeyType   = "t"
	KeyParam  = "p"
	KeyOffset = "o"
	KeyLength = "l"
	KeyName   = "n"
	KeyFields = "f"
	KeyIndex  = "i"
)

// JSONMode selects which BSON-shape projection JSONSchema renders: the raw
// BSON type assertions, the canonical MongoDB extended-JSON shapes, or the
// relaxed extended-JSON shapes. Supplements spec.md's single JSON-Schema
// requirement with the three projections original_source's SchemaTypes
// hierarchy (BSONTypes/CanonicalJSONTypes/RelaxedJSONTypes) provides.
type JSONMode int

const (
	BSONMode JSONMode = iota
	CanonicalMode
	RelaxedMode
)

// Schema is the closed set of logical-type variants. Every implementation
// lives in this package; callers never define new variants.
type Schema interface {
	// Tag is the lowercase wire type tag, e.g. "int32", "date[d]", "struct".
	Tag() string

	// ByteWidth is the fixed per-value byte width for primitive/date/
	// timestamp/time/opaque variants, or 0 for variable-width variants
	// (bytes, utf8, list, struct, dictionary).
	ByteWidth() int

	// Equal reports structural equality: same tag and every parameter
	// (units, tz, byte width, child schemas, field order) equal.
	Equal(other Schema) bool

	// EncodeDescriptor emits the canonical {t, [p]} descriptor document.
	EncodeDescriptor() bson.D

	// JSONSchema emits a JSON-Schema describing a valid canonical-JSON
	// encoding of an array document of this schema, projected under mode.
	JSONSchema(mode JSONMode) map[string]any
}

// IsSignedInteger reports whether s is one of int8/int16/int32/int64 — the
// only schemas a dictionary's index may use.
func IsSignedInteger(s Schema) bool {
	switch s.Tag() {
	case "int8", "int16", "int32", "int64":
		return true
	default:
		return false
	}
}

func constEnum(value string) map[string]any {
	return map[string]any{"enum": []any{value}}
}

func typeSchema(s Schema, mode JSONMode) map[string]any {
	arr := s.JSONSchema(mode)
	required, _ := arr["required"].([]any)
	props, _ := arr["properties"].(map[string]any)

	ret := map[string]any{
		"type":                 "object",
		"required":             []any{KeyType},
		"additionalProperties": false,
		"properties": map[string]any{
			KeyType: props[KeyType],
		},
	}

	if p, ok := props[KeyParam]; ok {
		ret["properties"].(map[string]any)[KeyParam] = p
	}
	for _, r := range required {
		if r == KeyParam {
			ret["required"] = append(ret["required"].([]any), KeyParam)
		}
	}

	return ret
}

func bsonBinaryType(mode JSONMode) map[string]any {
	switch mode {
	case CanonicalMode, RelaxedMode:
		return map[string]any{
			"type":                 "object",
			"required":             []any{"$binary"},
			"additionalProperties": false,
			"properties": map[string]any{
				"$binary": map[string]any{
					"type":                 "object",
					"required":             []any{"base64", "subType"},
					"additionalProperties": false,
					"properties": map[string]any{
						"base64":  map[string]any{"type": "string"},
						"subType": map[string]any{"const": "00"},
					},
				},
			},
		}
	default:
		return map[string]any{"bsonType": "binData"}
	}
}

func bsonInt32Type(mode JSONMode) map[string]any {
	switch mode {
	case CanonicalMode:
		return map[string]any{
			"type":                 "object",
			"required":             []any{"$numberInt"},
			"additionalProperties": false,
			"properties": map[string]any{
				"$numberInt": map[string]any{"type": "string"},
			},
		}
	case RelaxedMode:
		return map[string]any{"type": "integer"}
	default:
		return map[string]any{"bsonType": "int"}
	}
}

func bsonInt64Type(mode JSONMode) map[string]any {
	switch mode {
	case CanonicalMode:
		return map[string]any{
			"type":                 "object",
			"required":             []any{"$numberLong"},
			"additionalProperties": false,
			"properties": map[string]any{
				"$numberLong": map[string]any{"type": "string"},
			},
		}
	case RelaxedMode:
		return map[string]any{"type": "integer"}
	default:
		return map[string]any{"bsonType": "long"}
	}
}

// numericArraySchema is the shared {d, m, t} shape for every fixed-width
// primitive variant (bool/int*/uint*/float*), per schema.py's Numeric class.
func numericArraySchema(tag string, mode JSONMode) map[string]any {
	return map[string]any{
		"type":                 "object",
		"required":             []any{KeyData, KeyMask, KeyType},
		"additionalProperties": false,
		"properties": map[string]any{
			KeyData: bsonBinaryType(mode),
			KeyMask: bsonBinaryType(mode),
			KeyType: constEnum(tag),
		},
	}
}

// Primitive is every fixed-width scalar type that carries no parameter:
// bool and the signed/unsigned integer and floating variants.
type Primitive struct {
	tag   string
	width int
}

func (p *Primitive) Tag() string      { return p.tag }
func (p *Primitive) ByteWidth() int    { return p.width }
func (p *Primitive) Equal(o Schema) bool {
	other, ok := o.(*Primitive)
	return ok && other.tag == p.tag
}

func (p *Primitive) EncodeDescriptor() bson.D {
	return bson.D{{Key: KeyType, Value: p.tag}}
}

func (p *Primitive) JSONSchema(mode JSONMode) map[string]any {
	ret := numericArraySchema(p.tag, mode)
	if p.tag == "bool" {
		// bool is bit-packed on the wire in both directions (data and
		// mask), so neither buffer's byte count alone recovers the exact
		// logical length; the encoder emits an explicit l key the decoder
		// requires (wire.encodePrimitive/decodePrimitive).
		required, _ := ret["required"].([]any)
		ret["required"] = append(required, KeyLength)
		props, _ := ret["properties"].(map[string]any)
		props[KeyLength] = bsonInt64Type(mode)
	}
	return ret
}

var (
	Bool    = &Primitive{"bool", 1}
	Int8    = &Primitive{"int8", 1}
	Int16   = &Primitive{"int16", 2}
	Int32   = &Primitive{"int32", 4}
	Int64   = &Primitive{"int64", 8}
	UInt8   = &Primitive{"uint8", 1}
	UInt16  = &Primitive{"uint16", 2}
	UInt32  = &Primitive{"uint32", 4}
	UInt64  = &Primitive{"uint64", 8}
	Float16 = &Primitive{"float16", 2}
	Float32 = &Primitive{"float32", 4}
	Float64 = &Primitive{"float64", 8}
)

// Date is a 4-byte day count ("date[d]") or 8-byte millisecond count
// ("date[ms]").
type Date struct {
	unit  string
	width int
}

// NewDate validates unit ∈ {d, ms} and returns the Date schema.
func NewDate(unit string) (*Date, error) {
	switch unit {
	case "d":
		return &Date{unit: unit, width: 4}, nil
	case "ms":
		return &Date{unit: unit, width: 8}, nil
	default:
		return nil, newError("date", "construct", errUnsupportedUnit(unit))
	}
}

func (d *Date) Tag() string   { return "date[" + d.unit + "]" }
func (d *Date) ByteWidth() int { return d.width }
func (d *Date) Equal(o Schema) bool {
	other, ok := o.(*Date)
	return ok && other.unit == d.unit
}
func (d *Date) EncodeDescriptor() bson.D {
	return bson.D{{Key: KeyType, Value: d.Tag()}}
}
func (d *Date) JSONSchema(mode JSONMode) map[string]any {
	return numericArraySchema(d.Tag(), mode)
}

// Timestamp is an 8-byte count of units since the epoch, with an optional
// string timezone parameter.
type Timestamp struct {
	unit string
	tz   string
}

// NewTimestamp validates unit ∈ {s, ms, us, ns}; tz may be empty.
func NewTimestamp(unit, tz string) (*Timestamp, error) {
	switch unit {
	case "s", "ms", "us", "ns":
	default:
		return nil, newError("timestamp", "construct", errUnsupportedUnit(unit))
	}
	return &Timestamp{unit: unit, tz: tz}, nil
}

func (t *Timestamp) Tag() string   { return "timestamp[" + t.unit + "]" }
func (t *Timestamp) ByteWidth() int { return 8 }
func (t *Timestamp) TZ() string    { return t.tz }
func (t *Timestamp) Equal(o Schema) bool {
	other, ok := o.(*Timestamp)
	return ok && other.unit == t.unit && other.tz == t.tz
}
func (t *Timestamp) EncodeDescriptor() bson.D {
	if t.tz == "" {
		return bson.D{{Key: KeyType, Value: t.Tag()}}
	}
	return bson.D{{Key: KeyType, Value: t.Tag()}, {Key: KeyParam, Value: t.tz}}
}
func (t *Timestamp) JSONSchema(mode JSONMode) map[string]any {
	ret := numericArraySchema(t.Tag(), mode)
	ret["properties"].(map[string]any)[KeyParam] = map[string]any{"type": "string"}
	return ret
}

// Time is a count of units since midnight: 4-byte for s/ms, 8-byte for
// us/ns.
type Time struct {
	unit  string
	width int
}

// NewTime validates unit ∈ {s, ms, us, ns}.
func NewTime(unit string) (*Time, error) {
	switch unit {
	case "s", "ms":
		return &Time{unit: unit, width: 4}, nil
	case "us", "ns":
		return &Time{unit: unit, width: 8}, nil
	default:
		return nil, newError("time", "construct", errUnsupportedUnit(unit))
	}
}

func (t *Time) Tag() string   { return "time[" + t.unit + "]" }
func (t *Time) ByteWidth() int { return t.width }
func (t *Time) Equal(o Schema) bool {
	other, ok := o.(*Time)
	return ok && other.unit == t.unit
}
func (t *Time) EncodeDescriptor() bson.D {
	return bson.D{{Key: KeyType, Value: t.Tag()}}
}
func (t *Time) JSONSchema(mode JSONMode) map[string]any {
	return numericArraySchema(t.Tag(), mode)
}

// Opaque is a fixed-size byte string whose width is a parameter rather
// than implied by the tag.
type Opaque struct {
	width int
}

// NewOpaque validates width ∈ [1, 2^31).
func NewOpaque(width int) (*Opaque, error) {
	if width < 1 || width >= (1<<31) {
		return nil, newError("opaque", "construct", errBadByteWidth(width))
	}
	return &Opaque{width: width}, nil
}

func (o *Opaque) Tag() string   { return "opaque" }
func (o *Opaque) ByteWidth() int { return o.width }
func (o *Opaque) Equal(other Schema) bool {
	x, ok := other.(*Opaque)
	return ok && x.width == o.width
}
func (o *Opaque) EncodeDescriptor() bson.D {
	return bson.D{{Key: KeyType, Value: o.Tag()}, {Key: KeyParam, Value: int32(o.width)}}
}
func (o *Opaque) JSONSchema(mode JSONMode) map[string]any {
	return map[string]any{
		"type":                 "object",
		"required":             []any{KeyData, KeyMask, KeyType, KeyParam},
		"additionalProperties": false,
		"properties": map[string]any{
			KeyData:  bsonBinaryType(mode),
			KeyMask:  bsonBinaryType(mode),
			KeyType:  constEnum(o.Tag()),
			KeyParam: bsonInt32Type(mode),
		},
	}
}

// Binary is variable-length payload storage: bytes (arbitrary binary) or
// utf8 (values must additionally be valid UTF-8).
type Binary struct {
	utf8 bool
}

var (
	Bytes = &Binary{utf8: false}
	Utf8  = &Binary{utf8: true}
)

func (b *Binary) Tag() string {
	if b.utf8 {
		return "utf8"
	}
	return "bytes"
}
func (b *Binary) ByteWidth() int { return 0 }
func (b *Binary) IsUTF8() bool   { return b.utf8 }
func (b *Binary) Equal(other Schema) bool {
	x, ok := other.(*Binary)
	return ok && x.utf8 == b.utf8
}
func (b *Binary) EncodeDescriptor() bson.D {
	return bson.D{{Key: KeyType, Value: b.Tag()}}
}
func (b *Binary) JSONSchema(mode JSONMode) map[string]any {
	return map[string]any{
		"type":                 "object",
		"required":             []any{KeyData, KeyMask, KeyType, KeyOffset},
		"additionalProperties": false,
		"properties": map[string]any{
			KeyData:   bsonBinaryType(mode),
			KeyMask:   bsonBinaryType(mode),
			KeyType:   constEnum(b.Tag()),
			KeyOffset: bsonBinaryType(mode),
		},
	}
}

func errUnsupportedUnit(unit string) error {
	return &unsupportedUnitError{unit: unit}
}

type unsupportedUnitError struct{ unit string }

func (e *unsupportedUnitError) Error() string { return "unsupported unit " + e.unit }

func errBadByteWidth(width int) error {
	return &badByteWidthError{width: width}
}

type badByteWidthError struct{ width int }

func (e *badByteWidthError) Error() string {
	return "invalid byte width"
}
