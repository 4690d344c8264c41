package validate

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/colbson/colbson/array"
	"github.com/colbson/colbson/schema"
	"github.com/colbson/colbson/wire"
)

func TestValidateAcceptsEncodedPrimitive(t *testing.T) {
	data := []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}
	a, err := array.NewPrimitive(schema.Int32, data, nil, 3)
	if err != nil {
		t.Fatalf("NewPrimitive: %v", err)
	}

	enc := wire.NewEncoder(0)
	doc, err := enc.Encode(a)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	buf, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	v := NewValidator()
	if err := v.Validate(bson.Raw(buf), schema.Int32); err != nil {
		t.Errorf("expected valid document, got: %v", err)
	}
}

func TestValidateAcceptsEncodedBool(t *testing.T) {
	a, err := array.NewPrimitive(schema.Bool, []byte{1, 0, 1, 1, 0, 0, 1}, nil, 7)
	if err != nil {
		t.Fatalf("NewPrimitive: %v", err)
	}

	enc := wire.NewEncoder(0)
	doc, err := enc.Encode(a)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	buf, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	v := NewValidator()
	if err := v.Validate(bson.Raw(buf), schema.Bool); err != nil {
		t.Errorf("expected valid document for a bool array (with its l length key), got: %v", err)
	}
}

func TestValidateRejectsWrongShape(t *testing.T) {
	doc := bson.D{{Key: "t", Value: "int32"}}
	buf, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	v := NewValidator()
	if err := v.Validate(bson.Raw(buf), schema.Int32); err == nil {
		t.Error("expected validation failure for a document missing d/m")
	}
}

func TestValidateAcceptsEncodedStruct(t *testing.T) {
	x, err := array.NewPrimitive(schema.Int32, []byte{1, 0, 0, 0}, nil, 1)
	if err != nil {
		t.Fatalf("NewPrimitive: %v", err)
	}
	y, err := array.NewBinary(schema.Utf8, []byte("a"), []int32{0, 1}, nil)
	if err != nil {
		t.Fatalf("NewBinary: %v", err)
	}
	structSchema, err := schema.NewStruct([]schema.Field{
		{Name: "x", Type: schema.Int32},
		{Name: "y", Type: schema.Utf8},
	})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	s, err := array.NewStruct(structSchema, 1, []array.Array{x, y}, nil)
	if err != nil {
		t.Fatalf("NewStruct array: %v", err)
	}

	enc := wire.NewEncoder(0)
	doc, err := enc.Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	buf, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	v := NewValidator()
	if err := v.Validate(bson.Raw(buf), structSchema); err != nil {
		t.Errorf("expected valid document, got: %v", err)
	}
}
