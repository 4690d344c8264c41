package schema

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func roundTrip(t *testing.T, s Schema) Schema {
	t.Helper()
	doc := s.EncodeDescriptor()

	buf, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal descriptor: %v", err)
	}

	got, err := DecodeDescriptor(bson.Raw(buf))
	if err != nil {
		t.Fatalf("DecodeDescriptor: %v", err)
	}
	if !got.Equal(s) {
		t.Fatalf("round trip mismatch: got %#v, want %#v", got, s)
	}
	return got
}

func TestRoundTripPrimitives(t *testing.T) {
	for _, p := range []Schema{
		Bool, Int8, Int16, Int32, Int64,
		UInt8, UInt16, UInt32, UInt64,
		Float16, Float32, Float64,
		Bytes, Utf8,
	} {
		roundTrip(t, p)
	}
}

func TestRoundTripDate(t *testing.T) {
	for _, unit := range []string{"d", "ms"} {
		d, err := NewDate(unit)
		if err != nil {
			t.Fatalf("NewDate(%q): %v", unit, err)
		}
		roundTrip(t, d)
	}
	if _, err := NewDate("us"); err == nil {
		t.Error("expected error for unsupported date unit")
	}
}

func TestRoundTripTimestamp(t *testing.T) {
	for _, unit := range []string{"s", "ms", "us", "ns"} {
		ts, err := NewTimestamp(unit, "")
		if err != nil {
			t.Fatalf("NewTimestamp(%q, \"\"): %v", unit, err)
		}
		roundTrip(t, ts)

		tz, err := NewTimestamp(unit, "America/New_York")
		if err != nil {
			t.Fatalf("NewTimestamp(%q, tz): %v", unit, err)
		}
		got := roundTrip(t, tz)
		if got.(*Timestamp).TZ() != "America/New_York" {
			t.Errorf("tz lost in round trip")
		}
	}
}

func TestRoundTripTime(t *testing.T) {
	for _, unit := range []string{"s", "ms", "us", "ns"} {
		tm, err := NewTime(unit)
		if err != nil {
			t.Fatalf("NewTime(%q): %v", unit, err)
		}
		roundTrip(t, tm)
	}
}

func TestRoundTripOpaque(t *testing.T) {
	o, err := NewOpaque(16)
	if err != nil {
		t.Fatalf("NewOpaque: %v", err)
	}
	got := roundTrip(t, o)
	if got.(*Opaque).ByteWidth() != 16 {
		t.Errorf("width lost in round trip")
	}
	if _, err := NewOpaque(0); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestRoundTripDictionary(t *testing.T) {
	for _, ordered := range []bool{false, true} {
		dict, err := NewDictionary(Int32, Utf8, ordered)
		if err != nil {
			t.Fatalf("NewDictionary: %v", err)
		}
		roundTrip(t, dict)
	}

	if _, err := NewDictionary(Utf8, Int32, false); err == nil {
		t.Error("expected error for non-integer dictionary index")
	}
}

func TestRoundTripList(t *testing.T) {
	roundTrip(t, NewList(Int64))
	roundTrip(t, NewList(NewList(Utf8)))
}

func TestRoundTripStruct(t *testing.T) {
	s, err := NewStruct([]Field{
		{Name: "id", Type: Int64},
		{Name: "label", Type: Utf8},
		{Name: "children", Type: NewList(Int32)},
	})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	roundTrip(t, s)

	if _, err := NewStruct([]Field{{Name: "a", Type: Int32}, {Name: "a", Type: Int64}}); err == nil {
		t.Error("expected error for duplicate field name")
	}
	if _, err := NewStruct([]Field{{Name: "", Type: Int32}}); err == nil {
		t.Error("expected error for empty field name")
	}
}

func TestDecodeDescriptorUnknownTag(t *testing.T) {
	buf, err := bson.Marshal(bson.D{{Key: KeyType, Value: "not-a-real-tag"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := DecodeDescriptor(bson.Raw(buf)); err == nil {
		t.Error("expected error for unknown tag")
	}
}

func TestIsSignedInteger(t *testing.T) {
	for _, s := range []Schema{Int8, Int16, Int32, Int64} {
		if !IsSignedInteger(s) {
			t.Errorf("%s should be a signed integer schema", s.Tag())
		}
	}
	for _, s := range []Schema{Bool, UInt32, Float64, Utf8} {
		if IsSignedInteger(s) {
			t.Errorf("%s should not be a signed integer schema", s.Tag())
		}
	}
}
