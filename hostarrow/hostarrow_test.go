package hostarrow

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/colbson/colbson/array"
	"github.com/colbson/colbson/bitutil"
	"github.com/colbson/colbson/schema"
)

func TestRoundTripInt32(t *testing.T) {
	data := []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}
	validity := bitutil.MakeValidityAllValid(3)
	bitutil.SetValid(validity, 1, false)

	a, err := array.NewPrimitive(schema.Int32, data, validity, 3)
	if err != nil {
		t.Fatalf("NewPrimitive: %v", err)
	}

	mem := memory.NewGoAllocator()
	host, err := ToHost(mem, a)
	if err != nil {
		t.Fatalf("ToHost: %v", err)
	}
	defer host.Release()

	back, err := FromHost(host)
	if err != nil {
		t.Fatalf("FromHost: %v", err)
	}
	if !back.Equal(a) {
		t.Error("round trip through arrow did not reproduce the original array")
	}
}

func TestRoundTripUtf8(t *testing.T) {
	a, err := array.NewBinary(schema.Utf8, []byte("abc"), []int32{0, 0, 2, 1}, nil)
	if err != nil {
		t.Fatalf("NewBinary: %v", err)
	}

	mem := memory.NewGoAllocator()
	host, err := ToHost(mem, a)
	if err != nil {
		t.Fatalf("ToHost: %v", err)
	}
	defer host.Release()

	back, err := FromHost(host)
	if err != nil {
		t.Fatalf("FromHost: %v", err)
	}
	if !back.Equal(a) {
		t.Error("round trip through arrow did not reproduce the original array")
	}
}
