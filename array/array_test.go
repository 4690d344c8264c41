package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colbson/colbson/bitutil"
	"github.com/colbson/colbson/schema"
)

func TestPrimitiveConstructAndEqual(t *testing.T) {
	data := []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}
	a, err := NewPrimitive(schema.Int32, data, nil, 3)
	require.NoError(t, err)
	b, err := NewPrimitive(schema.Int32, append([]byte(nil), data...), nil, 3)
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "expected equal primitive arrays")

	_, err = NewPrimitive(schema.Int32, data[:11], nil, 3)
	assert.Error(t, err, "expected error for mismatched data length")
}

func TestPrimitiveMaskedPositionIndifference(t *testing.T) {
	data1 := []byte{1, 0, 0, 0, 0xFF, 0, 0, 0}
	data2 := []byte{1, 0, 0, 0, 0xAA, 0, 0, 0}
	validity, err := bitutil.MakeValidityFromBits([]byte{0b00000001}, 2)
	require.NoError(t, err)

	a, err := NewPrimitive(schema.Int32, data1, validity, 2)
	require.NoError(t, err)
	b, err := NewPrimitive(schema.Int32, data2, validity, 2)
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "arrays differing only at an invalid position should compare equal")
}

func TestBinaryScenario1(t *testing.T) {
	// items ["", "ab", "", "c"] -> counts [0, 0, 2, 0, 1], values "abc"
	values := []byte("abc")
	counts := []int32{0, 0, 2, 0, 1}
	validity, err := bitutil.MakeValidityFromBits([]byte{0b00001111}, 4)
	require.NoError(t, err)

	b, err := NewBinary(schema.Utf8, values, counts, validity)
	require.NoError(t, err)
	require.Equal(t, 4, b.Len())

	want := []string{"", "ab", "", "c"}
	for i, w := range want {
		assert.Equal(t, w, string(b.At(i)))
	}
}

func TestBinaryRejectsInvalidCounts(t *testing.T) {
	_, err := NewBinary(schema.Bytes, []byte("ab"), []int32{1, 2}, nil)
	assert.Error(t, err, "expected error when counts[0] != 0")

	_, err = NewBinary(schema.Bytes, []byte("ab"), []int32{0, 5}, nil)
	assert.Error(t, err, "expected error when sum(counts) != len(values)")

	_, err = NewBinary(schema.Bytes, []byte("ab"), []int32{0, 2, -1}, nil)
	assert.Error(t, err, "expected error for a negative count")
}

func TestListRejectsNegativeCounts(t *testing.T) {
	child, err := NewPrimitive(schema.Int64, make([]byte, 8*5), nil, 5)
	require.NoError(t, err)
	listSchema := schema.NewList(schema.Int64)

	_, err = NewList(listSchema, child, []int32{0, 3, -2, 4}, nil)
	assert.Error(t, err, "expected error for a negative count")
}

func TestBinaryRejectsInvalidUTF8(t *testing.T) {
	_, err := NewBinary(schema.Utf8, []byte{0xff, 0xfe}, []int32{0, 2}, nil)
	assert.Error(t, err, "expected error for invalid utf-8 value")

	_, err = NewBinary(schema.Bytes, []byte{0xff, 0xfe}, []int32{0, 2}, nil)
	assert.NoError(t, err, "bytes schema should not validate utf-8")
}

func TestListScenario5(t *testing.T) {
	childSchema := schema.Int64
	childData := make([]byte, 5*8)
	for i := 0; i < 5; i++ {
		childData[i*8] = byte(i + 1)
	}
	child, err := NewPrimitive(childSchema, childData, nil, 5)
	require.NoError(t, err)

	listSchema := schema.NewList(childSchema)
	counts := []int32{0, 3, 0, 2}
	l, err := NewList(listSchema, child, counts, nil)
	require.NoError(t, err)
	require.Equal(t, 3, l.Len())

	begin, end := l.Bounds(0)
	assert.Equal(t, 3, end-begin)
	begin, end = l.Bounds(1)
	assert.Equal(t, 0, end-begin)
	begin, end = l.Bounds(2)
	assert.Equal(t, 2, end-begin)
}

func TestDictionaryScenario4(t *testing.T) {
	indexData := make([]byte, 5*4)
	put := func(i int, v int32) {
		indexData[i*4] = byte(v)
	}
	put(0, 0)
	put(1, 2)
	put(3, 1)
	put(4, 0)
	validity, err := bitutil.MakeValidityFromBits([]byte{0b00011011}, 5)
	require.NoError(t, err)
	index, err := NewPrimitive(schema.Int32, indexData, validity, 5)
	require.NoError(t, err)

	values := []byte("xyz")
	value, err := NewBinary(schema.Utf8, values, []int32{0, 1, 1, 1}, nil)
	require.NoError(t, err)

	dictSchema, err := schema.NewDictionary(schema.Int32, schema.Utf8, true)
	require.NoError(t, err)

	d, err := NewDictionary(dictSchema, index, value)
	require.NoError(t, err)
	require.Equal(t, 5, d.Len())
	assert.False(t, d.IsValid(2), "position 2 should be null")
}

func TestDictionaryRejectsNullsInValue(t *testing.T) {
	values := []byte("xy")
	validity, _ := bitutil.MakeValidityFromBits([]byte{0b00000001}, 2)
	value, err := NewBinary(schema.Utf8, values, []int32{0, 1, 1}, validity)
	require.NoError(t, err)
	index, err := NewPrimitive(schema.Int32, make([]byte, 4), nil, 1)
	require.NoError(t, err)
	dictSchema, err := schema.NewDictionary(schema.Int32, schema.Utf8, false)
	require.NoError(t, err)

	_, err = NewDictionary(dictSchema, index, value)
	assert.Error(t, err, "expected error for nulls in dictionary value array")
}

func TestStructScenario6(t *testing.T) {
	xData := make([]byte, 4*4)
	x, err := NewPrimitive(schema.Int32, xData, nil, 4)
	require.NoError(t, err)
	y, err := NewBinary(schema.Utf8, []byte("abcd"), []int32{0, 1, 1, 1, 1}, nil)
	require.NoError(t, err)

	structSchema, err := schema.NewStruct([]schema.Field{
		{Name: "x", Type: schema.Int32},
		{Name: "y", Type: schema.Utf8},
	})
	require.NoError(t, err)

	s, err := NewStruct(structSchema, 4, []Array{x, y}, nil)
	require.NoError(t, err)
	assert.Equal(t, Array(x), s.FieldByName("x"))
	assert.Equal(t, Array(y), s.FieldByName("y"))
	assert.Nil(t, s.FieldByName("z"))
}

func TestStructRejectsChildLengthMismatch(t *testing.T) {
	x, err := NewPrimitive(schema.Int32, make([]byte, 12), nil, 3)
	require.NoError(t, err)
	structSchema, err := schema.NewStruct([]schema.Field{{Name: "x", Type: schema.Int32}})
	require.NoError(t, err)

	_, err = NewStruct(structSchema, 4, []Array{x}, nil)
	assert.Error(t, err, "expected error for child length mismatch")
}

func TestEmptyLengthBoundary(t *testing.T) {
	b, err := NewBinary(schema.Utf8, nil, []int32{0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Validity())
}
