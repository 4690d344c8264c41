package array

import (
	"bytes"
	"unicode/utf8"

	"github.com/colbson/colbson/bitutil"
	"github.com/colbson/colbson/schema"
)

// Binary is the bytes/utf8 variant: concatenated values addressed by a
// length+1 counts sequence, c[0]=0 and sum(c) == len(values).
type Binary struct {
	schema   *schema.Binary
	length   int
	values   []byte
	counts   []int32
	offsets  []int32
	validity []byte
}

// NewBinary validates counts[0] == 0, counts[i] >= 0, sum(counts) ==
// len(values), and (for utf8) that every value is valid UTF-8.
func NewBinary(s *schema.Binary, values []byte, counts []int32, validity []byte) (*Binary, error) {
	if len(counts) == 0 || counts[0] != 0 {
		return nil, newError(s.Tag(), "construct", errStr("counts[0] must be 0"))
	}
	for _, c := range counts {
		if c < 0 {
			return nil, newError(s.Tag(), "construct", errStr("counts must be non-negative"))
		}
	}
	offsets := bitutil.OffsetsFromCounts(counts)
	length := len(counts) - 1
	if int(offsets[length]) != len(values) {
		return nil, newError(s.Tag(), "construct", errStr("sum(counts) does not equal len(values)"))
	}

	v, err := validateValidity(s.Tag(), validity, length)
	if err != nil {
		return nil, err
	}

	b := &Binary{schema: s, length: length, values: values, counts: counts, offsets: offsets, validity: v}

	if s.IsUTF8() {
		for i := 0; i < length; i++ {
			if !b.IsValid(i) {
				continue
			}
			if !utf8.Valid(b.values[offsets[i]:offsets[i+1]]) {
				return nil, newError(s.Tag(), "construct", errStr("value is not valid utf-8"))
			}
		}
	}

	return b, nil
}

func (b *Binary) Schema() schema.Schema { return b.schema }
func (b *Binary) Len() int              { return b.length }
func (b *Binary) Values() []byte        { return b.values }
func (b *Binary) Counts() []int32       { return b.counts }
func (b *Binary) Validity() []byte      { return b.validity }

func (b *Binary) IsValid(i int) bool {
	return bitutil.IsValid(b.validity, i)
}

// At returns the raw bytes stored at logical position i, ignoring
// validity.
func (b *Binary) At(i int) []byte {
	return b.values[b.offsets[i]:b.offsets[i+1]]
}

func (b *Binary) Equal(other Array) bool { return equalArrays(b, other) }

func (b *Binary) equalValueAt(other Array, i, j int) bool {
	o, ok := other.(*Binary)
	if !ok {
		return false
	}
	return bytes.Equal(b.At(i), o.At(j))
}
