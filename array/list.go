package array

import (
	"github.com/colbson/colbson/bitutil"
	"github.com/colbson/colbson/schema"
)

// List is a variable-length sequence of a single child schema, addressed
// by the same counts framing as Binary over a child Array of values.
type List struct {
	schema   *schema.List
	length   int
	values   Array
	counts   []int32
	offsets  []int32
	validity []byte
}

// NewList validates counts[0] == 0, counts[i] >= 0, sum(counts) ==
// values.Len(), and that values.Schema() equals s.Value().
func NewList(s *schema.List, values Array, counts []int32, validity []byte) (*List, error) {
	if !values.Schema().Equal(s.Value()) {
		return nil, newError(s.Tag(), "construct", errStr("child array schema does not match list value schema"))
	}
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
	if int(offsets[length]) != values.Len() {
		return nil, newError(s.Tag(), "construct", errStr("sum(counts) does not equal child array length"))
	}

	v, err := validateValidity(s.Tag(), validity, length)
	if err != nil {
		return nil, err
	}

	return &List{schema: s, length: length, values: values, counts: counts, offsets: offsets, validity: v}, nil
}

func (l *List) Schema() schema.Schema { return l.schema }
func (l *List) Len() int              { return l.length }
func (l *List) Values() Array         { return l.values }
func (l *List) Counts() []int32       { return l.counts }
func (l *List) Validity() []byte      { return l.validity }

func (l *List) IsValid(i int) bool {
	return bitutil.IsValid(l.validity, i)
}

// Bounds returns the [begin, end) range into Values() occupied by
// position i.
func (l *List) Bounds(i int) (int, int) {
	return int(l.offsets[i]), int(l.offsets[i+1])
}

func (l *List) Equal(other Array) bool { return equalArrays(l, other) }

func (l *List) equalValueAt(other Array, i, j int) bool {
	o, ok := other.(*List)
	if !ok {
		return false
	}
	aBegin, aEnd := l.Bounds(i)
	bBegin, bEnd := o.Bounds(j)
	if aEnd-aBegin != bEnd-bBegin {
		return false
	}

	av, aok := l.values.(row)
	bv, bok := o.values.(row)
	if !aok || !bok {
		return false
	}

	for k := 0; k < aEnd-aBegin; k++ {
		ai, bj := aBegin+k, bBegin+k
		if av.IsValid(ai) != bv.IsValid(bj) {
			return false
		}
		if av.IsValid(ai) && !av.equalValueAt(o.values, ai, bj) {
			return false
		}
	}
	return true
}
