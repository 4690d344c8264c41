package array

import (
	"github.com/colbson/colbson/bitutil"
	"github.com/colbson/colbson/schema"
)

// Struct is an ordered sequence of named child arrays, each of length
// equal to the parent's, plus the struct's own validity bitmap (a
// row-level null independent of any child's own nulls).
type Struct struct {
	schema   *schema.Struct
	length   int
	children []Array // parallel to schema.Fields()
	validity []byte
}

// NewStruct validates that children has one entry per schema field, in
// field order, each of length equal to length and schema equal to the
// corresponding field's type.
func NewStruct(s *schema.Struct, length int, children []Array, validity []byte) (*Struct, error) {
	fields := s.Fields()
	if len(children) != len(fields) {
		return nil, newError(s.Tag(), "construct", errStr("children count does not match field count"))
	}
	for idx, f := range fields {
		c := children[idx]
		if !c.Schema().Equal(f.Type) {
			return nil, newError("struct.f["+f.Name+"]", "construct", errStr("child schema does not match field type"))
		}
		if c.Len() != length {
			return nil, newError("struct.f["+f.Name+"]", "construct", errStr("child length does not match struct length"))
		}
	}

	v, err := validateValidity(s.Tag(), validity, length)
	if err != nil {
		return nil, err
	}

	cp := make([]Array, len(children))
	copy(cp, children)
	return &Struct{schema: s, length: length, children: cp, validity: v}, nil
}

func (s *Struct) Schema() schema.Schema { return s.schema }
func (s *Struct) Len() int              { return s.length }
func (s *Struct) Validity() []byte      { return s.validity }

func (s *Struct) IsValid(i int) bool {
	return bitutil.IsValid(s.validity, i)
}

// FieldByName returns the child array for name, or nil if absent.
func (s *Struct) FieldByName(name string) Array {
	for idx, f := range s.schema.Fields() {
		if f.Name == name {
			return s.children[idx]
		}
	}
	return nil
}

// Children returns the child arrays in field order.
func (s *Struct) Children() []Array { return s.children }

func (s *Struct) Equal(other Array) bool { return equalArrays(s, other) }

func (s *Struct) equalValueAt(other Array, i, j int) bool {
	o, ok := other.(*Struct)
	if !ok {
		return false
	}
	for idx := range s.children {
		a, aok := s.children[idx].(row)
		b, bok := o.children[idx].(row)
		if !aok || !bok {
			return false
		}
		if a.IsValid(i) != b.IsValid(j) {
			return false
		}
		if a.IsValid(i) && !a.equalValueAt(o.children[idx], i, j) {
			return false
		}
	}
	return true
}
