package array

import "github.com/colbson/colbson/schema"

// Dictionary pairs an integer index array with a value array; the logical
// element at position i is value[index[i]], null wherever index is
// invalid at i. The value array itself carries no nulls.
type Dictionary struct {
	schema *schema.Dictionary
	index  Array
	value  Array
}

// NewDictionary validates that index/value match the schema's child
// schemas and that value has no null positions.
func NewDictionary(s *schema.Dictionary, index Array, value Array) (*Dictionary, error) {
	if !index.Schema().Equal(s.Index()) {
		return nil, newError(s.Tag(), "construct", errStr("index array schema does not match dictionary index schema"))
	}
	if !value.Schema().Equal(s.Value()) {
		return nil, newError(s.Tag(), "construct", errStr("value array schema does not match dictionary value schema"))
	}
	for i := 0; i < value.Len(); i++ {
		if !value.IsValid(i) {
			return nil, newError(s.Tag(), "construct", errStr("dictionary value array must not contain nulls"))
		}
	}
	return &Dictionary{schema: s, index: index, value: value}, nil
}

func (d *Dictionary) Schema() schema.Schema { return d.schema }
func (d *Dictionary) Len() int              { return d.index.Len() }
func (d *Dictionary) Index() Array          { return d.index }
func (d *Dictionary) Value() Array          { return d.value }

func (d *Dictionary) IsValid(i int) bool { return d.index.IsValid(i) }

func (d *Dictionary) Equal(other Array) bool {
	o, ok := other.(*Dictionary)
	if !ok || !d.schema.Equal(o.schema) {
		return false
	}
	return d.index.Equal(o.index) && d.value.Equal(o.value)
}

func (d *Dictionary) equalValueAt(other Array, i, j int) bool {
	o, ok := other.(*Dictionary)
	if !ok || !d.value.Equal(o.value) {
		return false
	}
	ir, ok := d.index.(row)
	return ok && ir.equalValueAt(o.index, i, j)
}
