package array

import (
	"bytes"

	"github.com/colbson/colbson/bitutil"
	"github.com/colbson/colbson/schema"
)

// Primitive is every fixed-width variant's payload: bool, the signed and
// unsigned integers, the floats, date/timestamp/time, and opaque. All of
// these share one in-memory shape: a flat little-endian byte buffer of
// length × schema.ByteWidth(), plus a validity bitmap. bool stores one
// byte per logical value in memory; bit-packing happens only on the wire.
type Primitive struct {
	schema   schema.Schema
	length   int
	data     []byte
	validity []byte
}

// NewPrimitive validates that data is exactly length × s.ByteWidth() bytes.
func NewPrimitive(s schema.Schema, data []byte, validity []byte, length int) (*Primitive, error) {
	width := s.ByteWidth()
	if width <= 0 {
		return nil, newError(s.Tag(), "construct", errStr("schema is not a fixed-width primitive"))
	}
	if len(data) != length*width {
		return nil, newError(s.Tag(), "construct", errStr("data length is not length * byte_width"))
	}
	v, err := validateValidity(s.Tag(), validity, length)
	if err != nil {
		return nil, err
	}
	return &Primitive{schema: s, length: length, data: data, validity: v}, nil
}

func (p *Primitive) Schema() schema.Schema { return p.schema }
func (p *Primitive) Len() int              { return p.length }
func (p *Primitive) Data() []byte          { return p.data }
func (p *Primitive) Validity() []byte      { return p.validity }

func (p *Primitive) IsValid(i int) bool {
	return bitutil.IsValid(p.validity, i)
}

func (p *Primitive) Equal(other Array) bool { return equalArrays(p, other) }

func (p *Primitive) equalValueAt(other Array, i, j int) bool {
	o, ok := other.(*Primitive)
	if !ok {
		return false
	}
	w := p.schema.ByteWidth()
	return bytes.Equal(p.data[i*w:(i+1)*w], o.data[j*w:(j+1)*w])
}
