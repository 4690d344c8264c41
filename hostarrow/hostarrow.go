// Package hostarrow adapts columnar arrays to and from
// github.com/apache/arrow/go/v17, the host analytics library referenced
// by spec section 6's collaborator interface: "expects
// from_host(type, length, validity, buffers, children) -> Array and
// to_host(array) -> (type, length, validity, buffers, children)". This
// package is deliberately thin: the core codec (bitutil/schema/array/
// wire) never imports it, and it never reaches back into compression or
// wire framing. It only bridges the two in-memory columnar models for
// callers that already hold an Arrow array.
//
// List, dictionary, and struct variants are left unimplemented: per
// spec section 1, bindings to a host columnar engine are out of scope
// beyond the contract these two functions express, and Arrow's nested
// builders need field-by-field wiring that belongs to a real adapter
// package, not this thin bridge.
package hostarrow

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	colarray "github.com/colbson/colbson/array"
	"github.com/colbson/colbson/bitutil"
	"github.com/colbson/colbson/schema"
)

// ToHost converts a columnar array into an Arrow array allocated from mem.
func ToHost(mem memory.Allocator, a colarray.Array) (arrow.Array, error) {
	switch v := a.(type) {
	case *colarray.Primitive:
		return primitiveToHost(mem, v)
	case *colarray.Binary:
		return binaryToHost(mem, v)
	default:
		return nil, fmt.Errorf("hostarrow: ToHost: unsupported variant %q", a.Schema().Tag())
	}
}

func primitiveToHost(mem memory.Allocator, p *colarray.Primitive) (arrow.Array, error) {
	length := p.Len()
	data := p.Data()

	switch p.Schema().Tag() {
	case "bool":
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for i := 0; i < length; i++ {
			if !p.IsValid(i) {
				b.AppendNull()
				continue
			}
			b.Append(data[i] != 0)
		}
		return b.NewArray(), nil
	case "int8":
		b := array.NewInt8Builder(mem)
		defer b.Release()
		for i := 0; i < length; i++ {
			if !p.IsValid(i) {
				b.AppendNull()
				continue
			}
			b.Append(int8(data[i]))
		}
		return b.NewArray(), nil
	case "uint8":
		b := array.NewUint8Builder(mem)
		defer b.Release()
		for i := 0; i < length; i++ {
			if !p.IsValid(i) {
				b.AppendNull()
				continue
			}
			b.Append(data[i])
		}
		return b.NewArray(), nil
	case "int16":
		b := array.NewInt16Builder(mem)
		defer b.Release()
		for i := 0; i < length; i++ {
			if !p.IsValid(i) {
				b.AppendNull()
				continue
			}
			b.Append(int16(binary.LittleEndian.Uint16(data[i*2:])))
		}
		return b.NewArray(), nil
	case "uint16":
		b := array.NewUint16Builder(mem)
		defer b.Release()
		for i := 0; i < length; i++ {
			if !p.IsValid(i) {
				b.AppendNull()
				continue
			}
			b.Append(binary.LittleEndian.Uint16(data[i*2:]))
		}
		return b.NewArray(), nil
	case "int32":
		b := array.NewInt32Builder(mem)
		defer b.Release()
		for i := 0; i < length; i++ {
			if !p.IsValid(i) {
				b.AppendNull()
				continue
			}
			b.Append(int32(binary.LittleEndian.Uint32(data[i*4:])))
		}
		return b.NewArray(), nil
	case "uint32":
		b := array.NewUint32Builder(mem)
		defer b.Release()
		for i := 0; i < length; i++ {
			if !p.IsValid(i) {
				b.AppendNull()
				continue
			}
			b.Append(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return b.NewArray(), nil
	case "int64":
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for i := 0; i < length; i++ {
			if !p.IsValid(i) {
				b.AppendNull()
				continue
			}
			b.Append(int64(binary.LittleEndian.Uint64(data[i*8:])))
		}
		return b.NewArray(), nil
	case "uint64":
		b := array.NewUint64Builder(mem)
		defer b.Release()
		for i := 0; i < length; i++ {
			if !p.IsValid(i) {
				b.AppendNull()
				continue
			}
			b.Append(binary.LittleEndian.Uint64(data[i*8:]))
		}
		return b.NewArray(), nil
	case "float32":
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		for i := 0; i < length; i++ {
			if !p.IsValid(i) {
				b.AppendNull()
				continue
			}
			b.Append(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
		}
		return b.NewArray(), nil
	case "float64":
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for i := 0; i < length; i++ {
			if !p.IsValid(i) {
				b.AppendNull()
				continue
			}
			b.Append(math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:])))
		}
		return b.NewArray(), nil
	default:
		return nil, fmt.Errorf("hostarrow: ToHost: unsupported primitive tag %q", p.Schema().Tag())
	}
}

func binaryToHost(mem memory.Allocator, bn *colarray.Binary) (arrow.Array, error) {
	if bn.Schema().IsUTF8() {
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for i := 0; i < bn.Len(); i++ {
			if !bn.IsValid(i) {
				b.AppendNull()
				continue
			}
			b.Append(string(bn.At(i)))
		}
		return b.NewArray(), nil
	}

	b := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
	defer b.Release()
	for i := 0; i < bn.Len(); i++ {
		if !bn.IsValid(i) {
			b.AppendNull()
			continue
		}
		b.Append(bn.At(i))
	}
	return b.NewArray(), nil
}

// FromHost reconstructs a columnar array from an Arrow array, inferring a
// logical schema from its Arrow DataType.
func FromHost(a arrow.Array) (colarray.Array, error) {
	length := a.Len()
	validity := hostValidity(a)

	switch v := a.(type) {
	case *array.Boolean:
		data := make([]byte, length)
		for i := 0; i < length; i++ {
			if v.Value(i) {
				data[i] = 1
			}
		}
		return colarray.NewPrimitive(schema.Bool, data, validity, length)
	case *array.Int8:
		data := make([]byte, length)
		for i, x := range v.Int8Values() {
			data[i] = byte(x)
		}
		return colarray.NewPrimitive(schema.Int8, data, validity, length)
	case *array.Uint8:
		return colarray.NewPrimitive(schema.UInt8, append([]byte(nil), v.Uint8Values()...), validity, length)
	case *array.Int16:
		data := make([]byte, length*2)
		for i, x := range v.Int16Values() {
			binary.LittleEndian.PutUint16(data[i*2:], uint16(x))
		}
		return colarray.NewPrimitive(schema.Int16, data, validity, length)
	case *array.Uint16:
		data := make([]byte, length*2)
		for i, x := range v.Uint16Values() {
			binary.LittleEndian.PutUint16(data[i*2:], x)
		}
		return colarray.NewPrimitive(schema.UInt16, data, validity, length)
	case *array.Int32:
		data := make([]byte, length*4)
		for i, x := range v.Int32Values() {
			binary.LittleEndian.PutUint32(data[i*4:], uint32(x))
		}
		return colarray.NewPrimitive(schema.Int32, data, validity, length)
	case *array.Uint32:
		data := make([]byte, length*4)
		for i, x := range v.Uint32Values() {
			binary.LittleEndian.PutUint32(data[i*4:], x)
		}
		return colarray.NewPrimitive(schema.UInt32, data, validity, length)
	case *array.Int64:
		data := make([]byte, length*8)
		for i, x := range v.Int64Values() {
			binary.LittleEndian.PutUint64(data[i*8:], uint64(x))
		}
		return colarray.NewPrimitive(schema.Int64, data, validity, length)
	case *array.Uint64:
		data := make([]byte, length*8)
		for i, x := range v.Uint64Values() {
			binary.LittleEndian.PutUint64(data[i*8:], x)
		}
		return colarray.NewPrimitive(schema.UInt64, data, validity, length)
	case *array.Float32:
		data := make([]byte, length*4)
		for i, x := range v.Float32Values() {
			binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(x))
		}
		return colarray.NewPrimitive(schema.Float32, data, validity, length)
	case *array.Float64:
		data := make([]byte, length*8)
		for i, x := range v.Float64Values() {
			binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(x))
		}
		return colarray.NewPrimitive(schema.Float64, data, validity, length)
	case *array.String:
		return stringFromHost(v)
	case *array.Binary:
		return binaryFromHost(v)
	default:
		return nil, fmt.Errorf("hostarrow: FromHost: unsupported arrow type %s", a.DataType())
	}
}

func hostValidity(a arrow.Array) []byte {
	bools := make([]bool, a.Len())
	for i := range bools {
		bools[i] = a.IsValid(i)
	}
	return bitutil.PackBits(bools)
}

func stringFromHost(v *array.String) (colarray.Array, error) {
	var values []byte
	counts := []int32{0}
	for i := 0; i < v.Len(); i++ {
		s := v.Value(i)
		values = append(values, s...)
		counts = append(counts, int32(len(s)))
	}
	return colarray.NewBinary(schema.Utf8, values, counts, hostValidity(v))
}

func binaryFromHost(v *array.Binary) (colarray.Array, error) {
	var values []byte
	counts := []int32{0}
	for i := 0; i < v.Len(); i++ {
		b := v.Value(i)
		values = append(values, b...)
		counts = append(counts, int32(len(b)))
	}
	return colarray.NewBinary(schema.Bytes, values, counts, hostValidity(v))
}
