// Package array implements the immutable columnar payload model tied to a
// github.com/colbson/colbson/schema.Schema: one concrete type per logical
// variant (primitive/date/timestamp/time/opaque, bytes/utf8, list,
// dictionary, struct), each with a validating constructor and a
// masked-position-indifferent Equal, mirroring
// original_source/python/bson_dataframe/array.py translated from an open
// class hierarchy into a closed set of Go types.
package array

import (
	"github.com/colbson/colbson/bitutil"
	"github.com/colbson/colbson/schema"
)

// Array is the closed set of columnar payload variants. Every
// implementation lives in this package.
type Array interface {
	// Schema reports the logical type this array's payload is shaped for.
	Schema() schema.Schema

	// Len reports the number of logical positions.
	Len() int

	// IsValid reports whether position i is present (not null).
	IsValid(i int) bool

	// Equal reports whether two arrays have equal schemas, equal length,
	// and equal values at every position both consider valid. Positions
	// invalid in both arrays compare equal regardless of payload bits.
	Equal(other Array) bool
}

// row is implemented by every variant whose Equal can be expressed as a
// per-position comparison, letting container variants (list, struct)
// recurse into children while still honoring masked-position indifference.
type row interface {
	Array
	equalValueAt(other Array, i, j int) bool
}

func equalArrays(a Array, b Array) bool {
	if !a.Schema().Equal(b.Schema()) || a.Len() != b.Len() {
		return false
	}
	ar, aok := a.(row)
	_, bok := b.(row)
	if !aok || !bok {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		av, bv := a.IsValid(i), b.IsValid(i)
		if av != bv {
			return false
		}
		if av && !ar.equalValueAt(b, i, i) {
			return false
		}
	}
	return true
}

func validateValidity(path string, validity []byte, length int) ([]byte, error) {
	if validity == nil {
		return bitutil.MakeValidityAllValid(length), nil
	}
	v, err := bitutil.MakeValidityFromBits(validity, length)
	if err != nil {
		return nil, newError(path, "construct", err)
	}
	return v, nil
}
