package wire

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/colbson/colbson/array"
)

// Column pairs a table column's name with its array, preserving field
// insertion order the way a Struct preserves its own.
type Column struct {
	Name  string
	Array array.Array
}

// EncodeTable produces the table document `{col_name: <array doc>}` with
// column order preserved.
func (enc *Encoder) EncodeTable(columns []Column) (bson.D, error) {
	doc := make(bson.D, 0, len(columns))
	for _, c := range columns {
		colDoc, err := enc.encodeAt("$."+c.Name, c.Array)
		if err != nil {
			return nil, err
		}
		doc = append(doc, bson.E{Key: c.Name, Value: colDoc})
	}
	return doc, nil
}

// DecodeTable reconstructs every column of a table document, in field
// insertion order.
func (dec *Decoder) DecodeTable(doc bson.Raw) ([]Column, error) {
	elements, err := doc.Elements()
	if err != nil {
		return nil, decErr("$", fmt.Errorf("reading table elements: %w", err))
	}

	columns := make([]Column, 0, len(elements))
	for _, el := range elements {
		name := el.Key()
		colRaw, ok := el.Value().DocumentOK()
		if !ok {
			return nil, decErr("$."+name, errStr("column value is not a document"))
		}
		a, err := dec.decodeAt("$."+name, colRaw)
		if err != nil {
			return nil, err
		}
		columns = append(columns, Column{Name: name, Array: a})
	}
	return columns, nil
}
