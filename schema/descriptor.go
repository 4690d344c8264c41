package schema

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

var primitivesByTag = func() map[string]*Primitive {
	m := map[string]*Primitive{}
	for _, p := range []*Primitive{
		Bool, Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64,
		Float16, Float32, Float64,
	} {
		m[p.tag] = p
	}
	return m
}()

// DecodeDescriptor reconstructs a Schema from its canonical {t, [p]}
// descriptor document, the inverse of Schema.EncodeDescriptor.
func DecodeDescriptor(doc bson.Raw) (Schema, error) {
	tagVal, err := doc.LookupErr(KeyType)
	if err != nil {
		return nil, newError("", "decode descriptor", fmt.Errorf("missing %q: %w", KeyType, err))
	}
	tag, ok := tagVal.StringValueOK()
	if !ok {
		return nil, newError("", "decode descriptor", fmt.Errorf("%q is not a string", KeyType))
	}

	if p, ok := primitivesByTag[tag]; ok {
		return p, nil
	}

	switch tag {
	case "date[d]":
		return NewDate("d")
	case "date[ms]":
		return NewDate("ms")
	case "timestamp[s]", "timestamp[ms]", "timestamp[us]", "timestamp[ns]":
		unit := tag[len("timestamp[") : len(tag)-1]
		tz := ""
		if v, err := doc.LookupErr(KeyParam); err == nil {
			if s, ok := v.StringValueOK(); ok {
				tz = s
			}
		}
		return NewTimestamp(unit, tz)
	case "time[s]", "time[ms]", "time[us]", "time[ns]":
		unit := tag[len("time[") : len(tag)-1]
		return NewTime(unit)
	case "opaque":
		v, err := doc.LookupErr(KeyParam)
		if err != nil {
			return nil, newError("opaque", "decode descriptor", fmt.Errorf("missing %q: %w", KeyParam, err))
		}
		width, ok := v.Int32OK()
		if !ok {
			return nil, newError("opaque", "decode descriptor", fmt.Errorf("%q is not an int32", KeyParam))
		}
		return NewOpaque(int(width))
	case "bytes":
		return Bytes, nil
	case "utf8":
		return Utf8, nil
	case "factor", "ordered":
		return decodeDictionary(tag, doc)
	case "list":
		return decodeList(doc)
	case "struct":
		return decodeStruct(doc)
	default:
		return nil, newError(tag, "decode descriptor", fmt.Errorf("unsupported type tag %q", tag))
	}
}

func decodeDictionary(tag string, doc bson.Raw) (Schema, error) {
	param, err := doc.LookupErr(KeyParam)
	if err != nil {
		return nil, newError(tag, "decode descriptor", fmt.Errorf("missing %q: %w", KeyParam, err))
	}
	paramDoc, ok := param.DocumentOK()
	if !ok {
		return nil, newError(tag, "decode descriptor", fmt.Errorf("%q is not a document", KeyParam))
	}

	indexVal, err := paramDoc.LookupErr(KeyIndex)
	if err != nil {
		return nil, newError(tag, "decode descriptor", fmt.Errorf("missing %q: %w", KeyIndex, err))
	}
	indexDoc, ok := indexVal.DocumentOK()
	if !ok {
		return nil, newError(tag, "decode descriptor", fmt.Errorf("%q is not a document", KeyIndex))
	}
	index, err := DecodeDescriptor(indexDoc)
	if err != nil {
		return nil, fmt.Errorf("%s.index: %w", tag, err)
	}

	valueVal, err := paramDoc.LookupErr(KeyData)
	if err != nil {
		return nil, newError(tag, "decode descriptor", fmt.Errorf("missing %q: %w", KeyData, err))
	}
	valueDoc, ok := valueVal.DocumentOK()
	if !ok {
		return nil, newError(tag, "decode descriptor", fmt.Errorf("%q is not a document", KeyData))
	}
	value, err := DecodeDescriptor(valueDoc)
	if err != nil {
		return nil, fmt.Errorf("%s.value: %w", tag, err)
	}

	return NewDictionary(index, value, tag == "ordered")
}

func decodeList(doc bson.Raw) (Schema, error) {
	param, err := doc.LookupErr(KeyParam)
	if err != nil {
		return nil, newError("list", "decode descriptor", fmt.Errorf("missing %q: %w", KeyParam, err))
	}
	paramDoc, ok := param.DocumentOK()
	if !ok {
		return nil, newError("list", "decode descriptor", fmt.Errorf("%q is not a document", KeyParam))
	}
	value, err := DecodeDescriptor(paramDoc)
	if err != nil {
		return nil, fmt.Errorf("list.value: %w", err)
	}
	return NewList(value), nil
}

func decodeStruct(doc bson.Raw) (Schema, error) {
	param, err := doc.LookupErr(KeyParam)
	if err != nil {
		return nil, newError("struct", "decode descriptor", fmt.Errorf("missing %q: %w", KeyParam, err))
	}
	paramArr, ok := param.ArrayOK()
	if !ok {
		return nil, newError("struct", "decode descriptor", fmt.Errorf("%q is not an array", KeyParam))
	}

	values, err := paramArr.Values()
	if err != nil {
		return nil, newError("struct", "decode descriptor", err)
	}

	fields := make([]Field, 0, len(values))
	for i, v := range values {
		fieldDoc, ok := v.DocumentOK()
		if !ok {
			return nil, newError("struct", "decode descriptor", fmt.Errorf("field %d is not a document", i))
		}

		nameVal, err := fieldDoc.LookupErr(KeyName)
		if err != nil {
			return nil, newError("struct", "decode descriptor", fmt.Errorf("field %d missing %q: %w", i, KeyName, err))
		}
		name, ok := nameVal.StringValueOK()
		if !ok {
			return nil, newError("struct", "decode descriptor", fmt.Errorf("field %d: %q is not a string", i, KeyName))
		}

		childType, err := DecodeDescriptor(fieldDoc)
		if err != nil {
			return nil, fmt.Errorf("struct.f[%s]: %w", name, err)
		}

		fields = append(fields, Field{Name: name, Type: childType})
	}

	return NewStruct(fields)
}
