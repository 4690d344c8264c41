package wire

import (
	"bytes"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/colbson/colbson/array"
	"github.com/colbson/colbson/bitutil"
	"github.com/colbson/colbson/schema"
)

// Decoder reconstructs arrays from wire documents produced by Encoder.
type Decoder struct{}

// NewDecoder returns a Decoder. A Decoder carries no state: every Decode
// call is independent.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode reconstructs an array from a wire document, first recovering its
// Schema from the embedded descriptor, then dispatching on the schema
// variant to reconstruct the payload.
func (dec *Decoder) Decode(doc bson.Raw) (array.Array, error) {
	return dec.decodeAt("$", doc)
}

func (dec *Decoder) decodeAt(path string, doc bson.Raw) (array.Array, error) {
	s, err := schema.DecodeDescriptor(doc)
	if err != nil {
		return nil, decErr(path, err)
	}

	switch st := s.(type) {
	case *schema.Binary:
		return dec.decodeBinary(path, doc, st)
	case *schema.List:
		return dec.decodeList(path, doc, st)
	case *schema.Dictionary:
		return dec.decodeDictionary(path, doc, st)
	case *schema.Struct:
		return dec.decodeStruct(path, doc, st)
	default:
		return dec.decodePrimitive(path, doc, s)
	}
}

func lookupBinary(path string, doc bson.Raw, key string) ([]byte, error) {
	val, err := doc.LookupErr(key)
	if err != nil {
		return nil, decErr(path, fmt.Errorf("missing %q: %w", key, err))
	}
	_, data, ok := val.BinaryOK()
	if !ok {
		return nil, decErr(path, fmt.Errorf("%q is not binary", key))
	}
	return data, nil
}

func lookupDocument(path string, doc bson.Raw, key string) (bson.Raw, error) {
	val, err := doc.LookupErr(key)
	if err != nil {
		return nil, decErr(path, fmt.Errorf("missing %q: %w", key, err))
	}
	d, ok := val.DocumentOK()
	if !ok {
		return nil, decErr(path, fmt.Errorf("%q is not a document", key))
	}
	return d, nil
}

func decompress(path, field string, blob []byte) ([]byte, error) {
	out, err := bitutil.Decompress(blob)
	if err != nil {
		return nil, compErr(path+"."+field, err)
	}
	return out, nil
}

func (dec *Decoder) decodePrimitive(path string, doc bson.Raw, s schema.Schema) (array.Array, error) {
	width := s.ByteWidth()
	if width <= 0 {
		return nil, decErr(path, fmt.Errorf("schema %q is not a fixed-width primitive", s.Tag()))
	}

	dataBlob, err := lookupBinary(path, doc, schema.KeyData)
	if err != nil {
		return nil, err
	}
	maskBlob, err := lookupBinary(path, doc, schema.KeyMask)
	if err != nil {
		return nil, err
	}

	rawData, err := decompress(path, "d", dataBlob)
	if err != nil {
		return nil, err
	}
	validity, err := decompress(path, "m", maskBlob)
	if err != nil {
		return nil, err
	}

	tag := s.Tag()
	var data []byte
	var length int

	switch {
	case tag == "bool":
		lengthVal, err := doc.LookupErr(schema.KeyLength)
		if err != nil {
			return nil, decErr(path, fmt.Errorf("missing %q: %w", schema.KeyLength, err))
		}
		l, ok := lengthVal.Int64OK()
		if !ok {
			return nil, decErr(path, fmt.Errorf("%q is not an int64", schema.KeyLength))
		}
		length = int(l)
		bools := bitutil.UnpackBits(rawData, length)
		data = make([]byte, length)
		for i, b := range bools {
			if b {
				data[i] = 1
			}
		}
	case isDeltaEncoded(tag):
		switch width {
		case 4:
			decoded := bitutil.DeltaDecodeInt32(bytesToInt32(rawData))
			data = int32ToBytes(decoded)
			length = len(decoded)
		case 8:
			decoded := bitutil.DeltaDecodeInt64(bytesToInt64(rawData))
			data = int64ToBytes(decoded)
			length = len(decoded)
		default:
			return nil, decErr(path, fmt.Errorf("unsupported delta byte width %d", width))
		}
	default:
		if len(rawData)%width != 0 {
			return nil, decErr(path, fmt.Errorf("decompressed size %d is not a multiple of byte width %d", len(rawData), width))
		}
		data = rawData
		length = len(rawData) / width
	}

	a, err := array.NewPrimitive(s, data, validity, length)
	if err != nil {
		return nil, decErr(path, err)
	}
	return a, nil
}

func (dec *Decoder) decodeBinary(path string, doc bson.Raw, s *schema.Binary) (array.Array, error) {
	dataBlob, err := lookupBinary(path, doc, schema.KeyData)
	if err != nil {
		return nil, err
	}
	maskBlob, err := lookupBinary(path, doc, schema.KeyMask)
	if err != nil {
		return nil, err
	}
	offsetBlob, err := lookupBinary(path, doc, schema.KeyOffset)
	if err != nil {
		return nil, err
	}

	values, err := decompress(path, "d", dataBlob)
	if err != nil {
		return nil, err
	}
	validity, err := decompress(path, "m", maskBlob)
	if err != nil {
		return nil, err
	}
	countsBytes, err := decompress(path, "o", offsetBlob)
	if err != nil {
		return nil, err
	}
	if len(countsBytes)%4 != 0 {
		return nil, decErr(path, errStr("counts buffer is not a multiple of 4 bytes"))
	}
	counts := bytesToInt32(countsBytes)

	a, err := array.NewBinary(s, values, counts, validity)
	if err != nil {
		return nil, decErr(path, err)
	}
	return a, nil
}

func (dec *Decoder) decodeList(path string, doc bson.Raw, s *schema.List) (array.Array, error) {
	childDoc, err := lookupDocument(path, doc, schema.KeyData)
	if err != nil {
		return nil, err
	}
	child, err := dec.decodeAt(path+".values", childDoc)
	if err != nil {
		return nil, err
	}

	maskBlob, err := lookupBinary(path, doc, schema.KeyMask)
	if err != nil {
		return nil, err
	}
	offsetBlob, err := lookupBinary(path, doc, schema.KeyOffset)
	if err != nil {
		return nil, err
	}
	validity, err := decompress(path, "m", maskBlob)
	if err != nil {
		return nil, err
	}
	countsBytes, err := decompress(path, "o", offsetBlob)
	if err != nil {
		return nil, err
	}
	counts := bytesToInt32(countsBytes)

	a, err := array.NewList(s, child, counts, validity)
	if err != nil {
		return nil, decErr(path, err)
	}
	return a, nil
}

func (dec *Decoder) decodeDictionary(path string, doc bson.Raw, s *schema.Dictionary) (array.Array, error) {
	wrapper, err := lookupDocument(path, doc, schema.KeyData)
	if err != nil {
		return nil, err
	}
	indexDoc, err := lookupDocument(path, wrapper, schema.KeyIndex)
	if err != nil {
		return nil, err
	}
	valueDoc, err := lookupDocument(path, wrapper, schema.KeyData)
	if err != nil {
		return nil, err
	}

	index, err := dec.decodeAt(path+".index", indexDoc)
	if err != nil {
		return nil, err
	}
	value, err := dec.decodeAt(path+".value", valueDoc)
	if err != nil {
		return nil, err
	}

	maskBlob, err := lookupBinary(path, doc, schema.KeyMask)
	if err != nil {
		return nil, err
	}
	mask, err := decompress(path, "m", maskBlob)
	if err != nil {
		return nil, err
	}

	if indexPrim, ok := index.(*array.Primitive); ok {
		if !bytes.Equal(mask, indexPrim.Validity()) {
			return nil, decErr(path, errStr("dictionary mask does not match index array validity"))
		}
	}

	a, err := array.NewDictionary(s, index, value)
	if err != nil {
		return nil, decErr(path, err)
	}
	return a, nil
}

func (dec *Decoder) decodeStruct(path string, doc bson.Raw, s *schema.Struct) (array.Array, error) {
	wrapper, err := lookupDocument(path, doc, schema.KeyData)
	if err != nil {
		return nil, err
	}

	lengthVal, err := wrapper.LookupErr(schema.KeyLength)
	if err != nil {
		return nil, decErr(path, fmt.Errorf("missing %q: %w", schema.KeyLength, err))
	}
	length, ok := lengthVal.Int64OK()
	if !ok {
		return nil, decErr(path, fmt.Errorf("%q is not an int64", schema.KeyLength))
	}

	fieldsDoc, err := lookupDocument(path, wrapper, schema.KeyFields)
	if err != nil {
		return nil, err
	}

	fields := s.Fields()
	children := make([]array.Array, len(fields))
	for i, f := range fields {
		childDoc, err := lookupDocument(path, fieldsDoc, f.Name)
		if err != nil {
			return nil, decErr(path+".f["+f.Name+"]", err)
		}
		child, err := dec.decodeAt(path+".f["+f.Name+"]", childDoc)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}

	maskBlob, err := lookupBinary(path, doc, schema.KeyMask)
	if err != nil {
		return nil, err
	}
	validity, err := decompress(path, "m", maskBlob)
	if err != nil {
		return nil, err
	}

	a, err := array.NewStruct(s, int(length), children, validity)
	if err != nil {
		return nil, decErr(path, err)
	}
	return a, nil
}
