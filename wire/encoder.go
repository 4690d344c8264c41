// Package wire implements the type-directed encode/decode visitor that
// turns a github.com/colbson/colbson/array.Array into the BSON-framed wire
// document and back, one concrete encoder/decoder method per logical
// type.
package wire

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/colbson/colbson/array"
	"github.com/colbson/colbson/bitutil"
	"github.com/colbson/colbson/schema"
)

// Encoder produces wire documents from arrays at a fixed LZ4 compression
// level. Level 0 selects the default (fast) mode; level>0 selects the
// high-compression mode at that level.
type Encoder struct {
	Level int
}

// NewEncoder returns an Encoder at the given compression level.
func NewEncoder(level int) *Encoder {
	return &Encoder{Level: level}
}

// Encode produces the deterministic {d, m, t, [p], [o]} document for a; a
// bool array's document additionally ends with its l (length) key.
func (enc *Encoder) Encode(a array.Array) (bson.D, error) {
	return enc.encodeAt("$", a)
}

func (enc *Encoder) encodeAt(path string, a array.Array) (bson.D, error) {
	switch v := a.(type) {
	case *array.Primitive:
		return enc.encodePrimitive(path, v)
	case *array.Binary:
		return enc.encodeBinary(path, v)
	case *array.List:
		return enc.encodeList(path, v)
	case *array.Dictionary:
		return enc.encodeDictionary(path, v)
	case *array.Struct:
		return enc.encodeStruct(path, v)
	default:
		return nil, encErr(path, errStr("unsupported array type"))
	}
}

func isDeltaEncoded(tag string) bool {
	return strings.HasPrefix(tag, "date[") || strings.HasPrefix(tag, "timestamp[")
}

func (enc *Encoder) encodePrimitive(path string, p *array.Primitive) (bson.D, error) {
	tag := p.Schema().Tag()

	var raw []byte
	switch {
	case tag == "bool":
		bools := make([]bool, p.Len())
		for i, b := range p.Data() {
			bools[i] = b != 0
		}
		raw = bitutil.PackBits(bools)
	case isDeltaEncoded(tag):
		switch p.Schema().ByteWidth() {
		case 4:
			raw = int32ToBytes(bitutil.DeltaEncodeInt32(bytesToInt32(p.Data())))
		case 8:
			raw = int64ToBytes(bitutil.DeltaEncodeInt64(bytesToInt64(p.Data())))
		default:
			return nil, encErr(path, errStr("unsupported delta byte width"))
		}
	default:
		raw = p.Data()
	}

	data, err := bitutil.Compress(raw, enc.Level)
	if err != nil {
		return nil, compErr(path, err)
	}
	mask, err := bitutil.Compress(p.Validity(), enc.Level)
	if err != nil {
		return nil, compErr(path, err)
	}

	doc := bson.D{
		{Key: schema.KeyData, Value: binaryValue(data)},
		{Key: schema.KeyMask, Value: binaryValue(mask)},
	}
	doc = append(doc, p.Schema().EncodeDescriptor()...)
	if tag == "bool" {
		doc = append(doc, bson.E{Key: schema.KeyLength, Value: int64(p.Len())})
	}
	return doc, nil
}

func (enc *Encoder) encodeBinary(path string, b *array.Binary) (bson.D, error) {
	data, err := bitutil.Compress(b.Values(), enc.Level)
	if err != nil {
		return nil, compErr(path, err)
	}
	mask, err := bitutil.Compress(b.Validity(), enc.Level)
	if err != nil {
		return nil, compErr(path, err)
	}
	counts, err := bitutil.Compress(int32ToBytes(b.Counts()), enc.Level)
	if err != nil {
		return nil, compErr(path, err)
	}

	doc := bson.D{
		{Key: schema.KeyData, Value: binaryValue(data)},
		{Key: schema.KeyMask, Value: binaryValue(mask)},
	}
	doc = append(doc, b.Schema().EncodeDescriptor()...)
	doc = append(doc, bson.E{Key: schema.KeyOffset, Value: binaryValue(counts)})
	return doc, nil
}

func (enc *Encoder) encodeList(path string, l *array.List) (bson.D, error) {
	childDoc, err := enc.encodeAt(path+".values", l.Values())
	if err != nil {
		return nil, err
	}
	mask, err := bitutil.Compress(l.Validity(), enc.Level)
	if err != nil {
		return nil, compErr(path, err)
	}
	counts, err := bitutil.Compress(int32ToBytes(l.Counts()), enc.Level)
	if err != nil {
		return nil, compErr(path, err)
	}

	doc := bson.D{
		{Key: schema.KeyData, Value: childDoc},
		{Key: schema.KeyMask, Value: binaryValue(mask)},
	}
	doc = append(doc, l.Schema().EncodeDescriptor()...)
	doc = append(doc, bson.E{Key: schema.KeyOffset, Value: binaryValue(counts)})
	return doc, nil
}

func (enc *Encoder) encodeDictionary(path string, d *array.Dictionary) (bson.D, error) {
	indexDoc, err := enc.encodeAt(path+".index", d.Index())
	if err != nil {
		return nil, err
	}
	valueDoc, err := enc.encodeAt(path+".value", d.Value())
	if err != nil {
		return nil, err
	}

	indexPrim, ok := d.Index().(*array.Primitive)
	if !ok {
		return nil, encErr(path, errStr("dictionary index array must be a primitive integer array"))
	}
	mask, err := bitutil.Compress(indexPrim.Validity(), enc.Level)
	if err != nil {
		return nil, compErr(path, err)
	}

	doc := bson.D{
		{Key: schema.KeyData, Value: bson.D{
			{Key: schema.KeyIndex, Value: indexDoc},
			{Key: schema.KeyData, Value: valueDoc},
		}},
		{Key: schema.KeyMask, Value: binaryValue(mask)},
	}
	doc = append(doc, d.Schema().EncodeDescriptor()...)
	return doc, nil
}

func (enc *Encoder) encodeStruct(path string, s *array.Struct) (bson.D, error) {
	fields := s.Schema().(*schema.Struct).Fields()
	fieldsDoc := bson.D{}
	for idx, f := range fields {
		childDoc, err := enc.encodeAt(path+".f["+f.Name+"]", s.Children()[idx])
		if err != nil {
			return nil, err
		}
		fieldsDoc = append(fieldsDoc, bson.E{Key: f.Name, Value: childDoc})
	}

	mask, err := bitutil.Compress(s.Validity(), enc.Level)
	if err != nil {
		return nil, compErr(path, err)
	}

	doc := bson.D{
		{Key: schema.KeyData, Value: bson.D{
			{Key: schema.KeyLength, Value: int64(s.Len())},
			{Key: schema.KeyFields, Value: fieldsDoc},
		}},
		{Key: schema.KeyMask, Value: binaryValue(mask)},
	}
	doc = append(doc, s.Schema().EncodeDescriptor()...)
	return doc, nil
}
