// Package bitutil implements the bit-level and block-compression primitives
// shared by every columnar array variant: validity bitmaps, counts/offsets
// conversion, delta/cumsum pipelines for monotone integer sequences, and the
// LZ4 block frame used for every compressed buffer on the wire.
package bitutil

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// NumValidityBytes returns ceil(length/8), the size of a validity bitmap for
// length positions.
func NumValidityBytes(length int) int {
	if length < 0 {
		panic("bitutil: negative length")
	}
	return (length + 7) / 8
}

// MakeValidityAllValid returns a validity bitmap of length positions with
// every bit set.
func MakeValidityAllValid(length int) []byte {
	buf := make([]byte, NumValidityBytes(length))
	for i := range buf {
		buf[i] = 0xFF
	}
	clearTrailingBits(buf, length)
	return buf
}

// MakeValidityAllInvalid returns a validity bitmap of length positions with
// every bit clear.
func MakeValidityAllInvalid(length int) []byte {
	return make([]byte, NumValidityBytes(length))
}

// MakeValidityFromBits validates and returns a caller-supplied validity
// bitmap. The buffer must already be ceil(length/8) bytes with trailing bits
// above position length-1 zero.
func MakeValidityFromBits(bits []byte, length int) ([]byte, error) {
	want := NumValidityBytes(length)
	if len(bits) != want {
		return nil, fmt.Errorf("bitutil: validity buffer has %d bytes, want %d for length %d", len(bits), want, length)
	}
	if !trailingBitsZero(bits, length) {
		return nil, fmt.Errorf("bitutil: validity buffer has non-zero trailing bits above position %d", length-1)
	}
	out := make([]byte, len(bits))
	copy(out, bits)
	return out, nil
}

func clearTrailingBits(buf []byte, length int) {
	if length == 0 || len(buf) == 0 {
		return
	}
	rem := length % 8
	if rem == 0 {
		return
	}
	mask := byte(1<<uint(rem)) - 1
	buf[len(buf)-1] &= mask
}

func trailingBitsZero(buf []byte, length int) bool {
	if length == 0 {
		return true
	}
	rem := length % 8
	if rem == 0 {
		return true
	}
	mask := ^(byte(1<<uint(rem)) - 1)
	return buf[len(buf)-1]&mask == 0
}

// IsValid reports whether bit i (LSB-first within its byte) is set.
func IsValid(validity []byte, i int) bool {
	return validity[i/8]&(1<<uint(i%8)) != 0
}

// SetValid sets or clears bit i (LSB-first within its byte).
func SetValid(validity []byte, i int, valid bool) {
	if valid {
		validity[i/8] |= 1 << uint(i%8)
	} else {
		validity[i/8] &^= 1 << uint(i%8)
	}
}

// PackBits packs a bool slice into a validity-style bitmap, LSB-first within
// each byte, with trailing bits zero.
func PackBits(bools []bool) []byte {
	buf := make([]byte, NumValidityBytes(len(bools)))
	for i, v := range bools {
		if v {
			buf[i/8] |= 1 << uint(i%8)
		}
	}
	return buf
}

// UnpackBits unpacks a bitmap of the given length into a bool slice,
// LSB-first within each byte.
func UnpackBits(data []byte, length int) []bool {
	out := make([]bool, length)
	for i := range out {
		out[i] = IsValid(data, i)
	}
	return out
}

// PackBoolBytes packs a one-byte-per-value bool buffer (non-zero means true,
// the in-memory Array representation for bool) into an LSB-first bitmap for
// the wire.
func PackBoolBytes(data []byte) []byte {
	buf := make([]byte, NumValidityBytes(len(data)))
	for i, v := range data {
		if v != 0 {
			buf[i/8] |= 1 << uint(i%8)
		}
	}
	return buf
}

// UnpackBoolBytes unpacks an LSB-first bitmap of the given length into a
// one-byte-per-value bool buffer (0 or 1), the in-memory Array
// representation for bool.
func UnpackBoolBytes(bits []byte, length int) []byte {
	out := make([]byte, length)
	for i := range out {
		if IsValid(bits, i) {
			out[i] = 1
		}
	}
	return out
}

// CountsFromOffsets converts a cumulative offsets sequence into first
// differences: result[0] = offsets[0], result[i] = offsets[i] - offsets[i-1].
func CountsFromOffsets(offsets []int32) []int32 {
	out := make([]int32, len(offsets))
	if len(offsets) == 0 {
		return out
	}
	out[0] = offsets[0]
	for i := 1; i < len(offsets); i++ {
		out[i] = offsets[i] - offsets[i-1]
	}
	return out
}

// OffsetsFromCounts is the inverse of CountsFromOffsets: a cumulative sum.
func OffsetsFromCounts(counts []int32) []int32 {
	out := make([]int32, len(counts))
	var sum int32
	for i, c := range counts {
		sum += c
		out[i] = sum
	}
	return out
}

// DeltaEncodeInt32 prepends a zero and computes consecutive differences,
// wrapping modulo 2^32. Self-inverse with DeltaDecodeInt32.
func DeltaEncodeInt32(seq []int32) []int32 {
	out := make([]int32, len(seq))
	var prev int32
	for i, v := range seq {
		out[i] = v - prev
		prev = v
	}
	return out
}

// DeltaDecodeInt32 is the cumulative-sum inverse of DeltaEncodeInt32,
// wrapping modulo 2^32.
func DeltaDecodeInt32(seq []int32) []int32 {
	out := make([]int32, len(seq))
	var sum int32
	for i, d := range seq {
		sum += d
		out[i] = sum
	}
	return out
}

// DeltaEncodeInt64 is DeltaEncodeInt32's 64-bit counterpart, used for
// timestamp/date variants with an 8-byte width, wrapping modulo 2^64.
func DeltaEncodeInt64(seq []int64) []int64 {
	out := make([]int64, len(seq))
	var prev int64
	for i, v := range seq {
		out[i] = v - prev
		prev = v
	}
	return out
}

// DeltaDecodeInt64 is the cumulative-sum inverse of DeltaEncodeInt64,
// wrapping modulo 2^64.
func DeltaDecodeInt64(seq []int64) []int64 {
	out := make([]int64, len(seq))
	var sum int64
	for i, d := range seq {
		sum += d
		out[i] = sum
	}
	return out
}

// Compress LZ4-compresses data into an opaque block. level 0 selects the
// default fast mode; level > 0 selects the high-compression mode, with the
// compressor's search depth set to 2^(6+level).
func Compress(data []byte, level int) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	var n int
	var err error
	if level > 0 {
		var c lz4.CompressorHC
		c.Level = lz4.CompressionLevel(1 << uint(6+level))
		n, err = c.CompressBlock(data, dst)
	} else {
		var c lz4.Compressor
		n, err = c.CompressBlock(data, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("bitutil: lz4 compress: %w", err)
	}

	// CompressBlock returns n == 0 when data is incompressible; store it
	// verbatim with a length-prefixed "stored" marker so Decompress always
	// has a well-formed block to read, mirroring lz4.block's own behavior
	// of falling back to an uncompressed frame.
	out := make([]byte, 4+4)
	putUint32(out[0:4], uint32(len(data)))
	if n == 0 {
		putUint32(out[4:8], 0)
		out = append(out, data...)
		return out, nil
	}
	putUint32(out[4:8], uint32(n))
	out = append(out, dst[:n]...)
	return out, nil
}

// Decompress inverts Compress.
func Decompress(blob []byte) ([]byte, error) {
	if len(blob) < 8 {
		return nil, fmt.Errorf("bitutil: lz4 block truncated")
	}
	srcLen := getUint32(blob[0:4])
	compLen := getUint32(blob[4:8])
	body := blob[8:]

	if compLen == 0 {
		if uint32(len(body)) != srcLen {
			return nil, fmt.Errorf("bitutil: lz4 stored block size mismatch")
		}
		out := make([]byte, srcLen)
		copy(out, body)
		return out, nil
	}

	if uint32(len(body)) != compLen {
		return nil, fmt.Errorf("bitutil: lz4 block truncated")
	}

	dst := make([]byte, srcLen)
	n, err := lz4.UncompressBlock(body, dst)
	if err != nil {
		return nil, fmt.Errorf("bitutil: lz4 decompress: %w", err)
	}
	if uint32(n) != srcLen {
		return nil, fmt.Errorf("bitutil: lz4 decompressed size mismatch: got %d, want %d", n, srcLen)
	}
	return dst, nil
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
