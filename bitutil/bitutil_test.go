package bitutil

import (
	"bytes"
	"testing"
)

func TestMakeValidityAllValidTrailingBitsZero(t *testing.T) {
	v := MakeValidityAllValid(5)
	if len(v) != 1 {
		t.Fatalf("len(v) = %d, want 1", len(v))
	}
	if v[0] != 0b00011111 {
		t.Errorf("v[0] = %08b, want 00011111", v[0])
	}
}

func TestMakeValidityAllValidEmpty(t *testing.T) {
	v := MakeValidityAllValid(0)
	if len(v) != 0 {
		t.Fatalf("len(v) = %d, want 0", len(v))
	}
}

func TestMakeValidityFromBitsRejectsTrailingGarbage(t *testing.T) {
	if _, err := MakeValidityFromBits([]byte{0xFF}, 5); err == nil {
		t.Fatal("expected error for non-zero trailing bits")
	}
	if _, err := MakeValidityFromBits([]byte{0b00011111}, 5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPackUnpackBitsRoundtrip(t *testing.T) {
	bools := []bool{true, false, true, true, false, false, true, false, true}
	packed := PackBits(bools)
	got := UnpackBits(packed, len(bools))

	if len(got) != len(bools) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(bools))
	}
	for i := range bools {
		if got[i] != bools[i] {
			t.Errorf("bit %d: got %v, want %v", i, got[i], bools[i])
		}
	}
}

func TestPackBitsLSBFirst(t *testing.T) {
	// bit 0 set, rest clear -> byte should be 0b00000001
	packed := PackBits([]bool{true, false, false, false, false, false, false, false})
	if packed[0] != 0b00000001 {
		t.Errorf("packed[0] = %08b, want 00000001", packed[0])
	}
}

func TestCountsOffsetsRoundtrip(t *testing.T) {
	// ["", "ab", "", "c"] -> offsets [0, 0, 2, 2, 3], counts [0, 0, 2, 0, 1]
	offsets := []int32{0, 0, 2, 2, 3}
	counts := CountsFromOffsets(offsets)
	want := []int32{0, 0, 2, 0, 1}
	if !equalInt32(counts, want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}

	back := OffsetsFromCounts(counts)
	if !equalInt32(back, offsets) {
		t.Errorf("offsets = %v, want %v", back, offsets)
	}
}

func TestDeltaEncodeDecodeInt32(t *testing.T) {
	seq := []int32{10, 11, 13, 13, 20}
	encoded := DeltaEncodeInt32(seq)
	want := []int32{10, 1, 2, 0, 7}
	if !equalInt32(encoded, want) {
		t.Fatalf("encoded = %v, want %v", encoded, want)
	}

	decoded := DeltaDecodeInt32(encoded)
	if !equalInt32(decoded, seq) {
		t.Errorf("decoded = %v, want %v", decoded, seq)
	}
}

func TestDeltaEncodeDecodeInt64Overflow(t *testing.T) {
	seq := []int64{1, -9223372036854775808, 9223372036854775807}
	encoded := DeltaEncodeInt64(seq)
	decoded := DeltaDecodeInt64(encoded)

	for i := range seq {
		if decoded[i] != seq[i] {
			t.Errorf("decoded[%d] = %d, want %d", i, decoded[i], seq[i])
		}
	}
}

func TestCompressDecompressRoundtrip(t *testing.T) {
	data := bytes.Repeat([]byte("columnar-bson-round-trip"), 64)

	for _, level := range []int{0, 1, 6} {
		blob, err := Compress(data, level)
		if err != nil {
			t.Fatalf("level %d: Compress failed: %v", level, err)
		}

		back, err := Decompress(blob)
		if err != nil {
			t.Fatalf("level %d: Decompress failed: %v", level, err)
		}

		if !bytes.Equal(back, data) {
			t.Errorf("level %d: roundtrip mismatch", level)
		}
	}
}

func TestCompressDecompressEmpty(t *testing.T) {
	blob, err := Compress(nil, 0)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	back, err := Decompress(blob)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}

	if len(back) != 0 {
		t.Errorf("len(back) = %d, want 0", len(back))
	}
}

func equalInt32(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
