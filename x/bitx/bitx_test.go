package bitx

import "testing"

func TestWidthAndSigned(t *testing.T) {
	if Width[uint8]() != 8 || Width[int16]() != 16 || Width[uint32]() != 32 || Width[int64]() != 64 {
		t.Fatalf("Width mismatch")
	}
	if !Signed[int8]() || Signed[uint8]() || !Signed[int64]() || Signed[uint]() {
		t.Fatalf("Signed mismatch")
	}
}

func TestMasks(t *testing.T) {
	if got := Mask[uint8](3); got != 0x08 {
		t.Fatalf("Mask = %#x", got)
	}
	if got := MaskRange[uint8](2, 3); got != 0x1C {
		t.Fatalf("MaskRange = %#x", got)
	}
	if got := MaskRange[uint8](0, 8); got != 0xFF {
		t.Fatalf("MaskRange full = %#x", got)
	}
	if got := MaskRange[uint16](4, 0); got != 0 {
		t.Fatalf("MaskRange empty = %#x", got)
	}
}

func TestPatternAndHighestBit(t *testing.T) {
	if got := Pattern[int8](-1); got != 0xFF {
		t.Fatalf("Pattern(int8 -1) = %#x", got)
	}
	if got := Pattern[int16](-32768); got != 0x8000 {
		t.Fatalf("Pattern(int16 min) = %#x", got)
	}
	if HighestBitSet[uint8](0) != -1 || HighestBitSet[uint8](0x80) != 7 || HighestBitSet[int8](-1) != 7 {
		t.Fatalf("HighestBitSet mismatch")
	}
}

func TestCRC8(t *testing.T) {
	cases := []struct {
		in   string
		want byte
	}{
		{"\xBE\xEF", 0x92},
		{"123456789", 0xF7},
		{"", 0xFF},
	}
	for _, c := range cases {
		if got := CRC8([]byte(c.in), 0x31, 0xFF); got != c.want {
			t.Fatalf("CRC8(% X) = %#x, want %#x", c.in, got, c.want)
		}
	}
}
