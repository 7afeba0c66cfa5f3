package main

import (
	"encoding/binary"
	"testing"
)

func TestBinaryReaderBasicFields(t *testing.T) {
	buf := []byte{
		0x01,       // u8
		0xFE,       // i8 (-2)
		0x00, 0x02, // u16 BE = 2
		0xFF, 0xFF, 0xFF, 0xFE, // i32 BE = -2
	}
	r := NewBinaryReader(buf)

	u8, err := r.ReadU8()
	if err != nil || u8 != 0x01 {
		t.Fatalf("ReadU8: got (%d, %v), want (1, nil)", u8, err)
	}

	i8, err := r.ReadI8()
	if err != nil || i8 != -2 {
		t.Fatalf("ReadI8: got (%d, %v), want (-2, nil)", i8, err)
	}

	u16, err := r.ReadU16(binary.BigEndian)
	if err != nil || u16 != 2 {
		t.Fatalf("ReadU16: got (%d, %v), want (2, nil)", u16, err)
	}

	i32, err := r.ReadI32(binary.BigEndian)
	if err != nil || i32 != -2 {
		t.Fatalf("ReadI32: got (%d, %v), want (-2, nil)", i32, err)
	}

	if r.Remaining() != 0 {
		t.Errorf("expected Remaining() == 0 after consuming the buffer, got %d", r.Remaining())
	}
}

func TestBinaryReaderReadPastEnd(t *testing.T) {
	r := NewBinaryReader([]byte{0x01, 0x02})
	if _, err := r.ReadU32(binary.BigEndian); err == nil {
		t.Fatal("expected ReadU32 on a 2-byte buffer to fail")
	} else if _, ok := err.(*ReadPastEnd); !ok {
		t.Errorf("expected *ReadPastEnd, got %T", err)
	}

	// position should not have advanced on failure
	if r.Position() != 0 {
		t.Errorf("expected Position() == 0 after a failed read, got %d", r.Position())
	}
}

func TestBinaryReaderReadUintVariableWidth(t *testing.T) {
	cases := []struct {
		width int
		buf   []byte
		want  uint64
	}{
		{1, []byte{0x7F}, 0x7F},
		{2, []byte{0x01, 0x00}, 0x100},
		{3, []byte{0x00, 0x01, 0x00}, 0x100},
		{5, []byte{0x00, 0x00, 0x00, 0x01, 0x00}, 0x100},
		{8, []byte{0, 0, 0, 0, 0, 0, 0x01, 0x00}, 0x100},
	}

	for _, c := range cases {
		r := NewBinaryReader(c.buf)
		got, err := r.ReadUint(c.width)
		if err != nil {
			t.Errorf("ReadUint(%d): unexpected error %v", c.width, err)
			continue
		}
		if got != c.want {
			t.Errorf("ReadUint(%d): got %d, want %d", c.width, got, c.want)
		}
	}
}

func TestBinaryReaderReadUintInvalidWidth(t *testing.T) {
	r := NewBinaryReader(make([]byte, 16))
	if _, err := r.ReadUint(0); err == nil {
		t.Error("expected error for width 0")
	}
	if _, err := r.ReadUint(9); err == nil {
		t.Error("expected error for width 9")
	}
}

func TestBinaryReaderReadFixedStringTruncatesAtNUL(t *testing.T) {
	buf := append([]byte("hello"), 0, 0, 0)
	r := NewBinaryReader(buf)
	s, err := r.ReadFixedString(len(buf))
	if err != nil {
		t.Fatalf("ReadFixedString: %v", err)
	}
	if s != "hello" {
		t.Errorf("ReadFixedString: got %q, want %q", s, "hello")
	}
	if r.Position() != len(buf) {
		t.Errorf("ReadFixedString should advance by the full field width: got pos %d, want %d", r.Position(), len(buf))
	}
}

func TestBinaryReaderReadFixedStringNoNUL(t *testing.T) {
	r := NewBinaryReader([]byte("abcd"))
	s, err := r.ReadFixedString(4)
	if err != nil {
		t.Fatalf("ReadFixedString: %v", err)
	}
	if s != "abcd" {
		t.Errorf("ReadFixedString: got %q, want %q", s, "abcd")
	}
}

func TestBinaryReaderReadF32LEIsLittleEndianRegardlessOfOtherFields(t *testing.T) {
	// 1.0f32 little-endian: 00 00 80 3F
	r := NewBinaryReader([]byte{0x00, 0x00, 0x80, 0x3F})
	f, err := r.ReadF32LE()
	if err != nil {
		t.Fatalf("ReadF32LE: %v", err)
	}
	if f != 1.0 {
		t.Errorf("ReadF32LE: got %f, want 1.0", f)
	}
}
