package core

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"zupytoken/native/common"
)

func TestParseU64(t *testing.T) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, 42)
	got, err := parseU64(buf, 0)
	if err != nil {
		t.Fatalf("parse u64: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestParseU64AtOffset(t *testing.T) {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint64(buf[4:], 7_000_000)
	got, err := parseU64(buf, 4)
	if err != nil {
		t.Fatalf("parse u64 at offset: %v", err)
	}
	if got != 7_000_000 {
		t.Fatalf("got %d, want 7000000", got)
	}
}

func TestParseU64Truncated(t *testing.T) {
	if _, err := parseU64(make([]byte, 7), 0); !errors.Is(err, common.ErrInvalidInstructionData) {
		t.Fatalf("short buffer: got %v", err)
	}
	if _, err := parseU64(make([]byte, 16), 9); !errors.Is(err, common.ErrInvalidInstructionData) {
		t.Fatalf("offset past tail: got %v", err)
	}
	if _, err := parseU64(nil, 0); !errors.Is(err, common.ErrInvalidInstructionData) {
		t.Fatalf("empty buffer: got %v", err)
	}
	if _, err := parseU64(make([]byte, 8), -1); !errors.Is(err, common.ErrInvalidInstructionData) {
		t.Fatalf("negative offset: got %v", err)
	}
}

func TestParseBool(t *testing.T) {
	cases := []struct {
		raw  byte
		want bool
	}{
		{0, false},
		{1, true},
		{255, true},
	}
	for _, tc := range cases {
		got, err := parseBool([]byte{tc.raw}, 0)
		if err != nil {
			t.Fatalf("parse bool %d: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("byte %d: got %v, want %v", tc.raw, got, tc.want)
		}
	}
	if _, err := parseBool([]byte{1}, 1); !errors.Is(err, common.ErrInvalidInstructionData) {
		t.Fatalf("out of bounds: got %v", err)
	}
}

func TestParseU8(t *testing.T) {
	got, err := parseU8([]byte{9, 254}, 1)
	if err != nil {
		t.Fatalf("parse u8: %v", err)
	}
	if got != 254 {
		t.Fatalf("got %d, want 254", got)
	}
	if _, err := parseU8(nil, 0); !errors.Is(err, common.ErrInvalidInstructionData) {
		t.Fatalf("empty buffer: got %v", err)
	}
}

func TestParseKey(t *testing.T) {
	buf := make([]byte, 40)
	for i := 0; i < 32; i++ {
		buf[4+i] = byte(i + 1)
	}
	key, next, err := parseKey(buf, 4)
	if err != nil {
		t.Fatalf("parse key: %v", err)
	}
	if next != 36 {
		t.Fatalf("next offset %d, want 36", next)
	}
	for i := 0; i < 32; i++ {
		if key[i] != byte(i+1) {
			t.Fatalf("key byte %d: got %d", i, key[i])
		}
	}
	if _, _, err := parseKey(make([]byte, 31), 0); !errors.Is(err, common.ErrInvalidInstructionData) {
		t.Fatalf("truncated key: got %v", err)
	}
}

func TestParseBytes(t *testing.T) {
	buf := []byte("xxhello-ksuid-goes-right-here")
	got, next, err := parseBytes(buf, 2, 27)
	if err != nil {
		t.Fatalf("parse bytes: %v", err)
	}
	if next != 29 {
		t.Fatalf("next offset %d, want 29", next)
	}
	if !bytes.Equal(got, buf[2:29]) {
		t.Fatalf("got %q", got)
	}
	if _, _, err := parseBytes(buf, 10, 27); !errors.Is(err, common.ErrInvalidInstructionData) {
		t.Fatalf("truncated run: got %v", err)
	}
}

func TestParseBytesDetachesFromInput(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	got, _, err := parseBytes(buf, 0, 4)
	if err != nil {
		t.Fatalf("parse bytes: %v", err)
	}
	buf[0] = 99
	if got[0] != 1 {
		t.Fatalf("copy aliases input: got %d", got[0])
	}
}

func TestParseString(t *testing.T) {
	var buf []byte
	buf = binary.LittleEndian.AppendUint32(buf, 5)
	buf = append(buf, "hello"...)
	got, next, err := parseString(buf, 0)
	if err != nil {
		t.Fatalf("parse string: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want hello", got)
	}
	if next != 9 {
		t.Fatalf("next offset %d, want 9", next)
	}
}

func TestParseStringEmpty(t *testing.T) {
	buf := binary.LittleEndian.AppendUint32(nil, 0)
	got, next, err := parseString(buf, 0)
	if err != nil {
		t.Fatalf("parse empty string: %v", err)
	}
	if got != "" || next != 4 {
		t.Fatalf("got %q at %d", got, next)
	}
}

func TestParseStringRejectsInvalidUTF8(t *testing.T) {
	var buf []byte
	buf = binary.LittleEndian.AppendUint32(buf, 2)
	buf = append(buf, 0xff, 0xfe)
	if _, _, err := parseString(buf, 0); !errors.Is(err, common.ErrInvalidInstructionData) {
		t.Fatalf("invalid utf-8: got %v", err)
	}
}

func TestParseStringLengthBeyondBuffer(t *testing.T) {
	var buf []byte
	buf = binary.LittleEndian.AppendUint32(buf, 1000)
	buf = append(buf, "short"...)
	if _, _, err := parseString(buf, 0); !errors.Is(err, common.ErrInvalidInstructionData) {
		t.Fatalf("oversized length: got %v", err)
	}
	if _, _, err := parseString([]byte{1, 0}, 0); !errors.Is(err, common.ErrInvalidInstructionData) {
		t.Fatalf("truncated length prefix: got %v", err)
	}
}

// Readers chain through returned offsets, so a composite payload of
// amount + memo decodes the same way handlers consume it.
func TestParseSequentialLayout(t *testing.T) {
	var buf []byte
	buf = binary.LittleEndian.AppendUint64(buf, 1_500_000)
	buf = binary.LittleEndian.AppendUint32(buf, 12)
	buf = append(buf, "zupy:v1:pos7"...)

	amount, err := parseU64(buf, 0)
	if err != nil {
		t.Fatalf("amount: %v", err)
	}
	memo, next, err := parseString(buf, 8)
	if err != nil {
		t.Fatalf("memo: %v", err)
	}
	if amount != 1_500_000 || memo != "zupy:v1:pos7" {
		t.Fatalf("decoded %d %q", amount, memo)
	}
	if next != len(buf) {
		t.Fatalf("next %d, want %d", next, len(buf))
	}
}
