package core

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"

	"zupytoken/native/common"
)

// Instruction payload readers. Every reader bounds-checks before touching
// the slice and rejects with ErrInvalidInstructionData, so a truncated or
// hostile payload can never panic a handler. Offsets are byte positions
// into the payload after the discriminator has been stripped.

func parseU64(data []byte, offset int) (uint64, error) {
	if offset < 0 || len(data)-offset < 8 {
		return 0, common.ErrInvalidInstructionData
	}
	return binary.LittleEndian.Uint64(data[offset : offset+8]), nil
}

func parseBool(data []byte, offset int) (bool, error) {
	if offset < 0 || len(data)-offset < 1 {
		return false, common.ErrInvalidInstructionData
	}
	return data[offset] != 0, nil
}

func parseU8(data []byte, offset int) (uint8, error) {
	if offset < 0 || len(data)-offset < 1 {
		return 0, common.ErrInvalidInstructionData
	}
	return data[offset], nil
}

// parseKey reads a 32-byte public key and returns the offset just past it.
func parseKey(data []byte, offset int) (solana.PublicKey, int, error) {
	if offset < 0 || len(data)-offset < 32 {
		return solana.PublicKey{}, 0, common.ErrInvalidInstructionData
	}
	return solana.PublicKeyFromBytes(data[offset : offset+32]), offset + 32, nil
}

// parseBytes copies n raw bytes out of the payload and returns the offset
// just past them.
func parseBytes(data []byte, offset, n int) ([]byte, int, error) {
	if offset < 0 || n < 0 || len(data)-offset < n {
		return nil, 0, common.ErrInvalidInstructionData
	}
	out := make([]byte, n)
	copy(out, data[offset:offset+n])
	return out, offset + n, nil
}

// parseString reads a length-prefixed string: u32 little-endian byte count
// followed by that many bytes of UTF-8. Invalid UTF-8 rejects rather than
// being replaced, since memos and metadata values round-trip into
// off-chain systems verbatim.
func parseString(data []byte, offset int) (string, int, error) {
	if offset < 0 || len(data)-offset < 4 {
		return "", 0, common.ErrInvalidInstructionData
	}
	n := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
	start := offset + 4
	if len(data)-start < n {
		return "", 0, common.ErrInvalidInstructionData
	}
	raw := data[start : start+n]
	if !utf8.Valid(raw) {
		return "", 0, common.ErrInvalidInstructionData
	}
	return string(raw), start + n, nil
}
