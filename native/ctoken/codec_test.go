package ctoken

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"zupytoken/native/common"
)

func filledKey(b byte) solana.PublicKey {
	return solana.PublicKeyFromBytes(bytes.Repeat([]byte{b}, 32))
}

func TestCompressAllDataLayout(t *testing.T) {
	owner := filledKey(0xAB)
	d := CompressAllData(owner)
	if len(d) != CompressAllDataLen {
		t.Fatalf("len = %d, want %d", len(d), CompressAllDataLen)
	}
	if !bytes.Equal(d[0:8], CompressSPLTokenAccountDisc[:]) {
		t.Fatalf("discriminator = %v", d[0:8])
	}
	if !bytes.Equal(d[8:40], owner[:]) {
		t.Fatal("owner not at [8..40]")
	}
	if d[40] != 0 {
		t.Fatalf("remaining tag = %d, want none", d[40])
	}
	if d[41] != 0 {
		t.Fatalf("cpi context tag = %d, want none", d[41])
	}
}

func TestCompressAllDataVariesOnlyByOwner(t *testing.T) {
	a := CompressAllData(filledKey(0xAA))
	b := CompressAllData(filledKey(0xBB))
	if bytes.Equal(a[8:40], b[8:40]) {
		t.Fatal("different owners must differ")
	}
	if !bytes.Equal(a[0:8], b[0:8]) {
		t.Fatal("discriminator must not vary")
	}
	if !bytes.Equal(CompressAllData(filledKey(0xAA)), a) {
		t.Fatal("builder must be deterministic")
	}
}

func TestCompressKeepDataLayout(t *testing.T) {
	owner := filledKey(0xCD)
	keep := uint64(5_000_000_000)
	d := CompressKeepData(owner, keep)
	if len(d) != CompressKeepDataLen {
		t.Fatalf("len = %d, want %d", len(d), CompressKeepDataLen)
	}
	if !bytes.Equal(d[0:8], CompressSPLTokenAccountDisc[:]) {
		t.Fatalf("discriminator = %v", d[0:8])
	}
	if !bytes.Equal(d[8:40], owner[:]) {
		t.Fatal("owner not at [8..40]")
	}
	if d[40] != 1 {
		t.Fatalf("remaining tag = %d, want some", d[40])
	}
	if got := binary.LittleEndian.Uint64(d[41:49]); got != keep {
		t.Fatalf("remaining = %d, want %d", got, keep)
	}
	if d[49] != 0 {
		t.Fatalf("cpi context tag = %d, want none", d[49])
	}
}

func TestDecompressToSPLDataLayout(t *testing.T) {
	amount := uint64(1_234_567)
	bump := uint8(253)
	d := DecompressToSPLData(amount, bump)
	if len(d) != DecompressToSPLDataLen {
		t.Fatalf("len = %d, want %d", len(d), DecompressToSPLDataLen)
	}
	if d[0] != Transfer2Disc {
		t.Fatalf("tag = %d, want %d", d[0], Transfer2Disc)
	}
	for i := 1; i < 6; i++ {
		if d[i] != 0 {
			t.Fatalf("header byte %d = %d, want 0", i, d[i])
		}
	}
	if d[6] != 0xFF || d[7] != 0xFF {
		t.Fatalf("max top-up = %v, want 0xFFFF", d[6:8])
	}
	if d[8] != 0 {
		t.Fatal("cpi context must be none")
	}
	if d[9] != 1 {
		t.Fatal("compressions must be present")
	}
	if got := binary.LittleEndian.Uint32(d[10:14]); got != 2 {
		t.Fatalf("compression count = %d, want 2", got)
	}
}

func TestDecompressToSPLDataDecompressEntry(t *testing.T) {
	amount := uint64(77_000_000)
	d := DecompressToSPLData(amount, 251)
	if d[14] != 1 {
		t.Fatalf("entry 0 mode = %d, want decompress", d[14])
	}
	if got := binary.LittleEndian.Uint64(d[15:23]); got != amount {
		t.Fatalf("entry 0 amount = %d, want %d", got, amount)
	}
	if d[23] != 0 {
		t.Fatalf("entry 0 mint index = %d, want 0", d[23])
	}
	if d[24] != 1 {
		t.Fatalf("entry 0 recipient index = %d, want 1", d[24])
	}
	if d[25] != 0 {
		t.Fatalf("entry 0 authority byte = %d, want 0", d[25])
	}
	if d[26] != 3 {
		t.Fatalf("entry 0 pool account index = %d, want 3", d[26])
	}
	if d[27] != 0 {
		t.Fatalf("entry 0 pool index = %d, want 0", d[27])
	}
	if d[28] != 251 {
		t.Fatalf("entry 0 bump = %d, want 251", d[28])
	}
	if d[29] != 6 {
		t.Fatalf("entry 0 decimals = %d, want 6", d[29])
	}
}

func TestDecompressToSPLDataCompressEntry(t *testing.T) {
	amount := uint64(77_000_000)
	d := DecompressToSPLData(amount, 251)
	if d[30] != 0 {
		t.Fatalf("entry 1 mode = %d, want compress", d[30])
	}
	if got := binary.LittleEndian.Uint64(d[31:39]); got != amount {
		t.Fatalf("entry 1 amount = %d, want %d", got, amount)
	}
	if d[39] != 0 {
		t.Fatalf("entry 1 mint index = %d, want 0", d[39])
	}
	if d[40] != 2 {
		t.Fatalf("entry 1 source index = %d, want 2", d[40])
	}
	if d[41] != 2 {
		t.Fatalf("entry 1 authority index = %d, want 2", d[41])
	}
	for i := 42; i < 46; i++ {
		if d[i] != 0 {
			t.Fatalf("entry 1 byte %d = %d, want 0", i, d[i])
		}
	}
}

func TestDecompressToSPLDataTrailingFieldsEmpty(t *testing.T) {
	d := DecompressToSPLData(1, 255)
	for i := 46; i < DecompressToSPLDataLen; i++ {
		if d[i] != 0 {
			t.Fatalf("trailing byte %d = %d, want 0", i, d[i])
		}
	}
}

func TestTransferData(t *testing.T) {
	d := TransferData(42_000_000)
	if len(d) != 9 {
		t.Fatalf("len = %d, want 9", len(d))
	}
	if d[0] != TransferDisc {
		t.Fatalf("tag = %d, want %d", d[0], TransferDisc)
	}
	if got := binary.LittleEndian.Uint64(d[1:9]); got != 42_000_000 {
		t.Fatalf("amount = %d", got)
	}
}

func TestBurnData(t *testing.T) {
	d := BurnData(9_999)
	if len(d) != 9 {
		t.Fatalf("len = %d, want 9", len(d))
	}
	if d[0] != BurnDisc {
		t.Fatalf("tag = %d, want %d", d[0], BurnDisc)
	}
	if got := binary.LittleEndian.Uint64(d[1:9]); got != 9_999 {
		t.Fatalf("amount = %d", got)
	}
}

func TestValidateV1TransferData(t *testing.T) {
	good := append(TransferV1Disc[:], 1, 2, 3)
	if err := ValidateV1TransferData(good); err != nil {
		t.Fatalf("valid prefix rejected: %v", err)
	}
	if err := ValidateV1TransferData(TransferV1Disc[:7]); !errors.Is(err, common.ErrInvalidInstructionData) {
		t.Fatalf("expected ErrInvalidInstructionData for short data, got %v", err)
	}
	bad := append(CompressSPLTokenAccountDisc[:], 1, 2, 3)
	if err := ValidateV1TransferData(bad); !errors.Is(err, common.ErrInvalidInstructionData) {
		t.Fatalf("expected ErrInvalidInstructionData for wrong prefix, got %v", err)
	}
}
