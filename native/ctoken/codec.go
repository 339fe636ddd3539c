// Package ctoken builds the wire payloads and account tables for the
// compressed-token program. Two interface generations are live on-chain:
// the V1 interface (Anchor 8-byte transfer discriminator, the only transfer
// path on mainnet) and the V2 interface (single-byte tags, devnet). Every
// builder here is byte-exact; the tests pin each offset.
package ctoken

import (
	"bytes"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"zupytoken/native/common"
	"zupytoken/native/token"
)

// CompressSPLTokenAccountDisc is the Anchor discriminator for
// compress_spl_token_account, SHA256("global:compress_spl_token_account")[0..8].
// The one compress path shared by both interface generations.
var CompressSPLTokenAccountDisc = [8]byte{112, 230, 105, 101, 145, 202, 157, 97}

// TransferV1Disc is the Anchor discriminator for the V1 unified transfer,
// SHA256("global:transfer")[0..8]. Mainnet decompress rides this instruction
// with is_compress=false.
var TransferV1Disc = [8]byte{163, 52, 200, 231, 140, 3, 69, 186}

// V2 single-byte tags.
const (
	// Transfer2Disc dispatches the V2 Transfer2 interface.
	Transfer2Disc byte = 101
	// TransferDisc moves value between two compressed balances.
	TransferDisc byte = 3
	// BurnDisc nullifies a compressed balance and decrements mint supply.
	BurnDisc byte = 8
)

// Payload sizes.
const (
	CompressAllDataLen     = 42
	CompressKeepDataLen    = 50
	DecompressToSPLDataLen = 59
)

// ValidateV1TransferData checks that forwarded instruction data carries the
// V1 transfer discriminator. The passthrough instructions accept raw bytes
// from off-chain; without this gate they could be pointed at any
// compressed-token instruction.
func ValidateV1TransferData(data []byte) error {
	if len(data) < 8 {
		return common.ErrInvalidInstructionData
	}
	if !bytes.Equal(data[:8], TransferV1Disc[:]) {
		return common.ErrInvalidInstructionData
	}
	return nil
}

// CompressAllData encodes compress_spl_token_account with no remaining
// amount: the entire source balance moves into a compressed leaf owned by
// owner.
//
//	[0..8]  discriminator
//	[8..40] owner
//	[40]    remaining amount tag = 0 (none)
//	[41]    cpi context tag = 0 (none)
func CompressAllData(owner solana.PublicKey) []byte {
	d := make([]byte, CompressAllDataLen)
	copy(d[0:8], CompressSPLTokenAccountDisc[:])
	copy(d[8:40], owner[:])
	return d
}

// CompressKeepData encodes compress_spl_token_account with a remaining
// amount. keep is the balance LEFT in the source account afterwards, so
// compressing amount out of balance means keep = balance - amount.
//
//	[0..8]   discriminator
//	[8..40]  owner
//	[40]     remaining amount tag = 1
//	[41..49] remaining amount, u64 LE
//	[49]     cpi context tag = 0 (none)
func CompressKeepData(owner solana.PublicKey, keep uint64) []byte {
	d := make([]byte, CompressKeepDataLen)
	copy(d[0:8], CompressSPLTokenAccountDisc[:])
	copy(d[8:40], owner[:])
	d[40] = 1
	binary.LittleEndian.PutUint64(d[41:49], keep)
	return d
}

// DecompressToSPLData encodes the V2 Transfer2 payload that releases amount
// from the pool held at the SPL interface address while spending the same
// amount from the signer's compressed balance. Two compression entries run
// atomically against the packed account list of the decompress table: the
// mint at packed index 0, the SPL destination at 1, the compressed authority
// at 2, the interface pool at 3.
//
//	[0]      tag = 101
//	[1..6]   header flags and indices, all zero
//	[6..8]   max top-up = 0xFFFF (no limit)
//	[8]      cpi context = none
//	[9]      compressions tag = 1 (present)
//	[10..14] compression count = 2, u32 LE
//	[14..30] entry 0, decompress: mode 1, amount u64 LE, mint 0, recipient 1,
//	         unused 0, pool account 3, pool 0, bump, decimals
//	[30..46] entry 1, compress: mode 0, amount u64 LE, mint 0, source 2,
//	         authority 2, unused zeros
//	[46]     proof = none
//	[47..55] in/out token data, empty vecs
//	[55..59] lamports and tlv options, all none
func DecompressToSPLData(amount uint64, poolBump uint8) []byte {
	d := make([]byte, DecompressToSPLDataLen)
	d[0] = Transfer2Disc
	d[6] = 0xFF
	d[7] = 0xFF
	d[9] = 1
	d[10] = 2
	d[14] = 1
	binary.LittleEndian.PutUint64(d[15:23], amount)
	d[24] = 1
	d[26] = 3
	d[28] = poolBump
	d[29] = token.Decimals
	binary.LittleEndian.PutUint64(d[31:39], amount)
	d[40] = 2
	d[41] = 2
	return d
}

// TransferData encodes a V2 compressed-to-compressed transfer.
func TransferData(amount uint64) []byte {
	d := make([]byte, 9)
	d[0] = TransferDisc
	binary.LittleEndian.PutUint64(d[1:9], amount)
	return d
}

// BurnData encodes a V2 compressed burn.
func BurnData(amount uint64) []byte {
	d := make([]byte, 9)
	d[0] = BurnDisc
	binary.LittleEndian.PutUint64(d[1:9], amount)
	return d
}
