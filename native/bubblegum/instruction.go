// Package bubblegum assembles the Bubblegum mint_v1 call used to append
// coupon leaves to a state-compressed Merkle tree. Only the fields this
// program sets are encoded; everything optional is pinned to its absent
// variant so the payload stays deterministic.
package bubblegum

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"zupytoken/native/token"
)

// MintV1Disc is SHA256("global:mint_v1")[0..8].
var MintV1Disc = [8]byte{145, 98, 192, 118, 184, 147, 118, 104}

// MintV1Data encodes the mint_v1 payload. The metadata args are fixed to
// an immutable primary-sale NonFungible with no royalties, no edition
// nonce, no collection, no uses and no creators.
func MintV1Data(name, symbol, uri string) []byte {
	size := 8 + 4 + len(name) + 4 + len(symbol) + 4 + len(uri) + 13
	data := make([]byte, 0, size)
	data = append(data, MintV1Disc[:]...)
	data = appendString(data, name)
	data = appendString(data, symbol)
	data = appendString(data, uri)
	data = append(data,
		0, 0, // seller_fee_basis_points
		1,    // primary_sale_happened
		0,    // is_mutable
		0,    // edition_nonce: absent
		1, 0, // token_standard: NonFungible
		0,          // collection: absent
		0,          // uses: absent
		0,          // token_program_version: original
		0, 0, 0, 0, // creators: empty
	)
	return data
}

func appendString(data []byte, s string) []byte {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
	data = append(data, n[:]...)
	return append(data, s...)
}

// MintV1 builds the mint_v1 instruction. The leaf delegate is the leaf
// owner, and the tree authority signs as tree delegate on the outer
// transaction.
func MintV1(treeConfig, leafOwner, merkleTree, payer, treeAuthority, logWrapper, compressionProgram solana.PublicKey, name, symbol, uri string) solana.Instruction {
	metas := solana.AccountMetaSlice{
		solana.Meta(treeConfig).WRITE(),
		solana.Meta(leafOwner),
		solana.Meta(leafOwner),
		solana.Meta(merkleTree).WRITE(),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(treeAuthority).SIGNER(),
		solana.Meta(logWrapper),
		solana.Meta(compressionProgram),
		solana.Meta(token.SystemProgram),
	}
	return solana.NewInstruction(token.BubblegumProgram, metas, MintV1Data(name, symbol, uri))
}
