package ctoken

import (
	"github.com/gagliardetto/solana-go"

	"zupytoken/native/token"
)

// Compress builds the compress_spl_token_account instruction: SPL tokens
// leave sourceATA for the interface pool and a compressed leaf owned by
// owner is appended to the output queue. A nil keep compresses the whole
// balance; otherwise keep is what stays behind as SPL. The trailing metas
// are the Merkle tree output queue, forwarded with their arriving flags.
func Compress(feePayer, authority, tokenPool, sourceATA, owner solana.PublicKey, keep *uint64, trailing solana.AccountMetaSlice) solana.Instruction {
	var data []byte
	if keep != nil {
		data = CompressKeepData(owner, *keep)
	} else {
		data = CompressAllData(owner)
	}
	metas := solana.AccountMetaSlice{
		solana.Meta(feePayer).WRITE().SIGNER(),
		solana.Meta(authority).SIGNER(),
		solana.Meta(token.CTokenCPIAuthority),
		solana.Meta(token.LightSystemProgram),
		solana.Meta(token.RegisteredProgramPDA),
		solana.Meta(token.SPLNoop),
		solana.Meta(token.AccountCompressionAuthority),
		solana.Meta(token.AccountCompressionProgram),
		solana.Meta(token.CompressedTokenProgram),
		solana.Meta(tokenPool).WRITE(),
		solana.Meta(sourceATA).WRITE(),
		solana.Meta(token.Token2022Program),
		solana.Meta(token.SystemProgram),
	}
	metas = append(metas, trailing...)
	return solana.NewInstruction(token.CompressedTokenProgram, metas, data)
}

// DecompressToSPL builds the V2 Transfer2 instruction that releases amount
// from the interface pool into destinationSPL while spending authority's
// compressed balance. The packed indices baked into the payload address the
// metas at positions 2 through 7; reordering either side breaks the other.
// The trailing metas carry the Merkle tree, nullifier queue and noop.
func DecompressToSPL(payer, mint, destinationSPL, authority, splInterfacePDA solana.PublicKey, amount uint64, poolBump uint8, trailing solana.AccountMetaSlice) solana.Instruction {
	metas := solana.AccountMetaSlice{
		solana.Meta(token.CTokenCPIAuthority),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(mint),
		solana.Meta(destinationSPL).WRITE(),
		solana.Meta(authority).SIGNER(),
		solana.Meta(splInterfacePDA).WRITE(),
		solana.Meta(token.Token2022Program),
		solana.Meta(token.SystemProgram),
	}
	metas = append(metas, trailing...)
	return solana.NewInstruction(token.CompressedTokenProgram, metas, DecompressToSPLData(amount, poolBump))
}

// Transfer builds the V2 compressed-to-compressed transfer. authority must
// sign for the source balance.
func Transfer(feePayer, source, destination, authority solana.PublicKey, amount uint64) solana.Instruction {
	metas := solana.AccountMetaSlice{
		solana.Meta(source).WRITE(),
		solana.Meta(destination).WRITE(),
		solana.Meta(authority).SIGNER(),
		solana.Meta(token.SystemProgram),
		solana.Meta(feePayer).WRITE().SIGNER(),
	}
	return solana.NewInstruction(token.CompressedTokenProgram, metas, TransferData(amount))
}

// Burn builds the V2 compressed burn. The authority appears twice, as the
// writable source balance and as the signer; the runtime merges same-key
// entries into one writable signer.
func Burn(feePayer, authority, mint solana.PublicKey, amount uint64, trailing solana.AccountMetaSlice) solana.Instruction {
	metas := solana.AccountMetaSlice{
		solana.Meta(authority).WRITE(),
		solana.Meta(mint).WRITE(),
		solana.Meta(authority).SIGNER(),
		solana.Meta(token.SystemProgram),
		solana.Meta(feePayer).WRITE().SIGNER(),
	}
	metas = append(metas, trailing...)
	return solana.NewInstruction(token.CompressedTokenProgram, metas, BurnData(amount))
}

// V1Passthrough wraps off-chain built V1 transfer data for forwarding. The
// caller validates the discriminator prefix and sets the meta flags,
// including forcing the entity address to signer.
func V1Passthrough(metas solana.AccountMetaSlice, data []byte) solana.Instruction {
	return solana.NewInstruction(token.CompressedTokenProgram, metas, data)
}
