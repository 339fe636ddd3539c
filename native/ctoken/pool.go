package ctoken

import (
	"github.com/gagliardetto/solana-go"

	"zupytoken/native/token"
)

// DeriveSPLInterfacePDA derives the compressed-token program's SPL pool
// address for a mint, seeds ["pool", mint]. The bump rides inside the
// decompress payload, so callers need both.
func DeriveSPLInterfacePDA(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{[]byte("pool"), mint.Bytes()},
		token.CompressedTokenProgram,
	)
}
