package spltoken

import (
	"github.com/gagliardetto/solana-go"

	"zupytoken/native/token"
)

// DeriveATA returns the associated token account for a wallet and mint under
// Token-2022.
func DeriveATA(wallet, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{wallet.Bytes(), token.Token2022Program.Bytes(), mint.Bytes()},
		token.ATAProgram,
	)
}

// CreateATA builds the associated-token-program create instruction. The
// payer funds rent; owner is the wallet the new account belongs to.
func CreateATA(payer, ata, owner, mint solana.PublicKey) *solana.GenericInstruction {
	return solana.NewInstruction(
		token.ATAProgram,
		solana.AccountMetaSlice{
			solana.Meta(payer).WRITE().SIGNER(),
			solana.Meta(ata).WRITE(),
			solana.Meta(owner),
			solana.Meta(mint),
			solana.Meta(token.SystemProgram),
			solana.Meta(token.Token2022Program),
		},
		[]byte{0},
	)
}
