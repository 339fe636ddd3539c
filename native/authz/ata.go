package authz

import (
	"github.com/gagliardetto/solana-go"

	"zupytoken/core/types"
	"zupytoken/native/common"
	"zupytoken/native/spltoken"
	"zupytoken/native/token"
)

// ValidateSourceATA checks a source token account: Token-2022 ownership
// first, then the mint, then the balance owner.
func ValidateSourceATA(ata *types.Account, expectedMint, expectedOwner solana.PublicKey) error {
	if !ata.OwnedBy(token.Token2022Program) {
		return common.ErrInvalidAuthority
	}
	view, err := spltoken.ViewAccount(ata.Data)
	if err != nil {
		return err
	}
	if !view.Mint().Equals(expectedMint) {
		return common.ErrInvalidMint
	}
	if !view.Owner().Equals(expectedOwner) {
		return common.ErrInvalidAuthority
	}
	return nil
}

// ValidateDestinationATAIfExists checks an already allocated destination
// token account and lets an unallocated one pass; the handler creates it in
// flight.
func ValidateDestinationATAIfExists(ata *types.Account, expectedMint solana.PublicKey) error {
	if ata.DataLen() == 0 {
		return nil
	}
	if !ata.OwnedBy(token.Token2022Program) {
		return common.ErrInvalidAuthority
	}
	view, err := spltoken.ViewAccount(ata.Data)
	if err != nil {
		return err
	}
	if !view.Mint().Equals(expectedMint) {
		return common.ErrInvalidMint
	}
	return nil
}

// TokenBalance reads the balance of a token account the caller already
// verified is owned by Token-2022.
func TokenBalance(acct *types.Account) (uint64, error) {
	view, err := spltoken.ViewAccount(acct.Data)
	if err != nil {
		return 0, err
	}
	return view.Amount(), nil
}
