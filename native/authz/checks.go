// Package authz holds the ordered account check chains every instruction
// runs before touching state. Check order is part of the contract: callers
// depend on which failure surfaces first.
package authz

import (
	"github.com/gagliardetto/solana-go"

	"zupytoken/core/types"
	"zupytoken/native/common"
)

// AssertSigner rejects an account that did not sign the transaction.
func AssertSigner(acct *types.Account) error {
	if acct == nil || !acct.Signer {
		return common.ErrInvalidAuthority
	}
	return nil
}

// AssertOwner rejects an account not owned by the expected program.
func AssertOwner(acct *types.Account, owner solana.PublicKey) error {
	if !acct.OwnedBy(owner) {
		return common.ErrInvalidAuthority
	}
	return nil
}

// AssertKeyEq rejects an account whose address differs from the expected
// key.
func AssertKeyEq(acct *types.Account, expected solana.PublicKey) error {
	if acct == nil || !acct.Key.Equals(expected) {
		return common.ErrInvalidPDA
	}
	return nil
}

// AssertProgramID rejects an account not owned by the given program. Alias
// of AssertOwner with program-centric naming.
func AssertProgramID(acct *types.Account, programID solana.PublicKey) error {
	return AssertOwner(acct, programID)
}
