package core

import (
	"zupytoken/core/types"
	"zupytoken/native/authz"
	"zupytoken/native/common"
	"zupytoken/native/ctoken"
	"zupytoken/native/memo"
	"zupytoken/native/pda"
	"zupytoken/native/spltoken"
	"zupytoken/native/token"
)

// burnTokens burns from a regular token account. The treasury authorizes
// the burn and the account holder co-signs, so neither party can destroy
// balances alone. Runs while paused, supply reduction stays available
// during an incident.
//
// Accounts:
//
//	0. authority           (signer) must be the treasury
//	1. token_state
//	2. mint                (writable)
//	3. token_account       (writable)
//	4. token_account_owner (signer)
//	5. token_program
//
// Data: amount u64, then memo.
func (p *Processor) burnTokens(accounts []*types.Account, data []byte) error {
	if len(accounts) < 6 {
		return common.ErrNotEnoughAccounts
	}
	authority := accounts[0]
	stateAcct := accounts[1]
	mint := accounts[2]
	tokenAccount := accounts[3]
	tokenAccountOwner := accounts[4]
	tokenProgram := accounts[5]

	amount, err := parseU64(data, 0)
	if err != nil {
		return err
	}
	memoText, _, err := parseString(data, 8)
	if err != nil {
		return err
	}

	if amount == 0 {
		return common.ErrZeroAmount
	}
	if err := memo.Validate(memoText); err != nil {
		return err
	}

	if _, err := authz.ValidateStateBase(p.programID, stateAcct); err != nil {
		return err
	}

	state, err := token.ViewState(stateAcct.Data)
	if err != nil {
		return err
	}

	if !authority.Signer {
		return common.ErrInvalidAuthority
	}
	if !state.IsTreasury(authority.Key) {
		return common.ErrInvalidAuthority
	}
	if !tokenAccountOwner.Signer {
		return common.ErrInvalidAuthority
	}

	if !mint.OwnedBy(token.Token2022Program) {
		return common.ErrInvalidMint
	}
	if !state.Mint().Equals(mint.Key) {
		return common.ErrInvalidMint
	}

	if !tokenAccount.OwnedBy(token.Token2022Program) {
		return common.ErrInvalidAuthority
	}
	holding, err := spltoken.ViewAccount(tokenAccount.Data)
	if err != nil {
		return err
	}
	if !holding.Mint().Equals(mint.Key) {
		return common.ErrInvalidMint
	}

	if !tokenProgram.Key.Equals(token.Token2022Program) {
		return common.ErrInvalidTokenProgram
	}

	if holding.Amount() < amount {
		return common.ErrInsufficientBalance
	}

	inst := spltoken.Burn(tokenAccount.Key, mint.Key, tokenAccountOwner.Key, amount)
	return p.invoke(inst, tokenAccount, mint, tokenAccountOwner)
}

// burnFromCompanyPDA burns from a company's compressed balance, the
// company record signing as balance owner. The bump is derived on chain
// rather than taken from the caller, so only the canonical record can
// sign.
//
// Accounts:
//
//	0. transfer_authority        (signer)
//	1. token_state
//	2. mint                      (writable)
//	3. company_pda
//	4. fee_payer                 (writable, signer)
//	5. system_program
//	6. compressed_token_program
//	7+ Merkle tree, nullifier queue, noop
//
// Data: company id u64, amount u64, then memo.
func (p *Processor) burnFromCompanyPDA(accounts []*types.Account, data []byte) error {
	if len(accounts) < 7 {
		return common.ErrNotEnoughAccounts
	}
	transferAuthority := accounts[0]
	stateAcct := accounts[1]
	mint := accounts[2]
	companyPDA := accounts[3]
	feePayer := accounts[4]
	systemProgram := accounts[5]
	compressedTokenProg := accounts[6]

	companyID, err := parseU64(data, 0)
	if err != nil {
		return err
	}
	amount, err := parseU64(data, 8)
	if err != nil {
		return err
	}
	memoText, _, err := parseString(data, 16)
	if err != nil {
		return err
	}

	if amount == 0 {
		return common.ErrZeroAmount
	}
	if err := memo.Validate(memoText); err != nil {
		return err
	}

	if _, err := authz.ValidateTransferCompressed(p.programID, stateAcct, transferAuthority, mint); err != nil {
		return err
	}

	if err := authz.AssertSigner(feePayer); err != nil {
		return err
	}
	if !systemProgram.Key.Equals(token.SystemProgram) {
		return common.ErrIncorrectProgramID
	}
	if !compressedTokenProg.Key.Equals(token.CompressedTokenProgram) {
		return common.ErrIncorrectProgramID
	}

	expected, companyBump, err := pda.Company(p.programID, companyID)
	if err != nil {
		return common.ErrInvalidPDA
	}
	if err := pda.ValidateExpected(companyPDA.Key, expected); err != nil {
		return err
	}

	trailing := accounts[7:]
	inst := ctoken.Burn(feePayer.Key, companyPDA.Key, mint.Key, amount, accountMetas(trailing))
	invAccounts := append([]*types.Account{companyPDA, mint, companyPDA, systemProgram, feePayer}, trailing...)
	return p.invokeSigned(inst, invAccounts, pda.CompanySeeds(companyID, companyBump))
}
