package core

import (
	"zupytoken/core/types"
	"zupytoken/native/authz"
	"zupytoken/native/common"
	"zupytoken/native/ctoken"
	"zupytoken/native/memo"
	"zupytoken/native/pda"
	"zupytoken/native/split"
	"zupytoken/native/token"
)

// transferCompanyToUser forwards a client-built V1 transfer from a company
// record to a user record. The caller assembles the full V1 payload and
// account list off chain; this handler validates the authority chain and
// both record addresses, then forwards the payload with the company record
// promoted to signer.
//
// Accounts:
//
//	0. transfer_authority (signer)
//	1. token_state
//	2. mint
//	3. company_pda        compressed source, signs the forwarded call
//	4. user_pda           compressed destination
//	5+ forwarded call accounts, client-assembled
//
// Data: company id u64, user id u64, company bump u8, user bump u8, then
// the raw V1 payload.
func (p *Processor) transferCompanyToUser(accounts []*types.Account, data []byte) error {
	if len(accounts) < 5 {
		return common.ErrNotEnoughAccounts
	}
	transferAuthority := accounts[0]
	stateAcct := accounts[1]
	mint := accounts[2]
	companyPDA := accounts[3]
	userPDA := accounts[4]

	companyID, err := parseU64(data, 0)
	if err != nil {
		return err
	}
	userID, err := parseU64(data, 8)
	if err != nil {
		return err
	}
	companyBump, err := parseU8(data, 16)
	if err != nil {
		return err
	}
	userBump, err := parseU8(data, 17)
	if err != nil {
		return err
	}
	if len(data) <= 18 {
		return common.ErrInvalidInstructionData
	}
	payload := data[18:]

	if err := ctoken.ValidateV1TransferData(payload); err != nil {
		return err
	}

	if _, err := authz.ValidateTransferCompressed(p.programID, stateAcct, transferAuthority, mint); err != nil {
		return err
	}

	companySeeds := pda.CompanySeeds(companyID, companyBump)
	if err := pda.ValidateWithSeeds(companyPDA.Key, companySeeds, p.programID); err != nil {
		return err
	}
	if err := pda.ValidateWithSeeds(userPDA.Key, pda.UserSeeds(userID, userBump), p.programID); err != nil {
		return err
	}

	forwarded := accounts[5:]
	metas := accountMetas(forwarded)
	for _, meta := range metas {
		if meta.PublicKey.Equals(companyPDA.Key) {
			meta.IsSigner = true
		}
	}

	inst := ctoken.V1Passthrough(metas, payload)
	return p.invokeSigned(inst, forwarded, companySeeds)
}

// transferUserToCompany moves an amount between two compressed balances,
// the user record signing as source owner. No token account is touched.
//
// Accounts:
//
//	0. transfer_authority        (signer)
//	1. token_state
//	2. mint
//	3. user_pda                  compressed source, signs the transfer
//	4. company_pda               compressed destination
//	5. fee_payer                 (writable, signer)
//	6. system_program
//	7. compressed_token_program
//
// Data: user id u64, company id u64, amount u64, user bump u8, company
// bump u8, then memo. Trailing proof bytes after the memo are accepted
// and ignored.
func (p *Processor) transferUserToCompany(accounts []*types.Account, data []byte) error {
	if len(accounts) < 8 {
		return common.ErrNotEnoughAccounts
	}
	transferAuthority := accounts[0]
	stateAcct := accounts[1]
	mint := accounts[2]
	userPDA := accounts[3]
	companyPDA := accounts[4]
	feePayer := accounts[5]
	systemProgram := accounts[6]
	compressedTokenProg := accounts[7]

	userID, err := parseU64(data, 0)
	if err != nil {
		return err
	}
	companyID, err := parseU64(data, 8)
	if err != nil {
		return err
	}
	amount, err := parseU64(data, 16)
	if err != nil {
		return err
	}
	userBump, err := parseU8(data, 24)
	if err != nil {
		return err
	}
	companyBump, err := parseU8(data, 25)
	if err != nil {
		return err
	}
	memoText, _, err := parseString(data, 26)
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

	if !compressedTokenProg.Key.Equals(token.CompressedTokenProgram) {
		return common.ErrInvalidTokenProgram
	}

	userSeeds := pda.UserSeeds(userID, userBump)
	if err := pda.ValidateWithSeeds(userPDA.Key, userSeeds, p.programID); err != nil {
		return err
	}
	if err := pda.ValidateWithSeeds(companyPDA.Key, pda.CompanySeeds(companyID, companyBump), p.programID); err != nil {
		return err
	}

	inst := ctoken.Transfer(feePayer.Key, userPDA.Key, companyPDA.Key, userPDA.Key, amount)
	return p.invokeSigned(inst, []*types.Account{userPDA, companyPDA, userPDA, systemProgram, feePayer}, userSeeds)
}

// executeSplitTransfer settles a markup purchase from a user's compressed
// balance in three legs: the company share, the incentive pool share, and
// a burned share. The user record signs all three calls, and the leg
// amounts come from the conserving split of the gross total.
//
// Accounts:
//
//	0. transfer_authority        (signer)
//	1. token_state
//	2. mint                      (writable) burn leg decrements supply
//	3. user_pda                  compressed source, signs all three legs
//	4. company_pda               destination of the company leg
//	5. incentive_pool_pda        destination of the incentive leg
//	6. fee_payer                 (writable, signer)
//	7. system_program
//	8. compressed_token_program
//	9+ Merkle tree, nullifier queue, noop for the burn leg
//
// Data: user id u64, company id u64, gross total u64, user bump u8,
// company bump u8, incentive bump u8, then the operation type string.
func (p *Processor) executeSplitTransfer(accounts []*types.Account, data []byte) error {
	if len(accounts) < 9 {
		return common.ErrNotEnoughAccounts
	}
	transferAuthority := accounts[0]
	stateAcct := accounts[1]
	mint := accounts[2]
	userPDA := accounts[3]
	companyPDA := accounts[4]
	incentivePoolPDA := accounts[5]
	feePayer := accounts[6]
	systemProgram := accounts[7]
	compressedTokenProg := accounts[8]

	userID, err := parseU64(data, 0)
	if err != nil {
		return err
	}
	companyID, err := parseU64(data, 8)
	if err != nil {
		return err
	}
	total, err := parseU64(data, 16)
	if err != nil {
		return err
	}
	userBump, err := parseU8(data, 24)
	if err != nil {
		return err
	}
	companyBump, err := parseU8(data, 25)
	if err != nil {
		return err
	}
	incentiveBump, err := parseU8(data, 26)
	if err != nil {
		return err
	}
	operationType, _, err := parseString(data, 27)
	if err != nil {
		return err
	}

	if total == 0 {
		return common.ErrZeroAmount
	}
	if operationType != "mixed_payment" && operationType != "z_direct" {
		return common.ErrInvalidOperationType
	}

	if _, err := authz.ValidateTransferCompressed(p.programID, stateAcct, transferAuthority, mint); err != nil {
		return err
	}

	if !compressedTokenProg.Key.Equals(token.CompressedTokenProgram) {
		return common.ErrInvalidTokenProgram
	}

	userSeeds := pda.UserSeeds(userID, userBump)
	if err := pda.ValidateWithSeeds(userPDA.Key, userSeeds, p.programID); err != nil {
		return err
	}
	if err := pda.ValidateWithSeeds(companyPDA.Key, pda.CompanySeeds(companyID, companyBump), p.programID); err != nil {
		return err
	}
	if err := pda.ValidateWithSeeds(incentivePoolPDA.Key, pda.IncentivePoolSeeds(incentiveBump), p.programID); err != nil {
		return err
	}

	shares, err := split.Calculate(total)
	if err != nil {
		return err
	}

	companyLeg := ctoken.Transfer(feePayer.Key, userPDA.Key, companyPDA.Key, userPDA.Key, shares.Company)
	if err := p.invokeSigned(companyLeg, []*types.Account{userPDA, companyPDA, userPDA, systemProgram, feePayer}, userSeeds); err != nil {
		return err
	}

	incentiveLeg := ctoken.Transfer(feePayer.Key, userPDA.Key, incentivePoolPDA.Key, userPDA.Key, shares.Incentive)
	if err := p.invokeSigned(incentiveLeg, []*types.Account{userPDA, incentivePoolPDA, userPDA, systemProgram, feePayer}, userSeeds); err != nil {
		return err
	}

	trailing := accounts[9:]
	burnLeg := ctoken.Burn(feePayer.Key, userPDA.Key, mint.Key, shares.Burn, accountMetas(trailing))
	burnAccounts := append([]*types.Account{userPDA, mint, userPDA, systemProgram, feePayer}, trailing...)
	return p.invokeSigned(burnLeg, burnAccounts, userSeeds)
}
