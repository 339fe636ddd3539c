package core

import (
	"zupytoken/core/types"
	"zupytoken/native/authz"
	"zupytoken/native/common"
	"zupytoken/native/ctoken"
	"zupytoken/native/memo"
	"zupytoken/native/pda"
	"zupytoken/native/token"
)

// The return family moves compressed balances back into the distribution
// pool. Two wire paths exist: the V2 path decompresses through Transfer2,
// and the V1 path forwards a client-built mainnet payload verbatim. Each
// path comes in a company and a user flavor that differ only in the seed
// set signing the release.

// returnToPool releases a company's compressed balance into the pool.
func (p *Processor) returnToPool(accounts []*types.Account, data []byte) error {
	return p.decompressToPool(accounts, data, pda.CompanySeeds)
}

// returnUserToPool releases a user's compressed balance into the pool.
func (p *Processor) returnUserToPool(accounts []*types.Account, data []byte) error {
	return p.decompressToPool(accounts, data, pda.UserSeeds)
}

// returnToPoolV1 forwards a client-built V1 transfer with the company
// record signing.
func (p *Processor) returnToPoolV1(accounts []*types.Account, data []byte) error {
	return p.v1PassthroughToPool(accounts, data, pda.CompanySeeds)
}

// returnUserToPoolV1 forwards a client-built V1 transfer with the user
// record signing.
func (p *Processor) returnUserToPoolV1(accounts []*types.Account, data []byte) error {
	return p.v1PassthroughToPool(accounts, data, pda.UserSeeds)
}

// decompressToPool is the V2 path shared by the company and user variants.
// seedFor builds the entity seed set that signs the release.
//
// Accounts:
//
//	0.  transfer_authority           (signer)
//	1.  token_state
//	2.  mint
//	3.  entity_pda                   compressed source
//	4.  pool_ata                     (writable) destination
//	5.  fee_payer                    (writable, signer)
//	6.  token_program
//	7.  system_program
//	8.  compressed_token_program
//	9.  compressed_token_authority
//	10. spl_interface_pda            (writable)
//	11+ Merkle tree, nullifier queue, noop
//
// Data: entity id u64, amount u64, entity bump u8, then memo.
func (p *Processor) decompressToPool(accounts []*types.Account, data []byte, seedFor func(uint64, uint8) [][]byte) error {
	if len(accounts) < 11 {
		return common.ErrNotEnoughAccounts
	}
	transferAuthority := accounts[0]
	stateAcct := accounts[1]
	mint := accounts[2]
	entityPDA := accounts[3]
	poolATA := accounts[4]
	feePayer := accounts[5]
	tokenProgram := accounts[6]
	systemProgram := accounts[7]
	compressedTokenProg := accounts[8]
	compressedTokenAuth := accounts[9]
	splInterfacePDA := accounts[10]

	entityID, err := parseU64(data, 0)
	if err != nil {
		return err
	}
	amount, err := parseU64(data, 8)
	if err != nil {
		return err
	}
	entityBump, err := parseU8(data, 16)
	if err != nil {
		return err
	}
	memoText, _, err := parseString(data, 17)
	if err != nil {
		return err
	}

	if amount == 0 {
		return common.ErrZeroAmount
	}
	if err := memo.Validate(memoText); err != nil {
		return err
	}

	if _, err := authz.ValidateTransferCommon(p.programID, stateAcct, transferAuthority, mint, tokenProgram); err != nil {
		return err
	}

	if err := authz.AssertSigner(feePayer); err != nil {
		return err
	}

	if !compressedTokenProg.Key.Equals(token.CompressedTokenProgram) {
		return common.ErrIncorrectProgramID
	}
	if !compressedTokenAuth.Key.Equals(token.CTokenCPIAuthority) {
		return common.ErrIncorrectProgramID
	}

	entitySeeds := seedFor(entityID, entityBump)
	if err := pda.ValidateWithSeeds(entityPDA.Key, entitySeeds, p.programID); err != nil {
		return err
	}

	state, err := token.ViewState(stateAcct.Data)
	if err != nil {
		return err
	}
	if !state.PoolATA().Equals(poolATA.Key) {
		return common.ErrInvalidPoolAccount
	}
	if !poolATA.OwnedBy(token.Token2022Program) {
		return common.ErrInvalidPoolAccount
	}

	expectedPool, poolBump, err := ctoken.DeriveSPLInterfacePDA(mint.Key)
	if err != nil {
		return common.ErrInvalidPDA
	}
	if err := pda.ValidateExpected(splInterfacePDA.Key, expectedPool); err != nil {
		return err
	}

	trailing := accounts[11:]
	inst := ctoken.DecompressToSPL(feePayer.Key, mint.Key, poolATA.Key, entityPDA.Key, splInterfacePDA.Key, amount, poolBump, accountMetas(trailing))
	invAccounts := append([]*types.Account{
		compressedTokenAuth, feePayer, mint, poolATA, entityPDA,
		splInterfacePDA, tokenProgram, systemProgram,
	}, trailing...)
	return p.invokeSigned(inst, invAccounts, entitySeeds)
}

// v1PassthroughToPool is the V1 path shared by the company and user
// variants. The caller assembles the full V1 payload off chain; this
// handler validates it starts with the V1 transfer discriminator, runs
// the usual authority chain, then forwards it with the entity record
// promoted to signer.
//
// Accounts:
//
//	0. transfer_authority (signer)
//	1. token_state
//	2. mint
//	3. entity_pda
//	4. pool_ata
//	5. token_program
//	6+ forwarded call accounts, client-assembled
//
// Data: entity id u64, entity bump u8, then the raw V1 payload.
func (p *Processor) v1PassthroughToPool(accounts []*types.Account, data []byte, seedFor func(uint64, uint8) [][]byte) error {
	if len(accounts) < 6 {
		return common.ErrNotEnoughAccounts
	}
	transferAuthority := accounts[0]
	stateAcct := accounts[1]
	mint := accounts[2]
	entityPDA := accounts[3]
	poolATA := accounts[4]
	tokenProgram := accounts[5]

	entityID, err := parseU64(data, 0)
	if err != nil {
		return err
	}
	entityBump, err := parseU8(data, 8)
	if err != nil {
		return err
	}
	if len(data) <= 9 {
		return common.ErrInvalidInstructionData
	}
	payload := data[9:]

	if err := ctoken.ValidateV1TransferData(payload); err != nil {
		return err
	}

	if _, err := authz.ValidateTransferCommon(p.programID, stateAcct, transferAuthority, mint, tokenProgram); err != nil {
		return err
	}

	entitySeeds := seedFor(entityID, entityBump)
	if err := pda.ValidateWithSeeds(entityPDA.Key, entitySeeds, p.programID); err != nil {
		return err
	}

	state, err := token.ViewState(stateAcct.Data)
	if err != nil {
		return err
	}
	if !state.PoolATA().Equals(poolATA.Key) {
		return common.ErrInvalidPoolAccount
	}
	if !poolATA.OwnedBy(token.Token2022Program) {
		return common.ErrInvalidPoolAccount
	}

	forwarded := accounts[6:]
	metas := accountMetas(forwarded)
	for _, meta := range metas {
		if meta.PublicKey.Equals(entityPDA.Key) {
			meta.IsSigner = true
		}
	}

	inst := ctoken.V1Passthrough(metas, payload)
	return p.invokeSigned(inst, forwarded, entitySeeds)
}
