package core

import (
	"github.com/gagliardetto/solana-go"

	"zupytoken/core/types"
	"zupytoken/native/authz"
	"zupytoken/native/common"
	"zupytoken/native/ctoken"
	"zupytoken/native/memo"
	"zupytoken/native/pda"
	"zupytoken/native/spltoken"
	"zupytoken/native/token"
)

// treasuryRestockPool moves tokens from the treasury account into the
// distribution pool. The treasury wallet signs directly, so no rate limit
// applies, and the pause flag does not block it.
//
// Accounts:
//
//	0. token_state
//	1. mint
//	2. treasury_ata    (writable) source
//	3. pool_ata        (writable) destination
//	4. treasury_wallet (signer)   pinned to the operational treasury address
//	5. token_program
//
// Data: amount u64, then memo.
func (p *Processor) treasuryRestockPool(accounts []*types.Account, data []byte) error {
	if len(accounts) < 6 {
		return common.ErrNotEnoughAccounts
	}
	stateAcct := accounts[0]
	mint := accounts[1]
	treasuryATA := accounts[2]
	poolATA := accounts[3]
	treasuryWallet := accounts[4]
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

	if !mint.OwnedBy(token.Token2022Program) {
		return common.ErrInvalidMint
	}
	if !state.Mint().Equals(mint.Key) {
		return common.ErrInvalidMint
	}

	if !state.TreasuryATA().Equals(treasuryATA.Key) {
		return common.ErrInvalidTreasuryAccount
	}
	if err := authz.ValidateSourceATA(treasuryATA, mint.Key, treasuryWallet.Key); err != nil {
		return err
	}

	if !state.PoolATA().Equals(poolATA.Key) {
		return common.ErrInvalidPoolAccount
	}

	if !treasuryWallet.Key.Equals(token.TreasuryWallet) {
		return common.ErrUnauthorizedTreasury
	}
	if err := authz.AssertSigner(treasuryWallet); err != nil {
		return err
	}

	if !tokenProgram.Key.Equals(token.Token2022Program) {
		return common.ErrInvalidTokenProgram
	}

	balance, err := authz.TokenBalance(treasuryATA)
	if err != nil {
		return err
	}
	if balance < amount {
		return common.ErrInsufficientBalance
	}

	inst := spltoken.Transfer(treasuryATA.Key, poolATA.Key, treasuryWallet.Key, amount)
	return p.invoke(inst, treasuryATA, poolATA, treasuryWallet)
}

// transferFromPool compresses tokens out of the distribution pool into a
// compressed leaf owned by the recipient. The recipient never receives a
// token account; the leaf on the output queue is the balance.
//
// Accounts:
//
//	0.  transfer_authority          (signer)
//	1.  token_state
//	2.  mint
//	3.  pool_ata                    (writable) source
//	4.  recipient                   leaf owner
//	5.  fee_payer                   (writable, signer)
//	6.  token_program
//	7.  system_program
//	8.  compressed_token_program
//	9.  cpi_authority_pda
//	10. light_system_program
//	11. registered_program_pda
//	12. noop_program
//	13. account_compression_authority
//	14. account_compression_program
//	15. spl_interface_pda           (writable)
//	16+ Merkle tree output queue    (writable)
//
// Data: amount u64, then memo.
func (p *Processor) transferFromPool(accounts []*types.Account, data []byte) error {
	if len(accounts) < 16 {
		return common.ErrNotEnoughAccounts
	}
	transferAuthority := accounts[0]
	stateAcct := accounts[1]
	mint := accounts[2]
	poolATA := accounts[3]
	recipient := accounts[4]
	feePayer := accounts[5]
	tokenProgram := accounts[6]
	systemProgram := accounts[7]
	compressedTokenProg := accounts[8]
	cpiAuthorityPDA := accounts[9]
	lightSystemProgram := accounts[10]
	registeredProgram := accounts[11]
	noopProgram := accounts[12]
	compressionAuthority := accounts[13]
	compressionProgram := accounts[14]
	splInterfacePDA := accounts[15]

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

	validation, err := authz.ValidateTransferCommon(p.programID, stateAcct, transferAuthority, mint, tokenProgram)
	if err != nil {
		return err
	}

	if err := authz.AssertSigner(feePayer); err != nil {
		return err
	}

	if !compressedTokenProg.Key.Equals(token.CompressedTokenProgram) {
		return common.ErrIncorrectProgramID
	}
	if !cpiAuthorityPDA.Key.Equals(token.CTokenCPIAuthority) {
		return common.ErrIncorrectProgramID
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

	poolBalance, err := authz.TokenBalance(poolATA)
	if err != nil {
		return err
	}
	if poolBalance < amount {
		return common.ErrInsufficientPoolBalance
	}

	expectedPool, _, err := ctoken.DeriveSPLInterfacePDA(mint.Key)
	if err != nil {
		return common.ErrInvalidPDA
	}
	if err := pda.ValidateExpected(splInterfacePDA.Key, expectedPool); err != nil {
		return err
	}

	keep := poolBalance - amount

	trailing := accounts[16:]
	inst := ctoken.Compress(feePayer.Key, stateAcct.Key, splInterfacePDA.Key, poolATA.Key, recipient.Key, &keep, accountMetas(trailing))
	invAccounts := append([]*types.Account{
		feePayer, stateAcct,
		cpiAuthorityPDA, lightSystemProgram, registeredProgram, noopProgram,
		compressionAuthority, compressionProgram, compressedTokenProg,
		splInterfacePDA, poolATA, tokenProgram, systemProgram,
	}, trailing...)
	return p.invokeSigned(inst, invAccounts, pda.StateSeeds(validation.Bump))
}

// withdrawToExternal decompresses a user's compressed balance into an
// external wallet's token account, creating that account when it does not
// exist yet. The destination is a regular wallet address, never one of
// this program's derived accounts, and this is the only instruction that
// still allocates a token account on the way out.
//
// Accounts:
//
//	0.  transfer_authority          (signer)
//	1.  token_state
//	2.  mint
//	3.  user_pda                    compressed source, signs the release
//	4.  dest_wallet                 external owner
//	5.  dest_ata                    (writable) created if absent
//	6.  fee_payer                   (writable, signer)
//	7.  token_program
//	8.  associated_token_program
//	9.  system_program
//	10. compressed_token_program
//	11. compressed_token_authority
//	12. spl_interface_pda           (writable)
//	13+ Merkle tree, nullifier queue, noop
//
// Data: amount u64, user id u64, user bump u8, then memo.
func (p *Processor) withdrawToExternal(accounts []*types.Account, data []byte) error {
	if len(accounts) < 13 {
		return common.ErrNotEnoughAccounts
	}
	transferAuthority := accounts[0]
	stateAcct := accounts[1]
	mint := accounts[2]
	userPDA := accounts[3]
	destWallet := accounts[4]
	destATA := accounts[5]
	feePayer := accounts[6]
	tokenProgram := accounts[7]
	systemProgram := accounts[9]
	compressedTokenProg := accounts[10]
	compressedTokenAuth := accounts[11]
	splInterfacePDA := accounts[12]

	amount, err := parseU64(data, 0)
	if err != nil {
		return err
	}
	userID, err := parseU64(data, 8)
	if err != nil {
		return err
	}
	userBump, err := parseU8(data, 16)
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

	if err := pda.ValidateWithSeeds(userPDA.Key, pda.UserSeeds(userID, userBump), p.programID); err != nil {
		return err
	}

	if err := authz.AssertSigner(feePayer); err != nil {
		return err
	}

	if !compressedTokenProg.Key.Equals(token.CompressedTokenProgram) {
		return common.ErrIncorrectProgramID
	}

	if err := authz.ValidateDestinationATAIfExists(destATA, mint.Key); err != nil {
		return err
	}

	if destATA.DataLen() == 0 {
		create := spltoken.CreateATA(feePayer.Key, destATA.Key, destWallet.Key, mint.Key)
		createAccounts := []*types.Account{feePayer, destATA, destWallet, mint, systemProgram, tokenProgram}
		if err := p.invoke(create, createAccounts...); err != nil {
			return err
		}
	}

	expectedPool, poolBump, err := ctoken.DeriveSPLInterfacePDA(mint.Key)
	if err != nil {
		return common.ErrInvalidPDA
	}
	if err := pda.ValidateExpected(splInterfacePDA.Key, expectedPool); err != nil {
		return err
	}

	trailing := accounts[13:]
	inst := ctoken.DecompressToSPL(feePayer.Key, mint.Key, destATA.Key, userPDA.Key, splInterfacePDA.Key, amount, poolBump, accountMetas(trailing))
	invAccounts := append([]*types.Account{
		compressedTokenAuth, feePayer, mint, destATA, userPDA,
		splInterfacePDA, tokenProgram, systemProgram,
	}, trailing...)
	return p.invokeSigned(inst, invAccounts, pda.UserSeeds(userID, userBump))
}

// accountMetas converts trailing accounts into metas carrying the flags
// they arrived with.
func accountMetas(accounts []*types.Account) solana.AccountMetaSlice {
	metas := make(solana.AccountMetaSlice, 0, len(accounts))
	for _, acct := range accounts {
		metas = append(metas, acct.Meta())
	}
	return metas
}
