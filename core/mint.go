package core

import (
	"zupytoken/core/types"
	"zupytoken/native/authz"
	"zupytoken/native/common"
	"zupytoken/native/memo"
	"zupytoken/native/pda"
	"zupytoken/native/spltoken"
	"zupytoken/native/token"
)

// mintTokens mints into the treasury token account under the automatic
// rate limits recorded in state. The daily bucket is checked against a
// simulated reset before the cross-program call and recorded only after
// the call succeeds, so a failed mint never consumes quota.
//
// Accounts:
//
//	0. mint_authority (writable, signer) must match the recorded mint authority
//	1. token_state    (writable)         quota bookkeeping lives here
//	2. mint           (writable)
//	3. treasury_ata   (writable)         mint destination
//	4. token_program
//
// Data: amount u64, then memo.
func (p *Processor) mintTokens(accounts []*types.Account, data []byte) error {
	if len(accounts) < 5 {
		return common.ErrNotEnoughAccounts
	}
	mintAuthority := accounts[0]
	stateAcct := accounts[1]
	mint := accounts[2]
	treasuryATA := accounts[3]
	tokenProgram := accounts[4]

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

	if state.Paused() {
		return common.ErrSystemPaused
	}

	if err := authz.AssertSigner(mintAuthority); err != nil {
		return err
	}
	if !state.IsMintAuthority(mintAuthority.Key) {
		return common.ErrInvalidAuthority
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

	if !tokenProgram.Key.Equals(token.Token2022Program) {
		return common.ErrInvalidTokenProgram
	}

	now := p.now()

	// The day bucket may be stale, so the cap check simulates the rollover
	// at this instant without persisting it.
	quota := common.MintQuota{MaxPerTx: state.PerTxAutoLimit(), MaxPerDay: state.DailyAutoLimit()}
	if _, err := common.CheckMint(quota, uint64(token.DayOf(now)), state.Usage(), amount); err != nil {
		return err
	}

	bump := state.Bump()

	inst := spltoken.MintTo(mint.Key, treasuryATA.Key, stateAcct.Key, amount)
	if err := p.invokeSigned(inst, []*types.Account{mint, treasuryATA, stateAcct}, pda.StateSeeds(bump)); err != nil {
		return err
	}

	// Quota is consumed only once the mint has actually happened.
	stateMut, err := token.ViewStateMut(stateAcct.Data)
	if err != nil {
		return err
	}
	stateMut.MaybeResetDaily(now)
	stateMut.RecordMint(amount)
	return nil
}
