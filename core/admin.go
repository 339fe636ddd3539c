package core

import (
	sysprog "github.com/gagliardetto/solana-go/programs/system"

	"zupytoken/core/types"
	"zupytoken/native/authz"
	"zupytoken/native/common"
	"zupytoken/native/pda"
	"zupytoken/native/spltoken"
	"zupytoken/native/token"
)

// initializeToken performs one-time program setup: it creates the state
// record at its derived address and a Token-2022 mint carrying the metadata
// pointer extension, then writes the authority set into the record.
//
// Accounts:
//
//	0. authority      (writable, signer) funds both new accounts
//	1. token_state    (writable)         created here at its derived address
//	2. mint           (writable, signer) fresh keypair
//	3. pool_ata       (writable)         recorded
//	4. treasury_ata   (writable)         recorded
//	5. system_program
//	6. token_program
//	7. associated_token_program
//
// Data: treasury, mint authority, transfer authority, 32 bytes each.
func (p *Processor) initializeToken(accounts []*types.Account, data []byte) error {
	if len(accounts) < 8 {
		return common.ErrNotEnoughAccounts
	}
	authority := accounts[0]
	stateAcct := accounts[1]
	mint := accounts[2]
	poolATA := accounts[3]
	treasuryATA := accounts[4]
	tokenProgram := accounts[6]

	treasury, offset, err := parseKey(data, 0)
	if err != nil {
		return err
	}
	mintAuthority, offset, err := parseKey(data, offset)
	if err != nil {
		return err
	}
	transferAuthority, _, err := parseKey(data, offset)
	if err != nil {
		return err
	}

	if err := authz.AssertSigner(authority); err != nil {
		return err
	}
	if err := authz.AssertSigner(mint); err != nil {
		return err
	}
	if !tokenProgram.Key.Equals(token.Token2022Program) {
		return common.ErrInvalidTokenProgram
	}

	statePDA, bump, err := pda.TokenState(p.programID)
	if err != nil {
		return common.ErrInvalidPDA
	}
	if err := pda.ValidateExpected(stateAcct.Key, statePDA); err != nil {
		return err
	}
	if stateAcct.DataLen() > 0 {
		return common.ErrAlreadyInitialized
	}

	distributionPool, _, err := pda.DistributionPool(p.programID)
	if err != nil {
		return common.ErrInvalidPDA
	}
	incentivePool, _, err := pda.IncentivePool(p.programID)
	if err != nil {
		return common.ErrInvalidPDA
	}

	// State record first, signed by its own seeds.
	createState := sysprog.NewCreateAccountInstruction(
		p.rent.MinimumBalance(token.StateSize),
		uint64(token.StateSize),
		p.programID,
		authority.Key,
		stateAcct.Key,
	).Build()
	if err := p.invokeSigned(createState, []*types.Account{authority, stateAcct}, pda.StateSeeds(bump)); err != nil {
		return err
	}

	// The mint keypair co-signed the transaction, so a plain invoke
	// creates its account.
	createMint := sysprog.NewCreateAccountInstruction(
		p.rent.MinimumBalance(int(token.MetadataPointerMintSize)),
		token.MetadataPointerMintSize,
		token.Token2022Program,
		authority.Key,
		mint.Key,
	).Build()
	if err := p.invoke(createMint, authority, mint); err != nil {
		return err
	}

	// The metadata pointer extension must be installed before the mint
	// data initializes, or Token-2022 rejects it.
	if err := p.invoke(spltoken.InitializeMetadataPointer(mint.Key, statePDA), mint); err != nil {
		return err
	}
	if err := p.invoke(spltoken.InitializeMint2(mint.Key, statePDA, &statePDA, token.Decimals), mint); err != nil {
		return err
	}

	state, err := token.ViewStateMut(stateAcct.Data)
	if err != nil {
		return err
	}
	state.SetDiscriminator(token.StateDiscriminator)
	state.SetTreasury(treasury)
	state.SetMintAuthority(mintAuthority)
	state.SetTransferAuthority(transferAuthority)
	// Pool and treasury token accounts are recorded as given; the hot-path
	// instructions validate them at use time.
	state.SetPoolATA(poolATA.Key)
	state.SetDistributionPool(distributionPool)
	state.SetIncentivePool(incentivePool)
	state.SetTreasuryATA(treasuryATA.Key)
	state.SetMint(mint.Key)
	state.SetInitialized(true)
	state.SetBump(bump)
	state.SetPerTxAutoLimit(token.PerTxAutoLimit)
	state.SetDailyAutoLimit(token.DailyAutoLimit)
	state.SetDailyMinted(0)
	state.SetLastResetTimestamp(0)
	state.SetPaused(false)
	return nil
}

// initializeRateLimit creates a per-authority mint quota record. Carries no
// payload beyond the discriminator.
//
// Accounts:
//
//	0. authority        (writable, signer) funds the record
//	1. rate_limit_state (writable)         derived from the authority key
//	2. system_program
func (p *Processor) initializeRateLimit(accounts []*types.Account, data []byte) error {
	if len(accounts) < 3 {
		return common.ErrNotEnoughAccounts
	}
	authority := accounts[0]
	limitAcct := accounts[1]

	if err := authz.AssertSigner(authority); err != nil {
		return err
	}

	expected, bump, err := pda.RateLimit(p.programID, authority.Key)
	if err != nil {
		return common.ErrInvalidPDA
	}
	if err := pda.ValidateExpected(limitAcct.Key, expected); err != nil {
		return err
	}
	if limitAcct.DataLen() > 0 {
		return common.ErrAlreadyInitialized
	}

	create := sysprog.NewCreateAccountInstruction(
		p.rent.MinimumBalance(token.RateLimitSize),
		uint64(token.RateLimitSize),
		p.programID,
		authority.Key,
		limitAcct.Key,
	).Build()
	if err := p.invokeSigned(create, []*types.Account{authority, limitAcct}, pda.RateLimitSeeds(authority.Key, bump)); err != nil {
		return err
	}

	record, err := token.ViewRateLimitMut(limitAcct.Data)
	if err != nil {
		return err
	}
	record.SetDiscriminator(token.RateLimitDiscriminator)
	record.SetAuthority(authority.Key)
	record.SetUsage(common.MintUsage{Day: uint64(token.DayOf(p.now()))})
	record.SetBump(bump)
	return nil
}

// setPaused flips the transfer pause flag. Only the recorded treasury may
// flip it, and the flag never blocks this instruction, so a paused system
// can always be unpaused.
//
// Accounts:
//
//	0. authority   (signer) must be the recorded treasury
//	1. token_state (writable)
//
// Data: one byte, nonzero pauses.
func (p *Processor) setPaused(accounts []*types.Account, data []byte) error {
	if len(accounts) < 2 {
		return common.ErrNotEnoughAccounts
	}
	authority := accounts[0]
	stateAcct := accounts[1]

	paused, err := parseBool(data, 0)
	if err != nil {
		return err
	}

	if _, err := authz.ValidateStateBase(p.programID, stateAcct); err != nil {
		return err
	}
	state, err := token.ViewStateMut(stateAcct.Data)
	if err != nil {
		return err
	}
	if err := authz.AssertSigner(authority); err != nil {
		return err
	}
	if !state.View().IsTreasury(authority.Key) {
		return common.ErrUnauthorizedTreasury
	}
	state.SetPaused(paused)
	return nil
}
