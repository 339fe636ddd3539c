package core

import (
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"

	"zupytoken/core/types"
	"zupytoken/native/common"
	"zupytoken/native/token"
)

// handlerFunc is the shape every instruction handler shares. The payload
// arrives with the eight-byte discriminator already stripped.
type handlerFunc func(p *Processor, accounts []*types.Account, data []byte) error

type instructionEntry struct {
	name    string
	handler handlerFunc
}

// handlerTable maps each instruction discriminator to its handler. The
// discriminators are the Anchor convention, SHA256("global:" + name)[0..8],
// and the dispatch test pins every one byte for byte.
var handlerTable = buildHandlerTable()

func buildHandlerTable() map[[8]byte]instructionEntry {
	entries := []instructionEntry{
		{name: "initialize_token", handler: (*Processor).initializeToken},
		{name: "initialize_metadata", handler: (*Processor).initializeMetadata},
		{name: "update_metadata_field", handler: (*Processor).updateMetadataField},
		{name: "mint_tokens", handler: (*Processor).mintTokens},
		{name: "treasury_restock_pool", handler: (*Processor).treasuryRestockPool},
		{name: "transfer_from_pool", handler: (*Processor).transferFromPool},
		{name: "return_to_pool", handler: (*Processor).returnToPool},
		{name: "transfer_company_to_user", handler: (*Processor).transferCompanyToUser},
		{name: "transfer_user_to_company", handler: (*Processor).transferUserToCompany},
		{name: "execute_split_transfer", handler: (*Processor).executeSplitTransfer},
		{name: "burn_tokens", handler: (*Processor).burnTokens},
		{name: "burn_from_company_pda", handler: (*Processor).burnFromCompanyPDA},
		{name: "initialize_rate_limit", handler: (*Processor).initializeRateLimit},
		{name: "set_paused", handler: (*Processor).setPaused},
		{name: "create_zupy_card", handler: (*Processor).createZupyCard},
		{name: "create_coupon_nft", handler: (*Processor).createCouponNFT},
		{name: "mint_coupon_cnft", handler: (*Processor).mintCouponCNFT},
		{name: "withdraw_to_external", handler: (*Processor).withdrawToExternal},
		{name: "return_user_to_pool", handler: (*Processor).returnUserToPool},
		{name: "return_user_to_pool_v1", handler: (*Processor).returnUserToPoolV1},
		{name: "return_to_pool_v1", handler: (*Processor).returnToPoolV1},
	}
	table := make(map[[8]byte]instructionEntry, len(entries))
	for _, entry := range entries {
		table[token.InstructionDiscriminator(entry.name)] = entry
	}
	return table
}

// Processor executes program instructions against the accounts the host
// hands it. Cross-program calls go through the configured Invoker, and the
// clock is injected so tests can pin day-bucket arithmetic to an instant.
type Processor struct {
	programID solana.PublicKey
	invoker   types.Invoker
	clock     func() types.Clock
	rent      types.Rent
	log       *slog.Logger
}

// ProcessorOption adjusts a Processor at construction.
type ProcessorOption func(*Processor)

// WithClock replaces the wall-clock source.
func WithClock(clock func() types.Clock) ProcessorOption {
	return func(p *Processor) { p.clock = clock }
}

// WithRent overrides the rent rate used when funding new accounts.
func WithRent(rent types.Rent) ProcessorOption {
	return func(p *Processor) { p.rent = rent }
}

// WithLogger routes processor logs to the given logger.
func WithLogger(log *slog.Logger) ProcessorOption {
	return func(p *Processor) { p.log = log }
}

// WithProgramID overrides the executing program address. Tests use it to
// run derivations against a throwaway program.
func WithProgramID(id solana.PublicKey) ProcessorOption {
	return func(p *Processor) { p.programID = id }
}

// NewProcessor builds a Processor around the given invoker.
func NewProcessor(invoker types.Invoker, opts ...ProcessorOption) *Processor {
	p := &Processor{
		programID: token.ProgramID,
		invoker:   invoker,
		clock: func() types.Clock {
			return types.Clock{UnixTimestamp: time.Now().Unix()}
		},
		rent: types.DefaultRent(),
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProgramID returns the address the processor executes as.
func (p *Processor) ProgramID() solana.PublicKey {
	return p.programID
}

// Execute dispatches one instruction. Payloads shorter than a discriminator
// and discriminators with no handler both reject as invalid instruction
// data, indistinguishable to the caller.
func (p *Processor) Execute(accounts []*types.Account, data []byte) error {
	if len(data) < 8 {
		return common.ErrInvalidInstructionData
	}
	var disc [8]byte
	copy(disc[:], data[:8])
	entry, ok := handlerTable[disc]
	if !ok {
		return common.ErrInvalidInstructionData
	}
	if err := entry.handler(p, accounts, data[8:]); err != nil {
		if code, coded := common.CodeOf(err); coded {
			p.log.Debug("instruction rejected", "instruction", entry.name, "code", code)
		} else {
			p.log.Debug("instruction failed", "instruction", entry.name, "error", err)
		}
		return err
	}
	p.log.Debug("instruction applied", "instruction", entry.name)
	return nil
}

func (p *Processor) now() int64 {
	return p.clock().UnixTimestamp
}

// invoke issues a cross-program call with no program-derived signers.
func (p *Processor) invoke(inst solana.Instruction, accounts ...*types.Account) error {
	return p.invoker.Invoke(types.Invocation{Instruction: inst, Accounts: accounts})
}

// invokeSigned issues a cross-program call where accounts derived from the
// given seed sets count as signers.
func (p *Processor) invokeSigned(inst solana.Instruction, accounts []*types.Account, seeds ...[][]byte) error {
	return p.invoker.Invoke(types.Invocation{Instruction: inst, Accounts: accounts, Seeds: seeds})
}
