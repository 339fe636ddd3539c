// Package ledger is an in-process account ledger for local simulation. It
// implements the cross-program Invoker the instruction processor calls into
// and applies the system, Token-2022, associated-token, compressed-token and
// Bubblegum instructions the handlers emit, so a full token lifecycle can
// run end to end without a validator. Account state snapshots to a
// storage.Database between runs.
//
// A Ledger is not safe for concurrent use; callers serialize simulations.
package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"zupytoken/core/types"
	"zupytoken/native/common"
	"zupytoken/native/ctoken"
	"zupytoken/native/spltoken"
	"zupytoken/native/token"
	"zupytoken/storage"
)

var (
	// ErrUnknownProgram rejects an invocation to a program the ledger
	// cannot emulate.
	ErrUnknownProgram = errors.New("ledger: program not supported")
	// ErrUnsupported rejects a recognized program asked to run an
	// instruction the ledger does not model.
	ErrUnsupported = errors.New("ledger: instruction not supported")
	// ErrMissingSignature rejects an instruction whose metas require a
	// signature that neither the transaction nor a seed set provides.
	ErrMissingSignature = errors.New("ledger: missing required signature")
	// ErrNotWritable rejects a write to an account the transaction passed
	// read-only.
	ErrNotWritable = errors.New("ledger: account not writable")
	// ErrAccountInUse rejects creating or initializing over an account
	// that already holds data or lamports.
	ErrAccountInUse = errors.New("ledger: account already in use")
	// ErrInsufficientLamports rejects a funding transfer the payer cannot
	// cover.
	ErrInsufficientLamports = errors.New("ledger: insufficient lamports")
	// ErrMetadataMissing rejects a metadata update on a mint that never
	// ran metadata initialization.
	ErrMetadataMissing = errors.New("ledger: mint has no metadata record")
	// ErrV1NotSimulated rejects forwarded V1 transfer payloads. Their
	// bodies carry merkle validity proofs only the chain can verify, so
	// the ledger refuses rather than applying amounts it cannot check.
	ErrV1NotSimulated = errors.New("ledger: v1 transfer payloads cannot be applied locally")
)

// Metadata is the token-metadata record a mint carries after metadata
// initialization.
type Metadata struct {
	Name      string
	Symbol    string
	URI       string
	Authority solana.PublicKey
}

// CompressedNFT records one Bubblegum mint_v1 leaf.
type CompressedNFT struct {
	Tree      solana.PublicKey
	LeafOwner solana.PublicKey
	Name      string
	Symbol    string
	URI       string
}

// Ledger holds the accounts, compressed balances and metadata records a
// simulation touches. Handlers mutate account data through the shared
// *types.Account pointers; the ledger applies the balance effects of the
// cross-program calls they emit.
type Ledger struct {
	store     storage.Database
	programID solana.PublicKey
	rent      types.Rent
	log       *slog.Logger

	accounts   map[solana.PublicKey]*types.Account
	compressed map[solana.PublicKey]uint64
	metadata   map[solana.PublicKey]Metadata
	cnfts      []CompressedNFT
}

// Option adjusts a Ledger at construction.
type Option func(*Ledger)

// WithProgramID sets the program whose seed sets may promote signers.
func WithProgramID(id solana.PublicKey) Option {
	return func(l *Ledger) { l.programID = id }
}

// WithRent overrides the rent rate charged when the ledger funds accounts
// on behalf of emulated programs.
func WithRent(rent types.Rent) Option {
	return func(l *Ledger) { l.rent = rent }
}

// WithLogger routes ledger logs to the given logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// New builds an empty ledger over the given snapshot store.
func New(store storage.Database, opts ...Option) *Ledger {
	l := &Ledger{
		store:      store,
		programID:  token.ProgramID,
		rent:       types.DefaultRent(),
		log:        slog.Default(),
		accounts:   make(map[solana.PublicKey]*types.Account),
		compressed: make(map[solana.PublicKey]uint64),
		metadata:   make(map[solana.PublicKey]Metadata),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register adds an account to the ledger, replacing any account already
// held under its key.
func (l *Ledger) Register(acct *types.Account) {
	if acct == nil {
		return
	}
	l.accounts[acct.Key] = acct
}

// Account returns the registered account for key, or nil.
func (l *Ledger) Account(key solana.PublicKey) *types.Account {
	return l.accounts[key]
}

// account returns the registered account for key, creating an empty
// system-owned placeholder when the key was never seen. Solana transactions
// may reference accounts that do not exist yet; the placeholder is what an
// instruction observes for them.
func (l *Ledger) account(key solana.PublicKey) *types.Account {
	if acct, ok := l.accounts[key]; ok {
		return acct
	}
	acct := &types.Account{Key: key, Owner: token.SystemProgram}
	l.accounts[key] = acct
	return acct
}

// SetCompressed pins owner's compressed balance, for seeding fixtures.
func (l *Ledger) SetCompressed(owner solana.PublicKey, amount uint64) {
	l.compressed[owner] = amount
}

// Compressed returns owner's compressed balance.
func (l *Ledger) Compressed(owner solana.PublicKey) uint64 {
	return l.compressed[owner]
}

// MintMetadata returns the metadata record for mint, if one was written.
func (l *Ledger) MintMetadata(mint solana.PublicKey) (Metadata, bool) {
	md, ok := l.metadata[mint]
	return md, ok
}

// CompressedNFTs returns every Bubblegum leaf minted this run, in order.
func (l *Ledger) CompressedNFTs() []CompressedNFT {
	return l.cnfts
}

// Invoke applies one cross-program call. The instruction's account metas
// resolve positionally against the accounts the handler passed, falling
// back to the registry for metas the handler did not carry.
func (l *Ledger) Invoke(inv types.Invocation) error {
	data, err := inv.Instruction.Data()
	if err != nil {
		return err
	}
	metas := inv.Instruction.Accounts()
	accounts := l.resolve(metas, inv.Accounts)
	promoted, err := l.promote(inv.Seeds)
	if err != nil {
		return err
	}
	if err := checkSigners(metas, accounts, promoted); err != nil {
		return err
	}

	program := inv.Instruction.ProgramID()
	switch {
	case program.Equals(token.SystemProgram):
		err = l.applySystem(accounts, data)
	case program.Equals(token.Token2022Program):
		err = l.applyToken(accounts, data)
	case program.Equals(token.ATAProgram):
		err = l.applyATACreate(accounts)
	case program.Equals(token.CompressedTokenProgram):
		err = l.applyCompressed(accounts, data)
	case program.Equals(token.BubblegumProgram):
		err = l.applyBubblegum(accounts, data)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownProgram, program)
	}
	if err != nil {
		l.log.Debug("cross-program call rejected", "program", program.String(), "error", err)
	}
	return err
}

func (l *Ledger) resolve(metas []*solana.AccountMeta, passed []*types.Account) []*types.Account {
	out := make([]*types.Account, len(metas))
	for i, meta := range metas {
		if i < len(passed) && passed[i] != nil && passed[i].Key.Equals(meta.PublicKey) {
			out[i] = passed[i]
			l.accounts[meta.PublicKey] = passed[i]
			continue
		}
		out[i] = l.account(meta.PublicKey)
	}
	return out
}

// promote derives the addresses the caller's seed sets sign for.
func (l *Ledger) promote(seedSets [][][]byte) (map[solana.PublicKey]bool, error) {
	if len(seedSets) == 0 {
		return nil, nil
	}
	signers := make(map[solana.PublicKey]bool, len(seedSets))
	for _, seeds := range seedSets {
		key, err := solana.CreateProgramAddress(seeds, l.programID)
		if err != nil {
			return nil, fmt.Errorf("ledger: derive seed signer: %w", err)
		}
		signers[key] = true
	}
	return signers, nil
}

func checkSigners(metas []*solana.AccountMeta, accounts []*types.Account, promoted map[solana.PublicKey]bool) error {
	for i, meta := range metas {
		if !meta.IsSigner {
			continue
		}
		if accounts[i].Signer || promoted[meta.PublicKey] {
			continue
		}
		return fmt.Errorf("%w: %s", ErrMissingSignature, meta.PublicKey)
	}
	return nil
}

// applySystem handles the system program. Only create_account is modeled;
// the handlers never emit anything else.
func (l *Ledger) applySystem(accounts []*types.Account, data []byte) error {
	if len(data) < 4 || binary.LittleEndian.Uint32(data[0:4]) != 0 {
		return ErrUnsupported
	}
	if len(data) < 52 || len(accounts) < 2 {
		return common.ErrInvalidInstructionData
	}
	lamports := binary.LittleEndian.Uint64(data[4:12])
	space := binary.LittleEndian.Uint64(data[12:20])
	owner := solana.PublicKeyFromBytes(data[20:52])

	funder, fresh := accounts[0], accounts[1]
	if !funder.Writable || !fresh.Writable {
		return fmt.Errorf("%w: %s", ErrNotWritable, fresh.Key)
	}
	if fresh.DataLen() != 0 || fresh.Lamports != 0 {
		return fmt.Errorf("%w: %s", ErrAccountInUse, fresh.Key)
	}
	if funder.Lamports < lamports {
		return ErrInsufficientLamports
	}
	funder.Lamports -= lamports
	fresh.Lamports = lamports
	fresh.Owner = owner
	fresh.Data = make([]byte, space)
	return nil
}

func (l *Ledger) applyToken(accounts []*types.Account, data []byte) error {
	if len(data) == 0 {
		return common.ErrInvalidInstructionData
	}
	if len(data) >= 8 {
		var disc [8]byte
		copy(disc[:], data[:8])
		switch disc {
		case spltoken.MetadataInitializeDisc:
			return l.applyMetadataInit(accounts, data[8:])
		case spltoken.MetadataUpdateFieldDisc:
			return l.applyMetadataUpdate(accounts, data[8:])
		}
	}
	switch data[0] {
	case spltoken.TagTransfer:
		if len(accounts) < 3 {
			return common.ErrInvalidInstructionData
		}
		amount, err := tokenAmount(data)
		if err != nil {
			return err
		}
		if err := requireTokenOwner(accounts[0], accounts[2].Key); err != nil {
			return err
		}
		return moveTokens(accounts[0], accounts[1], amount)
	case spltoken.TagTransferChecked:
		if len(accounts) < 4 || len(data) < 10 {
			return common.ErrInvalidInstructionData
		}
		amount := binary.LittleEndian.Uint64(data[1:9])
		mintView, err := spltoken.ViewMint(accounts[1].Data)
		if err != nil {
			return err
		}
		if data[9] != mintView.Decimals() {
			return common.ErrInvalidMint
		}
		if err := requireTokenOwner(accounts[0], accounts[3].Key); err != nil {
			return err
		}
		return moveTokens(accounts[0], accounts[2], amount)
	case spltoken.TagMintTo:
		return l.applyMintTo(accounts, data)
	case spltoken.TagBurn:
		return l.applyBurn(accounts, data)
	case spltoken.TagCloseAccount:
		return l.applyCloseAccount(accounts)
	case spltoken.TagInitializeMint2:
		return l.applyInitializeMint2(accounts, data)
	case spltoken.TagMetadataPointer:
		// The pointer rides in the mint's extension space, which the
		// ledger does not model byte for byte.
		if len(accounts) < 1 || len(data) < 66 {
			return common.ErrInvalidInstructionData
		}
		return nil
	}
	return ErrUnsupported
}

func (l *Ledger) applyMintTo(accounts []*types.Account, data []byte) error {
	if len(accounts) < 3 {
		return common.ErrInvalidInstructionData
	}
	amount, err := tokenAmount(data)
	if err != nil {
		return err
	}
	mint, dest, authority := accounts[0], accounts[1], accounts[2]
	mintMut, err := viewMintMut(mint)
	if err != nil {
		return err
	}
	auth, ok := mintMut.View().MintAuthority()
	if !ok || !auth.Equals(authority.Key) {
		return common.ErrInvalidAuthority
	}
	destMut, err := viewTokenMut(dest)
	if err != nil {
		return err
	}
	if !destMut.View().Mint().Equals(mint.Key) {
		return common.ErrInvalidMint
	}
	supply := mintMut.View().Supply()
	if supply+amount < supply {
		return common.ErrInvalidAmount
	}
	mintMut.SetSupply(supply + amount)
	destMut.SetAmount(destMut.View().Amount() + amount)
	return nil
}

func (l *Ledger) applyBurn(accounts []*types.Account, data []byte) error {
	if len(accounts) < 3 {
		return common.ErrInvalidInstructionData
	}
	amount, err := tokenAmount(data)
	if err != nil {
		return err
	}
	holding, mint, authority := accounts[0], accounts[1], accounts[2]
	holdMut, err := viewTokenMut(holding)
	if err != nil {
		return err
	}
	if !holdMut.View().Mint().Equals(mint.Key) {
		return common.ErrInvalidMint
	}
	if !holdMut.View().Owner().Equals(authority.Key) {
		return common.ErrInvalidAuthority
	}
	if holdMut.View().Amount() < amount {
		return common.ErrInsufficientBalance
	}
	mintMut, err := viewMintMut(mint)
	if err != nil {
		return err
	}
	if mintMut.View().Supply() < amount {
		return common.ErrInvalidAmount
	}
	holdMut.SetAmount(holdMut.View().Amount() - amount)
	mintMut.SetSupply(mintMut.View().Supply() - amount)
	return nil
}

func (l *Ledger) applyCloseAccount(accounts []*types.Account) error {
	if len(accounts) < 3 {
		return common.ErrInvalidInstructionData
	}
	closing, dest, owner := accounts[0], accounts[1], accounts[2]
	view, err := spltoken.ViewAccount(closing.Data)
	if err != nil {
		return err
	}
	if !view.Owner().Equals(owner.Key) {
		return common.ErrInvalidAuthority
	}
	if view.Amount() != 0 {
		return common.ErrInvalidAmount
	}
	if !closing.Writable || !dest.Writable {
		return fmt.Errorf("%w: %s", ErrNotWritable, closing.Key)
	}
	dest.Lamports += closing.Lamports
	closing.Lamports = 0
	closing.Data = nil
	closing.Owner = token.SystemProgram
	return nil
}

func (l *Ledger) applyInitializeMint2(accounts []*types.Account, data []byte) error {
	if len(accounts) < 1 || len(data) < 35 {
		return common.ErrInvalidInstructionData
	}
	mint := accounts[0]
	mintMut, err := spltoken.ViewMintMut(mint.Data)
	if err != nil {
		return err
	}
	if mintMut.View().Initialized() {
		return fmt.Errorf("%w: %s", ErrAccountInUse, mint.Key)
	}
	mintMut.SetMintAuthority(solana.PublicKeyFromBytes(data[2:34]))
	mintMut.SetDecimals(data[1])
	mintMut.SetInitialized(true)
	return nil
}

func (l *Ledger) applyMetadataInit(accounts []*types.Account, data []byte) error {
	if len(accounts) < 4 {
		return common.ErrInvalidInstructionData
	}
	mint := accounts[0]
	name, off, err := readString(data, 0)
	if err != nil {
		return err
	}
	symbol, off, err := readString(data, off)
	if err != nil {
		return err
	}
	uri, _, err := readString(data, off)
	if err != nil {
		return err
	}
	if _, ok := l.metadata[mint.Key]; ok {
		return fmt.Errorf("%w: %s", ErrAccountInUse, mint.Key)
	}
	l.metadata[mint.Key] = Metadata{
		Name:      name,
		Symbol:    symbol,
		URI:       uri,
		Authority: accounts[1].Key,
	}
	return nil
}

func (l *Ledger) applyMetadataUpdate(accounts []*types.Account, data []byte) error {
	if len(accounts) < 2 || len(data) < 1 {
		return common.ErrInvalidInstructionData
	}
	mint, authority := accounts[0], accounts[1]
	value, _, err := readString(data, 1)
	if err != nil {
		return err
	}
	record, ok := l.metadata[mint.Key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMetadataMissing, mint.Key)
	}
	if !record.Authority.Equals(authority.Key) {
		return common.ErrInvalidAuthority
	}
	switch spltoken.MetadataField(data[0]) {
	case spltoken.MetadataFieldName:
		record.Name = value
	case spltoken.MetadataFieldSymbol:
		record.Symbol = value
	case spltoken.MetadataFieldURI:
		record.URI = value
	default:
		return common.ErrInvalidInstructionData
	}
	l.metadata[mint.Key] = record
	return nil
}

// applyATACreate handles the associated-token program's create. Accounts:
// payer, new account, wallet, mint, system program, token program.
func (l *Ledger) applyATACreate(accounts []*types.Account) error {
	if len(accounts) < 6 {
		return common.ErrInvalidInstructionData
	}
	payer, ata, wallet, mint := accounts[0], accounts[1], accounts[2], accounts[3]
	derived, _, err := spltoken.DeriveATA(wallet.Key, mint.Key)
	if err != nil || !derived.Equals(ata.Key) {
		return common.ErrInvalidPDA
	}
	if ata.DataLen() != 0 {
		return fmt.Errorf("%w: %s", ErrAccountInUse, ata.Key)
	}
	if !payer.Writable || !ata.Writable {
		return fmt.Errorf("%w: %s", ErrNotWritable, ata.Key)
	}
	rent := l.rent.MinimumBalance(spltoken.TokenAccountLen)
	if payer.Lamports < rent {
		return ErrInsufficientLamports
	}
	payer.Lamports -= rent
	ata.Lamports += rent
	ata.Owner = token.Token2022Program
	ata.Data = make([]byte, spltoken.TokenAccountLen)
	mut, err := spltoken.ViewAccountMut(ata.Data)
	if err != nil {
		return err
	}
	mut.SetMint(mint.Key)
	mut.SetOwner(wallet.Key)
	mut.SetState(spltoken.StateInitialized)
	return nil
}

func (l *Ledger) applyCompressed(accounts []*types.Account, data []byte) error {
	if len(data) == 0 {
		return common.ErrInvalidInstructionData
	}
	if len(data) >= 8 {
		var disc [8]byte
		copy(disc[:], data[:8])
		switch disc {
		case ctoken.CompressSPLTokenAccountDisc:
			return l.applyCompress(accounts, data)
		case ctoken.TransferV1Disc:
			return ErrV1NotSimulated
		}
	}
	switch data[0] {
	case ctoken.Transfer2Disc:
		return l.applyDecompress(accounts, data)
	case ctoken.TransferDisc:
		return l.applyCompressedTransfer(accounts, data)
	case ctoken.BurnDisc:
		return l.applyCompressedBurn(accounts, data)
	}
	return ErrUnsupported
}

// applyCompress moves SPL balance from the source account into the mint's
// interface pool and credits the owner's compressed balance. Accounts 9 and
// 10 of the compress table are the pool and the source.
func (l *Ledger) applyCompress(accounts []*types.Account, data []byte) error {
	if len(data) < ctoken.CompressAllDataLen || len(accounts) < 11 {
		return common.ErrInvalidInstructionData
	}
	owner := solana.PublicKeyFromBytes(data[8:40])
	var keep *uint64
	switch data[40] {
	case 0:
	case 1:
		if len(data) < ctoken.CompressKeepDataLen {
			return common.ErrInvalidInstructionData
		}
		k := binary.LittleEndian.Uint64(data[41:49])
		keep = &k
	default:
		return common.ErrInvalidInstructionData
	}

	pool, source := accounts[9], accounts[10]
	sourceView, err := spltoken.ViewAccount(source.Data)
	if err != nil {
		return err
	}
	if err := requireTokenOwner(source, accounts[1].Key); err != nil {
		return err
	}
	derived, _, err := ctoken.DeriveSPLInterfacePDA(sourceView.Mint())
	if err != nil || !derived.Equals(pool.Key) {
		return common.ErrInvalidPDA
	}

	balance := sourceView.Amount()
	amount := balance
	if keep != nil {
		if *keep > balance {
			return common.ErrInsufficientBalance
		}
		amount = balance - *keep
	}
	if err := moveTokens(source, pool, amount); err != nil {
		return err
	}
	l.compressed[owner] += amount
	return nil
}

// applyDecompress handles the Transfer2 decompress pair: the signing
// compressed authority spends amount and the same amount leaves the
// interface pool for the SPL destination. Accounts 2 through 5 of the
// decompress table are mint, destination, authority and pool.
func (l *Ledger) applyDecompress(accounts []*types.Account, data []byte) error {
	if len(data) < ctoken.DecompressToSPLDataLen || len(accounts) < 8 {
		return common.ErrInvalidInstructionData
	}
	if data[9] != 1 || binary.LittleEndian.Uint32(data[10:14]) != 2 || data[14] != 1 {
		return ErrUnsupported
	}
	amount := binary.LittleEndian.Uint64(data[15:23])
	if binary.LittleEndian.Uint64(data[31:39]) != amount {
		return common.ErrInvalidInstructionData
	}

	mint, dest, authority, pool := accounts[2], accounts[3], accounts[4], accounts[5]
	derived, bump, err := ctoken.DeriveSPLInterfacePDA(mint.Key)
	if err != nil || !derived.Equals(pool.Key) {
		return common.ErrInvalidPDA
	}
	if data[28] != bump {
		return common.ErrInvalidInstructionData
	}
	mintView, err := spltoken.ViewMint(mint.Data)
	if err != nil {
		return err
	}
	if data[29] != mintView.Decimals() {
		return common.ErrInvalidMint
	}
	if l.compressed[authority.Key] < amount {
		return common.ErrInsufficientBalance
	}
	if err := moveTokens(pool, dest, amount); err != nil {
		return err
	}
	l.compressed[authority.Key] -= amount
	return nil
}

// applyCompressedTransfer moves value between two compressed balances.
// Compressed balances are keyed by owner address, so accounts 0 and 1 are
// the owners themselves and the spender must be the source owner.
func (l *Ledger) applyCompressedTransfer(accounts []*types.Account, data []byte) error {
	if len(data) < 9 || len(accounts) < 3 {
		return common.ErrInvalidInstructionData
	}
	amount := binary.LittleEndian.Uint64(data[1:9])
	source, dest, authority := accounts[0], accounts[1], accounts[2]
	if !authority.Key.Equals(source.Key) {
		return common.ErrInvalidAuthority
	}
	if l.compressed[source.Key] < amount {
		return common.ErrInsufficientBalance
	}
	l.compressed[source.Key] -= amount
	l.compressed[dest.Key] += amount
	return nil
}

// applyCompressedBurn spends the owner's compressed balance and shrinks the
// mint supply. The omnibus pool backs every compressed balance, so custody
// leaves the pool as well even though the pool rides in the packed trailing
// accounts the ledger does not decode.
func (l *Ledger) applyCompressedBurn(accounts []*types.Account, data []byte) error {
	if len(data) < 9 || len(accounts) < 2 {
		return common.ErrInvalidInstructionData
	}
	amount := binary.LittleEndian.Uint64(data[1:9])
	owner, mint := accounts[0], accounts[1]
	if l.compressed[owner.Key] < amount {
		return common.ErrInsufficientBalance
	}
	mintMut, err := viewMintMut(mint)
	if err != nil {
		return err
	}
	if mintMut.View().Supply() < amount {
		return common.ErrInvalidAmount
	}
	poolKey, _, err := ctoken.DeriveSPLInterfacePDA(mint.Key)
	if err != nil {
		return common.ErrInvalidPDA
	}
	poolMut, err := spltoken.ViewAccountMut(l.account(poolKey).Data)
	if err != nil {
		return err
	}
	if poolMut.View().Amount() < amount {
		return common.ErrInsufficientBalance
	}
	l.compressed[owner.Key] -= amount
	poolMut.SetAmount(poolMut.View().Amount() - amount)
	mintMut.SetSupply(mintMut.View().Supply() - amount)
	return nil
}

// applyBubblegum records a mint_v1 leaf. Accounts 1 and 3 of the mint
// table are the leaf owner and the merkle tree.
func (l *Ledger) applyBubblegum(accounts []*types.Account, data []byte) error {
	if len(data) < 8 || len(accounts) < 9 {
		return common.ErrInvalidInstructionData
	}
	name, off, err := readString(data, 8)
	if err != nil {
		return err
	}
	symbol, off, err := readString(data, off)
	if err != nil {
		return err
	}
	uri, _, err := readString(data, off)
	if err != nil {
		return err
	}
	l.cnfts = append(l.cnfts, CompressedNFT{
		Tree:      accounts[3].Key,
		LeafOwner: accounts[1].Key,
		Name:      name,
		Symbol:    symbol,
		URI:       uri,
	})
	return nil
}

func tokenAmount(data []byte) (uint64, error) {
	if len(data) < 9 {
		return 0, common.ErrInvalidInstructionData
	}
	return binary.LittleEndian.Uint64(data[1:9]), nil
}

func readString(data []byte, offset int) (string, int, error) {
	if offset+4 > len(data) {
		return "", 0, common.ErrInvalidInstructionData
	}
	n := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
	offset += 4
	if offset+n > len(data) {
		return "", 0, common.ErrInvalidInstructionData
	}
	return string(data[offset : offset+n]), offset + n, nil
}

func viewTokenMut(acct *types.Account) (spltoken.AccountMut, error) {
	if !acct.Writable {
		return spltoken.AccountMut{}, fmt.Errorf("%w: %s", ErrNotWritable, acct.Key)
	}
	return spltoken.ViewAccountMut(acct.Data)
}

func viewMintMut(acct *types.Account) (spltoken.MintMut, error) {
	if !acct.Writable {
		return spltoken.MintMut{}, fmt.Errorf("%w: %s", ErrNotWritable, acct.Key)
	}
	return spltoken.ViewMintMut(acct.Data)
}

// requireTokenOwner checks that the token account's recorded owner matches
// the spending authority.
func requireTokenOwner(acct *types.Account, authority solana.PublicKey) error {
	view, err := spltoken.ViewAccount(acct.Data)
	if err != nil {
		return err
	}
	if !view.Owner().Equals(authority) {
		return common.ErrInvalidAuthority
	}
	return nil
}

// moveTokens debits source and credits dest, requiring both writable and
// the same mint.
func moveTokens(source, dest *types.Account, amount uint64) error {
	sourceMut, err := viewTokenMut(source)
	if err != nil {
		return err
	}
	destMut, err := viewTokenMut(dest)
	if err != nil {
		return err
	}
	if !sourceMut.View().Mint().Equals(destMut.View().Mint()) {
		return common.ErrInvalidMint
	}
	if sourceMut.View().Amount() < amount {
		return common.ErrInsufficientBalance
	}
	sourceMut.SetAmount(sourceMut.View().Amount() - amount)
	destMut.SetAmount(destMut.View().Amount() + amount)
	return nil
}
