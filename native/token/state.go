package token

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"zupytoken/native/common"
)

// StateSize is the full token-state record length, 8-byte record tag
// included.
const StateSize = 363

// StateDiscriminator tags token-state records. It equals
// AccountDiscriminator("TokenState").
var StateDiscriminator = [8]byte{218, 112, 6, 149, 55, 186, 168, 163}

const (
	offStateDisc        = 0
	offTreasury         = 8
	offMintAuthority    = 40
	offTransferAuth     = 72
	offPoolATA          = 104
	offDistributionPool = 136
	offIncentivePool    = 168
	offTreasuryATA      = 200
	offMint             = 232
	offInitialized      = 264
	offStateBump        = 265
	offPerTxAutoLimit   = 266
	offDailyAutoLimit   = 274
	offDailyMinted      = 282
	offLastResetTS      = 290
	offPaused           = 298
	// reserved 299..363
)

func readKey(data []byte, off int) solana.PublicKey {
	return solana.PublicKeyFromBytes(data[off : off+32])
}

func writeKey(data []byte, off int, key solana.PublicKey) {
	copy(data[off:off+32], key[:])
}

func readU64(data []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(data[off : off+8])
}

func writeU64(data []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(data[off:off+8], v)
}

func readI64(data []byte, off int) int64 {
	return int64(binary.LittleEndian.Uint64(data[off : off+8]))
}

func writeI64(data []byte, off int, v int64) {
	binary.LittleEndian.PutUint64(data[off:off+8], uint64(v))
}

// State is a read-only view over a token-state record. Accessors decode
// directly from the backing slice; nothing is copied up front.
type State struct {
	data []byte
}

// ViewState wraps data as a read-only token-state view.
func ViewState(data []byte) (State, error) {
	if len(data) < StateSize {
		return State{}, common.ErrInvalidAccountData
	}
	return State{data: data}, nil
}

// Discriminator returns the 8-byte record tag.
func (s State) Discriminator() [8]byte {
	var disc [8]byte
	copy(disc[:], s.data[offStateDisc:offStateDisc+8])
	return disc
}

// Treasury returns the treasury wallet address.
func (s State) Treasury() solana.PublicKey { return readKey(s.data, offTreasury) }

// MintAuthorityKey returns the configured mint authority.
func (s State) MintAuthorityKey() solana.PublicKey { return readKey(s.data, offMintAuthority) }

// TransferAuthorityKey returns the configured transfer authority.
func (s State) TransferAuthorityKey() solana.PublicKey { return readKey(s.data, offTransferAuth) }

// PoolATA returns the distribution pool's token account.
func (s State) PoolATA() solana.PublicKey { return readKey(s.data, offPoolATA) }

// DistributionPool returns the distribution pool authority address.
func (s State) DistributionPool() solana.PublicKey { return readKey(s.data, offDistributionPool) }

// IncentivePool returns the incentive pool address.
func (s State) IncentivePool() solana.PublicKey { return readKey(s.data, offIncentivePool) }

// TreasuryATA returns the treasury's token account.
func (s State) TreasuryATA() solana.PublicKey { return readKey(s.data, offTreasuryATA) }

// Mint returns the token mint address.
func (s State) Mint() solana.PublicKey { return readKey(s.data, offMint) }

// Initialized reports whether the record has been populated.
func (s State) Initialized() bool { return s.data[offInitialized] != 0 }

// Bump returns the record's derivation bump.
func (s State) Bump() uint8 { return s.data[offStateBump] }

// PerTxAutoLimit returns the per-transaction mint cap.
func (s State) PerTxAutoLimit() uint64 { return readU64(s.data, offPerTxAutoLimit) }

// DailyAutoLimit returns the daily mint cap.
func (s State) DailyAutoLimit() uint64 { return readU64(s.data, offDailyAutoLimit) }

// DailyMinted returns the amount minted in the current day bucket.
func (s State) DailyMinted() uint64 { return readU64(s.data, offDailyMinted) }

// LastResetTimestamp returns the unix time of the last day-bucket reset.
func (s State) LastResetTimestamp() int64 { return readI64(s.data, offLastResetTS) }

// Paused reports whether supervised value movement is halted. State
// satisfies common.PauseView.
func (s State) Paused() bool { return s.data[offPaused] != 0 }

// IsMintAuthority reports whether key matches the configured mint
// authority.
func (s State) IsMintAuthority(key solana.PublicKey) bool {
	return s.MintAuthorityKey() == key
}

// IsTransferAuthority reports whether key matches the configured transfer
// authority.
func (s State) IsTransferAuthority(key solana.PublicKey) bool {
	return s.TransferAuthorityKey() == key
}

// IsTreasury reports whether key matches the configured treasury.
func (s State) IsTreasury(key solana.PublicKey) bool {
	return s.Treasury() == key
}

// Usage returns the day-bucket counters as a quota usage value for
// common.CheckMint.
func (s State) Usage() common.MintUsage {
	return common.MintUsage{Day: uint64(DayOf(s.LastResetTimestamp())), Minted: s.DailyMinted()}
}

// StateMut is a writable view over a token-state record. Writes go
// straight through to the backing slice.
type StateMut struct {
	data []byte
}

// ViewStateMut wraps data as a writable token-state view.
func ViewStateMut(data []byte) (StateMut, error) {
	if len(data) < StateSize {
		return StateMut{}, common.ErrInvalidAccountData
	}
	return StateMut{data: data}, nil
}

// View returns the read-only view over the same backing slice.
func (s StateMut) View() State { return State{data: s.data} }

// SetDiscriminator writes the 8-byte record tag.
func (s StateMut) SetDiscriminator(disc [8]byte) {
	copy(s.data[offStateDisc:offStateDisc+8], disc[:])
}

// SetTreasury writes the treasury wallet address.
func (s StateMut) SetTreasury(key solana.PublicKey) { writeKey(s.data, offTreasury, key) }

// SetMintAuthority writes the mint authority.
func (s StateMut) SetMintAuthority(key solana.PublicKey) { writeKey(s.data, offMintAuthority, key) }

// SetTransferAuthority writes the transfer authority.
func (s StateMut) SetTransferAuthority(key solana.PublicKey) { writeKey(s.data, offTransferAuth, key) }

// SetPoolATA writes the distribution pool's token account.
func (s StateMut) SetPoolATA(key solana.PublicKey) { writeKey(s.data, offPoolATA, key) }

// SetDistributionPool writes the distribution pool authority address.
func (s StateMut) SetDistributionPool(key solana.PublicKey) {
	writeKey(s.data, offDistributionPool, key)
}

// SetIncentivePool writes the incentive pool address.
func (s StateMut) SetIncentivePool(key solana.PublicKey) { writeKey(s.data, offIncentivePool, key) }

// SetTreasuryATA writes the treasury's token account.
func (s StateMut) SetTreasuryATA(key solana.PublicKey) { writeKey(s.data, offTreasuryATA, key) }

// SetMint writes the token mint address.
func (s StateMut) SetMint(key solana.PublicKey) { writeKey(s.data, offMint, key) }

// SetInitialized writes the initialized flag.
func (s StateMut) SetInitialized(v bool) {
	s.data[offInitialized] = 0
	if v {
		s.data[offInitialized] = 1
	}
}

// SetBump writes the derivation bump.
func (s StateMut) SetBump(v uint8) { s.data[offStateBump] = v }

// SetPerTxAutoLimit writes the per-transaction mint cap.
func (s StateMut) SetPerTxAutoLimit(v uint64) { writeU64(s.data, offPerTxAutoLimit, v) }

// SetDailyAutoLimit writes the daily mint cap.
func (s StateMut) SetDailyAutoLimit(v uint64) { writeU64(s.data, offDailyAutoLimit, v) }

// SetDailyMinted writes the current day-bucket total.
func (s StateMut) SetDailyMinted(v uint64) { writeU64(s.data, offDailyMinted, v) }

// SetLastResetTimestamp writes the unix time of the last day-bucket reset.
func (s StateMut) SetLastResetTimestamp(v int64) { writeI64(s.data, offLastResetTS, v) }

// SetPaused writes the pause flag.
func (s StateMut) SetPaused(v bool) {
	s.data[offPaused] = 0
	if v {
		s.data[offPaused] = 1
	}
}

// MaybeResetDaily zeroes the day-bucket total once a new UTC day starts.
func (s StateMut) MaybeResetDaily(now int64) {
	if DayOf(now) > DayOf(s.View().LastResetTimestamp()) {
		s.SetDailyMinted(0)
		s.SetLastResetTimestamp(now)
	}
}

// RecordMint adds amount to the day-bucket total, clamping at the maximum.
func (s StateMut) RecordMint(amount uint64) {
	s.SetDailyMinted(common.SaturatingAdd(s.View().DailyMinted(), amount))
}
