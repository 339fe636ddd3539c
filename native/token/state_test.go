package token

import (
	"errors"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"

	"zupytoken/native/common"
)

func filledKey(b byte) solana.PublicKey {
	var key solana.PublicKey
	for i := range key {
		key[i] = b
	}
	return key
}

func TestStateRoundTripKeys(t *testing.T) {
	buf := make([]byte, StateSize)
	mut, err := ViewStateMut(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mut.SetTreasury(filledKey(1))
	mut.SetMintAuthority(filledKey(2))
	mut.SetTransferAuthority(filledKey(3))
	mut.SetPoolATA(filledKey(4))
	mut.SetDistributionPool(filledKey(5))
	mut.SetIncentivePool(filledKey(6))
	mut.SetTreasuryATA(filledKey(7))
	mut.SetMint(filledKey(8))

	view, err := ViewState(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Treasury() != filledKey(1) {
		t.Fatalf("treasury mismatch")
	}
	if view.MintAuthorityKey() != filledKey(2) {
		t.Fatalf("mint authority mismatch")
	}
	if view.TransferAuthorityKey() != filledKey(3) {
		t.Fatalf("transfer authority mismatch")
	}
	if view.PoolATA() != filledKey(4) {
		t.Fatalf("pool ata mismatch")
	}
	if view.DistributionPool() != filledKey(5) {
		t.Fatalf("distribution pool mismatch")
	}
	if view.IncentivePool() != filledKey(6) {
		t.Fatalf("incentive pool mismatch")
	}
	if view.TreasuryATA() != filledKey(7) {
		t.Fatalf("treasury ata mismatch")
	}
	if view.Mint() != filledKey(8) {
		t.Fatalf("mint mismatch")
	}
}

func TestStateRoundTripScalars(t *testing.T) {
	buf := make([]byte, StateSize)
	mut, _ := ViewStateMut(buf)

	mut.SetDiscriminator(StateDiscriminator)
	mut.SetInitialized(true)
	mut.SetBump(254)
	mut.SetPerTxAutoLimit(100_000_000_000)
	mut.SetDailyAutoLimit(500_000_000_000)
	mut.SetDailyMinted(42_000_000)
	mut.SetLastResetTimestamp(1_700_000_000)
	mut.SetPaused(false)

	view, _ := ViewState(buf)
	if view.Discriminator() != StateDiscriminator {
		t.Fatalf("discriminator mismatch")
	}
	if !view.Initialized() {
		t.Fatalf("expected initialized")
	}
	if view.Bump() != 254 {
		t.Fatalf("unexpected bump: %d", view.Bump())
	}
	if view.PerTxAutoLimit() != 100_000_000_000 {
		t.Fatalf("unexpected per-tx limit: %d", view.PerTxAutoLimit())
	}
	if view.DailyAutoLimit() != 500_000_000_000 {
		t.Fatalf("unexpected daily limit: %d", view.DailyAutoLimit())
	}
	if view.DailyMinted() != 42_000_000 {
		t.Fatalf("unexpected daily minted: %d", view.DailyMinted())
	}
	if view.LastResetTimestamp() != 1_700_000_000 {
		t.Fatalf("unexpected reset timestamp: %d", view.LastResetTimestamp())
	}
	if view.Paused() {
		t.Fatalf("expected unpaused")
	}
}

func TestStatePredicates(t *testing.T) {
	buf := make([]byte, StateSize)
	mut, _ := ViewStateMut(buf)

	mut.SetTreasury(filledKey(10))
	mut.SetMintAuthority(filledKey(20))
	mut.SetTransferAuthority(filledKey(30))
	mut.SetPerTxAutoLimit(1000)
	mut.SetDailyAutoLimit(5000)
	mut.SetDailyMinted(2000)

	view := mut.View()
	if !view.IsTreasury(filledKey(10)) || view.IsTreasury(filledKey(20)) {
		t.Fatalf("treasury predicate mismatch")
	}
	if !view.IsMintAuthority(filledKey(20)) {
		t.Fatalf("mint authority predicate mismatch")
	}
	if !view.IsTransferAuthority(filledKey(30)) {
		t.Fatalf("transfer authority predicate mismatch")
	}
	mut.SetLastResetTimestamp(1_700_000_000)
	usage := view.Usage()
	if usage.Day != uint64(DayOf(1_700_000_000)) || usage.Minted != 2000 {
		t.Fatalf("usage mismatch: %+v", usage)
	}
}

func TestStateShortSliceRejected(t *testing.T) {
	if _, err := ViewState(make([]byte, StateSize-1)); !errors.Is(err, common.ErrInvalidAccountData) {
		t.Fatalf("expected ErrInvalidAccountData, got %v", err)
	}
	if _, err := ViewStateMut(nil); !errors.Is(err, common.ErrInvalidAccountData) {
		t.Fatalf("expected ErrInvalidAccountData, got %v", err)
	}
}

func TestMaybeResetDaily(t *testing.T) {
	buf := make([]byte, StateSize)
	mut, _ := ViewStateMut(buf)

	mut.SetDailyMinted(50_000)
	mut.SetLastResetTimestamp(SecondsPerDay)

	mut.MaybeResetDaily(SecondsPerDay + 100)
	if mut.View().DailyMinted() != 50_000 {
		t.Fatalf("same day should not reset")
	}

	mut.MaybeResetDaily(SecondsPerDay*2 + 1)
	if mut.View().DailyMinted() != 0 {
		t.Fatalf("new day should reset")
	}
	if mut.View().LastResetTimestamp() != SecondsPerDay*2+1 {
		t.Fatalf("reset timestamp not advanced")
	}
}

func TestRecordMintSaturates(t *testing.T) {
	buf := make([]byte, StateSize)
	mut, _ := ViewStateMut(buf)

	mut.SetDailyMinted(100)
	mut.RecordMint(50)
	if mut.View().DailyMinted() != 150 {
		t.Fatalf("unexpected daily minted: %d", mut.View().DailyMinted())
	}

	mut.SetDailyMinted(math.MaxUint64 - 10)
	mut.RecordMint(20)
	if mut.View().DailyMinted() != math.MaxUint64 {
		t.Fatalf("expected clamp at max, got %d", mut.View().DailyMinted())
	}
}

func TestStateDiscriminatorDerivation(t *testing.T) {
	if AccountDiscriminator("TokenState") != StateDiscriminator {
		t.Fatalf("token-state discriminator does not match its derivation")
	}
}

func TestWritesLandInBackingSlice(t *testing.T) {
	buf := make([]byte, StateSize)
	mut, _ := ViewStateMut(buf)

	mut.SetPaused(true)
	if buf[offPaused] != 1 {
		t.Fatalf("write did not reach backing slice")
	}
	mut.SetPaused(false)
	if buf[offPaused] != 0 {
		t.Fatalf("clear did not reach backing slice")
	}
}
