package spltoken

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"zupytoken/native/common"
)

func filledKey(b byte) solana.PublicKey {
	return solana.PublicKeyFromBytes(bytes.Repeat([]byte{b}, 32))
}

func TestViewAccountRejectsShortBuffer(t *testing.T) {
	if _, err := ViewAccount(make([]byte, TokenAccountLen-1)); !errors.Is(err, common.ErrInvalidAccountData) {
		t.Fatalf("expected ErrInvalidAccountData, got %v", err)
	}
	if _, err := ViewAccountMut(nil); !errors.Is(err, common.ErrInvalidAccountData) {
		t.Fatalf("expected ErrInvalidAccountData for nil, got %v", err)
	}
}

func TestAccountRoundTrip(t *testing.T) {
	buf := make([]byte, TokenAccountLen)
	mut, err := ViewAccountMut(buf)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	mint := filledKey(0x11)
	owner := filledKey(0x22)
	mut.SetMint(mint)
	mut.SetOwner(owner)
	mut.SetAmount(42_000_000)
	mut.SetState(StateInitialized)

	view := mut.View()
	if !view.Mint().Equals(mint) {
		t.Fatalf("mint = %s, want %s", view.Mint(), mint)
	}
	if !view.Owner().Equals(owner) {
		t.Fatalf("owner = %s, want %s", view.Owner(), owner)
	}
	if view.Amount() != 42_000_000 {
		t.Fatalf("amount = %d, want 42000000", view.Amount())
	}
	if view.Frozen() {
		t.Fatal("account should not be frozen")
	}
	if view.State() != StateInitialized {
		t.Fatalf("state = %d, want %d", view.State(), StateInitialized)
	}
}

func TestAccountWritesThroughToBackingSlice(t *testing.T) {
	buf := make([]byte, TokenAccountLen)
	mut, _ := ViewAccountMut(buf)
	mut.SetAmount(7)

	reread, err := ViewAccount(buf)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if reread.Amount() != 7 {
		t.Fatalf("amount = %d, want 7", reread.Amount())
	}
	if buf[64] != 7 {
		t.Fatalf("amount byte at offset 64 = %d, want 7", buf[64])
	}
}

func TestAccountFrozen(t *testing.T) {
	buf := make([]byte, TokenAccountLen)
	mut, _ := ViewAccountMut(buf)
	mut.SetState(StateFrozen)
	if !mut.View().Frozen() {
		t.Fatal("expected frozen account")
	}
}

func TestViewMintRejectsShortBuffer(t *testing.T) {
	if _, err := ViewMint(make([]byte, MintLen-1)); !errors.Is(err, common.ErrInvalidAccountData) {
		t.Fatalf("expected ErrInvalidAccountData, got %v", err)
	}
}

func TestMintRoundTrip(t *testing.T) {
	buf := make([]byte, MintLen)
	mut, err := ViewMintMut(buf)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	authority := filledKey(0x33)
	mut.SetMintAuthority(authority)
	mut.SetSupply(5_000_000_000_000)
	mut.SetDecimals(6)
	mut.SetInitialized(true)

	view := mut.View()
	got, ok := view.MintAuthority()
	if !ok {
		t.Fatal("mint authority should be present")
	}
	if !got.Equals(authority) {
		t.Fatalf("authority = %s, want %s", got, authority)
	}
	if view.Supply() != 5_000_000_000_000 {
		t.Fatalf("supply = %d", view.Supply())
	}
	if view.Decimals() != 6 {
		t.Fatalf("decimals = %d, want 6", view.Decimals())
	}
	if !view.Initialized() {
		t.Fatal("mint should be initialized")
	}
}

func TestMintAuthorityAbsentByDefault(t *testing.T) {
	view, err := ViewMint(make([]byte, MintLen))
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if _, ok := view.MintAuthority(); ok {
		t.Fatal("zeroed mint should report no authority")
	}
	if view.Initialized() {
		t.Fatal("zeroed mint should not be initialized")
	}
}

func TestMintExtendedLayoutAccepted(t *testing.T) {
	// Mints carrying extensions are longer than the basic layout.
	buf := make([]byte, 234)
	mut, err := ViewMintMut(buf)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	mut.SetSupply(99)
	if mut.View().Supply() != 99 {
		t.Fatalf("supply = %d, want 99", mut.View().Supply())
	}
}
