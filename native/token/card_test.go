package token

import (
	"errors"
	"testing"

	"zupytoken/native/common"
)

func TestCardRoundTrip(t *testing.T) {
	buf := make([]byte, CardSize)
	mut, err := ViewCardMut(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var id [CardIDLen]byte
	copy(id[:], "0ujsszwN8NRY24YaXiTIE2VWDTS")

	mut.SetDiscriminator(CardDiscriminator)
	mut.SetOwner(filledKey(9))
	mut.SetMint(filledKey(11))
	mut.SetUserID(id)
	mut.SetCreatedAt(1_700_000_000)
	mut.SetBump(252)

	view, err := ViewCard(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Discriminator() != CardDiscriminator {
		t.Fatalf("discriminator mismatch")
	}
	if view.Owner() != filledKey(9) {
		t.Fatalf("owner mismatch")
	}
	if view.Mint() != filledKey(11) {
		t.Fatalf("mint mismatch")
	}
	if view.UserID() != id {
		t.Fatalf("user id mismatch")
	}
	if view.CreatedAt() != 1_700_000_000 {
		t.Fatalf("unexpected created at: %d", view.CreatedAt())
	}
	if view.Bump() != 252 {
		t.Fatalf("unexpected bump: %d", view.Bump())
	}
}

func TestCardShortSliceRejected(t *testing.T) {
	if _, err := ViewCard(make([]byte, CardSize-1)); !errors.Is(err, common.ErrInvalidAccountData) {
		t.Fatalf("expected ErrInvalidAccountData, got %v", err)
	}
}

func TestCardDiscriminatorDerivation(t *testing.T) {
	if AccountDiscriminator("ZupyCard") != CardDiscriminator {
		t.Fatalf("card discriminator does not match its derivation")
	}
}
