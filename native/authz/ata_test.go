package authz

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"zupytoken/core/types"
	"zupytoken/native/common"
	"zupytoken/native/spltoken"
	"zupytoken/native/token"
)

func splAccount(key, mint, owner solana.PublicKey, amount uint64) *types.Account {
	data := make([]byte, spltoken.TokenAccountLen)
	mut, err := spltoken.ViewAccountMut(data)
	if err != nil {
		panic(err)
	}
	mut.SetMint(mint)
	mut.SetOwner(owner)
	mut.SetAmount(amount)
	mut.SetState(spltoken.StateInitialized)
	return &types.Account{Key: key, Owner: token.Token2022Program, Data: data}
}

func TestValidateSourceATAHappyPath(t *testing.T) {
	owner := filledKey(0x11)
	ata := splAccount(filledKey(0x12), testMintKey, owner, 500)
	if err := ValidateSourceATA(ata, testMintKey, owner); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateSourceATAWrongProgramOwner(t *testing.T) {
	owner := filledKey(0x11)
	ata := splAccount(filledKey(0x12), testMintKey, owner, 500)
	ata.Owner = filledKey(0x63)
	if err := ValidateSourceATA(ata, testMintKey, owner); !errors.Is(err, common.ErrInvalidAuthority) {
		t.Fatalf("expected ErrInvalidAuthority, got %v", err)
	}
}

func TestValidateSourceATAWrongMint(t *testing.T) {
	owner := filledKey(0x11)
	ata := splAccount(filledKey(0x12), filledKey(0x58), owner, 500)
	if err := ValidateSourceATA(ata, testMintKey, owner); !errors.Is(err, common.ErrInvalidMint) {
		t.Fatalf("expected ErrInvalidMint, got %v", err)
	}
}

func TestValidateSourceATAWrongTokenOwner(t *testing.T) {
	ata := splAccount(filledKey(0x12), testMintKey, filledKey(0x63), 500)
	if err := ValidateSourceATA(ata, testMintKey, filledKey(0x11)); !errors.Is(err, common.ErrInvalidAuthority) {
		t.Fatalf("expected ErrInvalidAuthority, got %v", err)
	}
}

func TestValidateDestinationATAEmptyPasses(t *testing.T) {
	dest := &types.Account{Key: filledKey(0x13)}
	if err := ValidateDestinationATAIfExists(dest, testMintKey); err != nil {
		t.Fatalf("empty destination must pass, got %v", err)
	}
}

func TestValidateDestinationATAExistingChecked(t *testing.T) {
	dest := splAccount(filledKey(0x13), filledKey(0x58), filledKey(0x11), 0)
	if err := ValidateDestinationATAIfExists(dest, testMintKey); !errors.Is(err, common.ErrInvalidMint) {
		t.Fatalf("expected ErrInvalidMint, got %v", err)
	}
	dest.Owner = filledKey(0x63)
	if err := ValidateDestinationATAIfExists(dest, testMintKey); !errors.Is(err, common.ErrInvalidAuthority) {
		t.Fatalf("expected ErrInvalidAuthority, got %v", err)
	}
}

func TestTokenBalance(t *testing.T) {
	ata := splAccount(filledKey(0x12), testMintKey, filledKey(0x11), 123456)
	amount, err := TokenBalance(ata)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if amount != 123456 {
		t.Fatalf("amount = %d, want 123456", amount)
	}
	ata.Data = ata.Data[:10]
	if _, err := TokenBalance(ata); !errors.Is(err, common.ErrInvalidAccountData) {
		t.Fatalf("expected ErrInvalidAccountData, got %v", err)
	}
}
