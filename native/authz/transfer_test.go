package authz

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"zupytoken/core/types"
	"zupytoken/native/common"
	"zupytoken/native/pda"
	"zupytoken/native/token"
)

func filledKey(b byte) solana.PublicKey {
	return solana.PublicKeyFromBytes(bytes.Repeat([]byte{b}, 32))
}

var (
	testTransferAuth = filledKey(0x03)
	testMintKey      = filledKey(0x08)
	testTreasury     = filledKey(0x05)
	testMintAuth     = filledKey(0x06)
)

// stateAccount builds a fully valid state record at its real derived
// address. Tests break individual invariants through mutate or by editing
// the returned account.
func stateAccount(t *testing.T, mutate func(token.StateMut)) *types.Account {
	t.Helper()
	addr, bump, err := pda.TokenState(token.ProgramID)
	if err != nil {
		t.Fatalf("derive state address: %v", err)
	}
	data := make([]byte, token.StateSize)
	mut, err := token.ViewStateMut(data)
	if err != nil {
		t.Fatalf("view state: %v", err)
	}
	mut.SetDiscriminator(token.StateDiscriminator)
	mut.SetTreasury(testTreasury)
	mut.SetMintAuthority(testMintAuth)
	mut.SetTransferAuthority(testTransferAuth)
	mut.SetPoolATA(filledKey(0x04))
	mut.SetMint(testMintKey)
	mut.SetBump(bump)
	mut.SetInitialized(true)
	if mutate != nil {
		mutate(mut)
	}
	return &types.Account{Key: addr, Owner: token.ProgramID, Data: data}
}

func signerAccount(key solana.PublicKey) *types.Account {
	return &types.Account{Key: key, Signer: true}
}

func mintAccount() *types.Account {
	return &types.Account{Key: testMintKey, Owner: token.Token2022Program}
}

func tokenProgramAccount() *types.Account {
	return &types.Account{Key: token.Token2022Program}
}

func TestValidateStateBaseHappyPath(t *testing.T) {
	state := stateAccount(t, nil)
	bump, err := ValidateStateBase(token.ProgramID, state)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	view, _ := token.ViewState(state.Data)
	if bump != view.Bump() {
		t.Fatalf("bump = %d, want %d", bump, view.Bump())
	}
}

func TestValidateStateBaseWrongOwner(t *testing.T) {
	state := stateAccount(t, nil)
	state.Owner = filledKey(0x63)
	if _, err := ValidateStateBase(token.ProgramID, state); !errors.Is(err, common.ErrInvalidAuthority) {
		t.Fatalf("expected ErrInvalidAuthority, got %v", err)
	}
}

func TestValidateStateBaseShortData(t *testing.T) {
	state := stateAccount(t, nil)
	state.Data = state.Data[:token.StateSize-1]
	if _, err := ValidateStateBase(token.ProgramID, state); !errors.Is(err, common.ErrInvalidAccountData) {
		t.Fatalf("expected ErrInvalidAccountData, got %v", err)
	}
}

func TestValidateStateBaseBadAddress(t *testing.T) {
	state := stateAccount(t, nil)
	state.Key = filledKey(0xCC)
	if _, err := ValidateStateBase(token.ProgramID, state); !errors.Is(err, common.ErrInvalidPDA) {
		t.Fatalf("expected ErrInvalidPDA, got %v", err)
	}
}

func TestValidateStateBaseNotInitialized(t *testing.T) {
	state := stateAccount(t, func(mut token.StateMut) {
		mut.SetInitialized(false)
	})
	if _, err := ValidateStateBase(token.ProgramID, state); !errors.Is(err, common.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestValidateTransferCommonHappyPath(t *testing.T) {
	state := stateAccount(t, nil)
	res, err := ValidateTransferCommon(token.ProgramID, state, signerAccount(testTransferAuth), mintAccount(), tokenProgramAccount())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	view, _ := token.ViewState(state.Data)
	if res.Bump != view.Bump() {
		t.Fatalf("bump = %d, want %d", res.Bump, view.Bump())
	}

	// The chain only reads, so a second pass over the unchanged record
	// must reach the same verdict and bump.
	again, err := ValidateTransferCommon(token.ProgramID, state, signerAccount(testTransferAuth), mintAccount(), tokenProgramAccount())
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if again.Bump != res.Bump {
		t.Fatalf("second pass bump = %d, want %d", again.Bump, res.Bump)
	}
}

func TestValidateTransferCommonPaused(t *testing.T) {
	state := stateAccount(t, func(mut token.StateMut) {
		mut.SetPaused(true)
	})
	_, err := ValidateTransferCommon(token.ProgramID, state, signerAccount(testTransferAuth), mintAccount(), tokenProgramAccount())
	if !errors.Is(err, common.ErrSystemPaused) {
		t.Fatalf("expected ErrSystemPaused, got %v", err)
	}
}

func TestValidateTransferCommonAuthorityNotSigner(t *testing.T) {
	state := stateAccount(t, nil)
	authority := &types.Account{Key: testTransferAuth}
	_, err := ValidateTransferCommon(token.ProgramID, state, authority, mintAccount(), tokenProgramAccount())
	if !errors.Is(err, common.ErrInvalidAuthority) {
		t.Fatalf("expected ErrInvalidAuthority, got %v", err)
	}
}

func TestValidateTransferCommonWrongAuthority(t *testing.T) {
	state := stateAccount(t, nil)
	_, err := ValidateTransferCommon(token.ProgramID, state, signerAccount(filledKey(0x63)), mintAccount(), tokenProgramAccount())
	if !errors.Is(err, common.ErrInvalidAuthority) {
		t.Fatalf("expected ErrInvalidAuthority, got %v", err)
	}
}

func TestValidateTransferCommonWrongMintOwner(t *testing.T) {
	state := stateAccount(t, nil)
	mint := &types.Account{Key: testMintKey, Owner: filledKey(0x4D)}
	_, err := ValidateTransferCommon(token.ProgramID, state, signerAccount(testTransferAuth), mint, tokenProgramAccount())
	if !errors.Is(err, common.ErrInvalidMint) {
		t.Fatalf("expected ErrInvalidMint, got %v", err)
	}
}

func TestValidateTransferCommonWrongMintAddress(t *testing.T) {
	state := stateAccount(t, nil)
	mint := &types.Account{Key: filledKey(0x58), Owner: token.Token2022Program}
	_, err := ValidateTransferCommon(token.ProgramID, state, signerAccount(testTransferAuth), mint, tokenProgramAccount())
	if !errors.Is(err, common.ErrInvalidMint) {
		t.Fatalf("expected ErrInvalidMint, got %v", err)
	}
}

func TestValidateTransferCommonWrongTokenProgram(t *testing.T) {
	state := stateAccount(t, nil)
	program := &types.Account{Key: filledKey(0x42)}
	_, err := ValidateTransferCommon(token.ProgramID, state, signerAccount(testTransferAuth), mintAccount(), program)
	if !errors.Is(err, common.ErrInvalidTokenProgram) {
		t.Fatalf("expected ErrInvalidTokenProgram, got %v", err)
	}
}

func TestValidateTransferCompressedSkipsTokenProgram(t *testing.T) {
	state := stateAccount(t, nil)
	res, err := ValidateTransferCompressed(token.ProgramID, state, signerAccount(testTransferAuth), mintAccount())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Bump == 0 {
		t.Fatal("bump should be recovered")
	}
}

func TestValidateTransferCompressedStillChecksPaused(t *testing.T) {
	state := stateAccount(t, func(mut token.StateMut) {
		mut.SetPaused(true)
	})
	_, err := ValidateTransferCompressed(token.ProgramID, state, signerAccount(testTransferAuth), mintAccount())
	if !errors.Is(err, common.ErrSystemPaused) {
		t.Fatalf("expected ErrSystemPaused, got %v", err)
	}
}

func TestValidateTransferCompressedStillChecksMint(t *testing.T) {
	state := stateAccount(t, nil)
	mint := &types.Account{Key: filledKey(0x58), Owner: token.Token2022Program}
	_, err := ValidateTransferCompressed(token.ProgramID, state, signerAccount(testTransferAuth), mint)
	if !errors.Is(err, common.ErrInvalidMint) {
		t.Fatalf("expected ErrInvalidMint, got %v", err)
	}
}

func TestValidateMetadataAccountsHappyPath(t *testing.T) {
	state := stateAccount(t, nil)
	bump, err := ValidateMetadataAccounts(token.ProgramID, signerAccount(testTreasury), state, mintAccount(), tokenProgramAccount())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	view, _ := token.ViewState(state.Data)
	if bump != view.Bump() {
		t.Fatalf("bump = %d, want %d", bump, view.Bump())
	}
}

func TestValidateMetadataAccountsWrongTreasury(t *testing.T) {
	state := stateAccount(t, nil)
	_, err := ValidateMetadataAccounts(token.ProgramID, signerAccount(filledKey(0x63)), state, mintAccount(), tokenProgramAccount())
	if !errors.Is(err, common.ErrUnauthorizedTreasury) {
		t.Fatalf("expected ErrUnauthorizedTreasury, got %v", err)
	}
}

func TestValidateMetadataAccountsNotSigner(t *testing.T) {
	state := stateAccount(t, nil)
	authority := &types.Account{Key: testTreasury}
	_, err := ValidateMetadataAccounts(token.ProgramID, authority, state, mintAccount(), tokenProgramAccount())
	if !errors.Is(err, common.ErrInvalidAuthority) {
		t.Fatalf("expected ErrInvalidAuthority, got %v", err)
	}
}

func TestValidateMetadataAccountsAllowedWhilePaused(t *testing.T) {
	state := stateAccount(t, func(mut token.StateMut) {
		mut.SetPaused(true)
	})
	if _, err := ValidateMetadataAccounts(token.ProgramID, signerAccount(testTreasury), state, mintAccount(), tokenProgramAccount()); err != nil {
		t.Fatalf("metadata must stay available while paused, got %v", err)
	}
}

func TestValidateNFTPayerHappyPath(t *testing.T) {
	state := stateAccount(t, nil)
	if err := ValidateNFTPayer(token.ProgramID, signerAccount(testMintAuth), state); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateNFTPayerNotSigner(t *testing.T) {
	state := stateAccount(t, nil)
	payer := &types.Account{Key: testMintAuth}
	if err := ValidateNFTPayer(token.ProgramID, payer, state); !errors.Is(err, common.ErrInvalidAuthority) {
		t.Fatalf("expected ErrInvalidAuthority, got %v", err)
	}
}

func TestValidateNFTPayerWrongAuthority(t *testing.T) {
	state := stateAccount(t, nil)
	if err := ValidateNFTPayer(token.ProgramID, signerAccount(filledKey(0x63)), state); !errors.Is(err, common.ErrInvalidAuthority) {
		t.Fatalf("expected ErrInvalidAuthority, got %v", err)
	}
}
