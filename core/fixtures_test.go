package core

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"

	"zupytoken/core/types"
	"zupytoken/native/pda"
	"zupytoken/native/spltoken"
	"zupytoken/native/token"
)

func testKey(b byte) solana.PublicKey {
	return solana.PublicKeyFromBytes(bytes.Repeat([]byte{b}, 32))
}

var (
	testTreasury     = testKey(0x05)
	testMintAuth     = testKey(0x06)
	testTransferAuth = testKey(0x03)
	testMint         = testKey(0x08)
	testPoolATAKey   = testKey(0x04)
	testTreasuryATA  = testKey(0x07)
)

const testMemo = "zupy:v1:pos:order-77"

// stateAccount builds a valid state record at its derived address for the
// default program. Tests break individual invariants through mutate.
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
	mut.SetPoolATA(testPoolATAKey)
	mut.SetTreasuryATA(testTreasuryATA)
	mut.SetMint(testMint)
	mut.SetBump(bump)
	mut.SetInitialized(true)
	mut.SetPerTxAutoLimit(token.PerTxAutoLimit)
	mut.SetDailyAutoLimit(token.DailyAutoLimit)
	if mutate != nil {
		mutate(mut)
	}
	return &types.Account{Key: addr, Owner: token.ProgramID, Data: data, Writable: true}
}

func signerAccount(key solana.PublicKey) *types.Account {
	return &types.Account{Key: key, Signer: true}
}

func writableSigner(key solana.PublicKey) *types.Account {
	return &types.Account{Key: key, Signer: true, Writable: true}
}

func readonlyAccount(key solana.PublicKey) *types.Account {
	return &types.Account{Key: key}
}

func mintAccount() *types.Account {
	return &types.Account{Key: testMint, Owner: token.Token2022Program, Writable: true}
}

// splAccount builds an initialized SPL token account with the given
// balance.
func splAccount(t *testing.T, key, mintKey, owner solana.PublicKey, amount uint64) *types.Account {
	t.Helper()
	data := make([]byte, spltoken.TokenAccountLen)
	mut, err := spltoken.ViewAccountMut(data)
	if err != nil {
		t.Fatalf("view token account: %v", err)
	}
	mut.SetMint(mintKey)
	mut.SetOwner(owner)
	mut.SetAmount(amount)
	mut.SetState(spltoken.StateInitialized)
	return &types.Account{Key: key, Owner: token.Token2022Program, Data: data, Writable: true}
}

func appendU64(data []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(data, v)
}

func appendWireString(data []byte, s string) []byte {
	data = binary.LittleEndian.AppendUint32(data, uint32(len(s)))
	return append(data, s...)
}

// amountMemoData lays out the common "amount then memo" payload.
func amountMemoData(amount uint64, memo string) []byte {
	return appendWireString(appendU64(nil, amount), memo)
}

// callData returns the serialized data of a recorded cross-program call.
func callData(t *testing.T, call types.Invocation) []byte {
	t.Helper()
	data, err := call.Instruction.Data()
	if err != nil {
		t.Fatalf("instruction data: %v", err)
	}
	return data
}
