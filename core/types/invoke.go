package types

import "github.com/gagliardetto/solana-go"

// Invocation is a cross-program call assembled by an instruction handler.
// Accounts line up one to one with the instruction's account metas; the metas
// decide the flags the callee observes, so a handler can promote an account
// to signer when a program-derived address signs via Seeds.
type Invocation struct {
	Instruction solana.Instruction
	Accounts    []*Account
	Seeds       [][][]byte
}

// Invoker executes cross-program invocations on behalf of handlers. The
// in-process ledger implements it for tests and simulation; a handler never
// needs to know which implementation it is talking to.
type Invoker interface {
	Invoke(inv Invocation) error
}
