package ledger

import (
	"github.com/gagliardetto/solana-go"

	"zupytoken/core"
	"zupytoken/core/types"
	"zupytoken/native/token"
)

// AccountRef names one account an instruction touches plus the privileges
// the transaction grants it.
type AccountRef struct {
	Key      solana.PublicKey
	Signer   bool
	Writable bool
}

// Ref builds a read-only reference.
func Ref(key solana.PublicKey) AccountRef { return AccountRef{Key: key} }

// AsSigner marks the reference as a transaction signer.
func (r AccountRef) AsSigner() AccountRef { r.Signer = true; return r }

// AsWritable marks the reference writable.
func (r AccountRef) AsWritable() AccountRef { r.Writable = true; return r }

// Runtime drives the instruction processor against a ledger, standing in
// for a validator: it materializes the account list for each instruction
// and the ledger applies whatever cross-program calls the handler emits.
type Runtime struct {
	Ledger    *Ledger
	Processor *core.Processor
}

// NewRuntime wires a processor to the ledger. The ledger adopts the
// processor's program ID so seed-signed invocations resolve against the
// same program.
func NewRuntime(l *Ledger, opts ...core.ProcessorOption) *Runtime {
	proc := core.NewProcessor(l, opts...)
	l.programID = proc.ProgramID()
	return &Runtime{Ledger: l, Processor: proc}
}

// Execute runs one instruction. Privileges union when a key repeats, the
// way a transaction's account list merges flags.
func (r *Runtime) Execute(data []byte, refs []AccountRef) error {
	for _, ref := range refs {
		acct := r.Ledger.account(ref.Key)
		acct.Signer = false
		acct.Writable = false
	}
	accounts := make([]*types.Account, len(refs))
	for i, ref := range refs {
		acct := r.Ledger.account(ref.Key)
		acct.Signer = acct.Signer || ref.Signer
		acct.Writable = acct.Writable || ref.Writable
		accounts[i] = acct
	}
	return r.Processor.Execute(accounts, data)
}

// Call prefixes payload with the discriminator for name and executes it.
func (r *Runtime) Call(name string, payload []byte, refs ...AccountRef) error {
	disc := token.InstructionDiscriminator(name)
	data := make([]byte, 0, 8+len(payload))
	data = append(data, disc[:]...)
	data = append(data, payload...)
	return r.Execute(data, refs)
}
