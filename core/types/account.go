package types

import "github.com/gagliardetto/solana-go"

// Account is the runtime view of an on-chain account as an instruction
// handler receives it. Data aliases the ledger's backing buffer, so writes
// made through state views persist without an explicit store step.
type Account struct {
	Key      solana.PublicKey `json:"key"`
	Owner    solana.PublicKey `json:"owner"`
	Lamports uint64           `json:"lamports"`
	Data     []byte           `json:"data,omitempty"`
	Signer   bool             `json:"signer"`
	Writable bool             `json:"writable"`
}

// OwnedBy reports whether the account is owned by the given program.
func (a *Account) OwnedBy(program solana.PublicKey) bool {
	if a == nil {
		return false
	}
	return a.Owner.Equals(program)
}

// DataLen returns the length of the account's data buffer. A nil account
// reports zero, matching an account that was never allocated.
func (a *Account) DataLen() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}

// Meta converts the account into an instruction meta carrying the flags it
// arrived with. Used when forwarding trailing accounts into a cross-program
// call unchanged.
func (a *Account) Meta() *solana.AccountMeta {
	m := solana.Meta(a.Key)
	if a.Writable {
		m = m.WRITE()
	}
	if a.Signer {
		m = m.SIGNER()
	}
	return m
}
