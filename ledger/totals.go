package ledger

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"zupytoken/native/ctoken"
	"zupytoken/native/spltoken"
	"zupytoken/native/token"
)

// Totals sums every balance the ledger tracks for one mint.
type Totals struct {
	// Supply is the amount the mint has outstanding.
	Supply uint64
	// Held is the sum over every SPL token account of the mint,
	// including the interface pool's custody.
	Held uint64
	// Compressed is the sum of all compressed balances.
	Compressed uint64
	// PoolCustody is the balance of the mint's SPL interface pool, the
	// account that backs the compressed balances.
	PoolCustody uint64
}

// Totals walks the ledger and sums balances for mint. Supply and Held must
// agree, as must Compressed and PoolCustody; Conserved checks both.
func (l *Ledger) Totals(mint solana.PublicKey) Totals {
	var t Totals
	if acct := l.accounts[mint]; acct != nil {
		if view, err := spltoken.ViewMint(acct.Data); err == nil {
			t.Supply = view.Supply()
		}
	}
	poolKey, _, poolErr := ctoken.DeriveSPLInterfacePDA(mint)
	for key, acct := range l.accounts {
		if key.Equals(mint) || !acct.OwnedBy(token.Token2022Program) {
			continue
		}
		view, err := spltoken.ViewAccount(acct.Data)
		if err != nil || !view.Mint().Equals(mint) {
			continue
		}
		t.Held += view.Amount()
		if poolErr == nil && key.Equals(poolKey) {
			t.PoolCustody = view.Amount()
		}
	}
	for _, amount := range l.compressed {
		t.Compressed += amount
	}
	return t
}

// Conserved checks that mint supply equals the sum of held balances and
// that the interface pool's custody covers every compressed balance.
func (l *Ledger) Conserved(mint solana.PublicKey) error {
	t := l.Totals(mint)
	if t.Supply != t.Held {
		return fmt.Errorf("ledger: mint supply %d does not match held balances %d", t.Supply, t.Held)
	}
	if t.Compressed != t.PoolCustody {
		return fmt.Errorf("ledger: compressed balances %d do not match pool custody %d", t.Compressed, t.PoolCustody)
	}
	return nil
}
