package ledger

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"zupytoken/core"
	"zupytoken/core/types"
	"zupytoken/native/common"
	"zupytoken/native/spltoken"
	"zupytoken/native/token"
	"zupytoken/storage"
)

// Scenario is a declarative simulation: genesis accounts, then program
// instructions executed in order against a fresh ledger. The gateway's
// simulate endpoint and the CLI both run scenarios, so the shape is plain
// JSON throughout.
type Scenario struct {
	// Clock pins the cluster timestamp every step observes. Zero means
	// wall clock, which no deterministic scenario should rely on.
	Clock int64 `json:"clock,omitempty"`
	// Mint selects the mint whose totals the report sums. Blank skips
	// the conservation section.
	Mint string `json:"mint,omitempty"`

	Wallets       []ScenarioWallet       `json:"wallets,omitempty"`
	TokenAccounts []ScenarioTokenAccount `json:"tokenAccounts,omitempty"`
	Compressed    []ScenarioCompressed   `json:"compressed,omitempty"`
	Steps         []ScenarioStep         `json:"steps"`
}

// ScenarioWallet funds a system-owned account at genesis.
type ScenarioWallet struct {
	Key      string `json:"key"`
	Lamports uint64 `json:"lamports"`
}

// ScenarioTokenAccount registers an initialized SPL token account at
// genesis.
type ScenarioTokenAccount struct {
	Key    string `json:"key"`
	Mint   string `json:"mint"`
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

// ScenarioCompressed seeds a compressed balance at genesis.
type ScenarioCompressed struct {
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

// ScenarioStep is one program instruction: the operation name (dispatch
// adds the discriminator), its payload, and the ordered account list.
type ScenarioStep struct {
	Name     string            `json:"name"`
	Data     string            `json:"data,omitempty"` // base64 payload after the discriminator
	Accounts []ScenarioAccount `json:"accounts"`
}

// ScenarioAccount references one account a step touches.
type ScenarioAccount struct {
	Key      string `json:"key"`
	Signer   bool   `json:"signer,omitempty"`
	Writable bool   `json:"writable,omitempty"`
}

// StepResult reports one executed step. Code carries the stable program
// error number when the failure was a coded rejection.
type StepResult struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
	Code  uint32 `json:"code,omitempty"`
}

// Report summarizes a scenario run.
type Report struct {
	Steps     []StepResult      `json:"steps"`
	Totals    *Totals           `json:"totals,omitempty"`
	Conserved bool              `json:"conserved"`
	Balances  map[string]uint64 `json:"compressedBalances,omitempty"`
}

// RunScenario executes a scenario on a fresh ledger over store. Genesis
// problems abort with an error; step failures are captured in the report
// and stop the run, matching the all-or-nothing transaction model where
// later steps would have observed rolled-back state.
func RunScenario(store storage.Database, sc *Scenario, opts ...core.ProcessorOption) (*Report, error) {
	l := New(store)
	if sc.Clock != 0 {
		pinned := types.Clock{UnixTimestamp: sc.Clock}
		opts = append(opts, core.WithClock(func() types.Clock { return pinned }))
	}
	rt := NewRuntime(l, opts...)

	for _, wallet := range sc.Wallets {
		key, err := parseKey("wallet", wallet.Key)
		if err != nil {
			return nil, err
		}
		l.Register(&types.Account{Key: key, Owner: token.SystemProgram, Lamports: wallet.Lamports})
	}
	for _, ta := range sc.TokenAccounts {
		acct, err := genesisTokenAccount(ta)
		if err != nil {
			return nil, err
		}
		l.Register(acct)
	}
	for _, cb := range sc.Compressed {
		owner, err := parseKey("compressed owner", cb.Owner)
		if err != nil {
			return nil, err
		}
		l.SetCompressed(owner, cb.Amount)
	}

	report := &Report{Conserved: true}
	for _, step := range sc.Steps {
		result := StepResult{Name: step.Name}
		if err := runStep(rt, step); err != nil {
			result.Error = err.Error()
			if code, ok := common.CodeOf(err); ok {
				result.Code = code
			}
			report.Steps = append(report.Steps, result)
			break
		}
		report.Steps = append(report.Steps, result)
	}

	if strings.TrimSpace(sc.Mint) != "" {
		mint, err := parseKey("mint", sc.Mint)
		if err != nil {
			return nil, err
		}
		totals := l.Totals(mint)
		report.Totals = &totals
		report.Conserved = l.Conserved(mint) == nil
	}

	report.Balances = make(map[string]uint64)
	for _, cb := range sc.Compressed {
		owner, _ := parseKey("compressed owner", cb.Owner)
		report.Balances[owner.String()] = l.Compressed(owner)
	}
	return report, nil
}

func runStep(rt *Runtime, step ScenarioStep) error {
	payload, err := base64.StdEncoding.DecodeString(step.Data)
	if err != nil {
		return fmt.Errorf("ledger: step %q payload: %w", step.Name, err)
	}
	refs := make([]AccountRef, len(step.Accounts))
	for i, sa := range step.Accounts {
		key, err := parseKey("step account", sa.Key)
		if err != nil {
			return err
		}
		refs[i] = AccountRef{Key: key, Signer: sa.Signer, Writable: sa.Writable}
	}
	return rt.Call(step.Name, payload, refs...)
}

func genesisTokenAccount(ta ScenarioTokenAccount) (*types.Account, error) {
	key, err := parseKey("token account", ta.Key)
	if err != nil {
		return nil, err
	}
	mint, err := parseKey("token account mint", ta.Mint)
	if err != nil {
		return nil, err
	}
	owner, err := parseKey("token account owner", ta.Owner)
	if err != nil {
		return nil, err
	}
	data := make([]byte, spltoken.TokenAccountLen)
	mut, err := spltoken.ViewAccountMut(data)
	if err != nil {
		return nil, err
	}
	mut.SetMint(mint)
	mut.SetOwner(owner)
	mut.SetAmount(ta.Amount)
	mut.SetState(spltoken.StateInitialized)
	return &types.Account{Key: key, Owner: token.Token2022Program, Data: data}, nil
}

func parseKey(field, raw string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(strings.TrimSpace(raw))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("ledger: %s %q: %w", field, raw, err)
	}
	return key, nil
}
