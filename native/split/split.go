// Package split implements the three-way decomposition applied to gross
// transfer totals: a company share, a burned share, and an incentive
// share that together conserve the input exactly.
package split

import (
	"math/bits"

	"github.com/holiman/uint256"

	"zupytoken/native/common"
)

// Result is the decomposition of a gross amount.
type Result struct {
	Company   uint64
	Burn      uint64
	Incentive uint64
}

// Calculate splits total. The company share is floor(total*100/120), half
// of the remaining markup burns, and the incentive share absorbs the odd
// unit on uneven markups. The multiply runs at 256-bit width so no input
// overflows, and narrowing back to 64 bits is checked rather than
// truncated. Every result is re-verified by checked addition before it is
// returned.
func Calculate(total uint64) (Result, error) {
	if total == 0 {
		return Result{}, common.ErrZeroAmount
	}

	wide := uint256.NewInt(total)
	wide.Mul(wide, uint256.NewInt(100))
	wide.Div(wide, uint256.NewInt(120))
	if !wide.IsUint64() {
		return Result{}, common.ErrSplitCalculation
	}
	company := wide.Uint64()

	markup := total - company
	burn := markup / 2
	incentive := markup - burn

	sum, carry := bits.Add64(company, burn, 0)
	sum, carry2 := bits.Add64(sum, incentive, carry)
	if carry2 != 0 || sum != total {
		return Result{}, common.ErrSplitCalculation
	}

	return Result{Company: company, Burn: burn, Incentive: incentive}, nil
}
