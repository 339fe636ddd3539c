package authz

import (
	"github.com/gagliardetto/solana-go"

	"zupytoken/core/types"
	"zupytoken/native/common"
	"zupytoken/native/pda"
	"zupytoken/native/token"
)

// TransferValidation carries the state bump recovered by the common checks,
// for signing later cross-program calls.
type TransferValidation struct {
	Bump uint8
}

// ValidateStateBase runs the checks shared by every instruction that reads
// the state record, in order: program ownership, data length, address
// against the stored bump, initialized flag. Paused and authority checks are
// instruction-specific and stay out. Returns the stored bump.
func ValidateStateBase(programID solana.PublicKey, stateAcct *types.Account) (uint8, error) {
	if !stateAcct.OwnedBy(programID) {
		return 0, common.ErrInvalidAuthority
	}
	if stateAcct.DataLen() < token.StateSize {
		return 0, common.ErrInvalidAccountData
	}
	state, err := token.ViewState(stateAcct.Data)
	if err != nil {
		return 0, err
	}
	bump := state.Bump()
	if err := pda.ValidateWithSeeds(stateAcct.Key, pda.StateSeeds(bump), programID); err != nil {
		return 0, err
	}
	if !state.Initialized() {
		return 0, common.ErrNotInitialized
	}
	return bump, nil
}

// ValidateTransferCommon runs the full nine-check chain every hot-path
// transfer starts with: the base state checks, then paused, then the
// transfer authority signature and match, then mint ownership and address,
// then the token program pin.
func ValidateTransferCommon(programID solana.PublicKey, stateAcct, transferAuthority, mint, tokenProgram *types.Account) (TransferValidation, error) {
	bump, err := ValidateStateBase(programID, stateAcct)
	if err != nil {
		return TransferValidation{}, err
	}
	state, err := token.ViewState(stateAcct.Data)
	if err != nil {
		return TransferValidation{}, err
	}

	if err := common.Guard(state); err != nil {
		return TransferValidation{}, err
	}

	if err := AssertSigner(transferAuthority); err != nil {
		return TransferValidation{}, err
	}
	if !state.IsTransferAuthority(transferAuthority.Key) {
		return TransferValidation{}, common.ErrInvalidAuthority
	}

	if !mint.OwnedBy(token.Token2022Program) {
		return TransferValidation{}, common.ErrInvalidMint
	}
	if !state.Mint().Equals(mint.Key) {
		return TransferValidation{}, common.ErrInvalidMint
	}

	if !tokenProgram.Key.Equals(token.Token2022Program) {
		return TransferValidation{}, common.ErrInvalidTokenProgram
	}

	return TransferValidation{Bump: bump}, nil
}

// ValidateTransferCompressed runs the first eight checks of
// ValidateTransferCommon and skips the token program pin, which does not
// apply when the instruction performs no token-account operations. Callers
// must verify the compressed-token program account separately.
func ValidateTransferCompressed(programID solana.PublicKey, stateAcct, transferAuthority, mint *types.Account) (TransferValidation, error) {
	bump, err := ValidateStateBase(programID, stateAcct)
	if err != nil {
		return TransferValidation{}, err
	}
	state, err := token.ViewState(stateAcct.Data)
	if err != nil {
		return TransferValidation{}, err
	}

	if err := common.Guard(state); err != nil {
		return TransferValidation{}, err
	}

	if err := AssertSigner(transferAuthority); err != nil {
		return TransferValidation{}, err
	}
	if !state.IsTransferAuthority(transferAuthority.Key) {
		return TransferValidation{}, common.ErrInvalidAuthority
	}

	if !mint.OwnedBy(token.Token2022Program) {
		return TransferValidation{}, common.ErrInvalidMint
	}
	if !state.Mint().Equals(mint.Key) {
		return TransferValidation{}, common.ErrInvalidMint
	}

	return TransferValidation{Bump: bump}, nil
}

// ValidateMetadataAccounts authorizes the metadata instructions: base state
// checks, treasury signature and match, mint ownership and address, token
// program pin. Metadata updates stay available while transfers are paused.
// Returns the state bump.
func ValidateMetadataAccounts(programID solana.PublicKey, authority, stateAcct, mint, tokenProgram *types.Account) (uint8, error) {
	if _, err := ValidateStateBase(programID, stateAcct); err != nil {
		return 0, err
	}
	state, err := token.ViewState(stateAcct.Data)
	if err != nil {
		return 0, err
	}

	if err := AssertSigner(authority); err != nil {
		return 0, err
	}
	if !state.IsTreasury(authority.Key) {
		return 0, common.ErrUnauthorizedTreasury
	}

	if !mint.OwnedBy(token.Token2022Program) {
		return 0, common.ErrInvalidMint
	}
	if !state.Mint().Equals(mint.Key) {
		return 0, common.ErrInvalidMint
	}

	if !tokenProgram.Key.Equals(token.Token2022Program) {
		return 0, common.ErrInvalidTokenProgram
	}

	return state.Bump(), nil
}

// ValidateNFTPayer authorizes the collectible minting instructions: the
// payer signs, the base state checks pass, and the payer is the recorded
// mint authority.
func ValidateNFTPayer(programID solana.PublicKey, payer, stateAcct *types.Account) error {
	if err := AssertSigner(payer); err != nil {
		return err
	}
	if _, err := ValidateStateBase(programID, stateAcct); err != nil {
		return err
	}
	state, err := token.ViewState(stateAcct.Data)
	if err != nil {
		return err
	}
	if !state.IsMintAuthority(payer.Key) {
		return common.ErrInvalidAuthority
	}
	return nil
}
