package common

import (
	"errors"
	"fmt"
)

// Error is a program failure carrying a stable numeric code. Off-chain
// systems map rejections by number, so codes are append-only and never
// renumbered.
type Error struct {
	code uint32
	msg  string
}

func newError(code uint32, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d)", e.msg, e.code)
}

// Code returns the stable numeric code.
func (e *Error) Code() uint32 {
	return e.code
}

// Message returns the human-readable text without the code suffix.
func (e *Error) Message() string {
	return e.msg
}

// CodeOf extracts the numeric code carried by err, unwrapping as needed.
func CodeOf(err error) (uint32, bool) {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.code, true
	}
	return 0, false
}

// Coded failures, one per authorization, state-precondition, or input
// condition. The 6000..6029 range is contiguous.
var (
	ErrInvalidAuthority        = newError(6000, "invalid authority")
	ErrDailyLimitExceeded      = newError(6001, "daily limit exceeded")
	ErrTxLimitExceeded         = newError(6002, "transaction limit exceeded")
	ErrAlreadyInitialized      = newError(6003, "already initialized")
	ErrInsufficientBalance     = newError(6004, "insufficient balance")
	ErrInvalidAmount           = newError(6005, "invalid amount")
	ErrRateLimitNotInitialized = newError(6006, "rate limit not initialized")
	ErrInvalidPDA              = newError(6007, "invalid pda")
	ErrDuplicateMemo           = newError(6008, "duplicate memo")
	ErrInvalidMemoFormat       = newError(6009, "invalid memo format")
	ErrNotInitialized          = newError(6010, "not initialized")
	ErrInvalidMint             = newError(6011, "invalid mint")
	ErrZeroAmount              = newError(6012, "zero amount")
	ErrInvalidMetadataName     = newError(6013, "invalid metadata name")
	ErrInvalidMetadataSymbol   = newError(6014, "invalid metadata symbol")
	ErrInvalidMetadataURI      = newError(6015, "invalid metadata uri")
	ErrExtensionCalculation    = newError(6016, "extension calculation error")
	ErrInvalidPoolAccount      = newError(6017, "invalid pool account")
	ErrSystemPaused            = newError(6018, "system paused")
	ErrUnauthorizedTreasury    = newError(6019, "unauthorized treasury")
	ErrExceedsTransactionLimit = newError(6020, "exceeds transaction limit")
	ErrExceedsDailyLimit       = newError(6021, "exceeds daily limit")
	ErrInvalidTreasuryAccount  = newError(6022, "invalid treasury account")
	ErrInvalidIncentivePool    = newError(6023, "invalid incentive pool")
	ErrInsufficientPoolBalance = newError(6024, "insufficient pool balance")
	ErrInvalidTokenProgram     = newError(6025, "invalid token program")
	ErrNotImplemented          = newError(6026, "not implemented")
	ErrInvalidMetadataPDA      = newError(6027, "invalid metadata pda")
	ErrInvalidOperationType    = newError(6028, "invalid operation type")
	ErrSplitCalculation        = newError(6029, "split calculation error")
)

// Generic runtime failures surfaced by the host, distinct from coded
// program failures.
var (
	ErrNotEnoughAccounts      = errors.New("not enough account keys")
	ErrInvalidInstructionData = errors.New("invalid instruction data")
	ErrInvalidAccountData     = errors.New("invalid account data")
	ErrIncorrectProgramID     = errors.New("incorrect program id")
)

// Errors returns the coded failure set in ascending code order.
func Errors() []*Error {
	return []*Error{
		ErrInvalidAuthority,
		ErrDailyLimitExceeded,
		ErrTxLimitExceeded,
		ErrAlreadyInitialized,
		ErrInsufficientBalance,
		ErrInvalidAmount,
		ErrRateLimitNotInitialized,
		ErrInvalidPDA,
		ErrDuplicateMemo,
		ErrInvalidMemoFormat,
		ErrNotInitialized,
		ErrInvalidMint,
		ErrZeroAmount,
		ErrInvalidMetadataName,
		ErrInvalidMetadataSymbol,
		ErrInvalidMetadataURI,
		ErrExtensionCalculation,
		ErrInvalidPoolAccount,
		ErrSystemPaused,
		ErrUnauthorizedTreasury,
		ErrExceedsTransactionLimit,
		ErrExceedsDailyLimit,
		ErrInvalidTreasuryAccount,
		ErrInvalidIncentivePool,
		ErrInsufficientPoolBalance,
		ErrInvalidTokenProgram,
		ErrNotImplemented,
		ErrInvalidMetadataPDA,
		ErrInvalidOperationType,
		ErrSplitCalculation,
	}
}
