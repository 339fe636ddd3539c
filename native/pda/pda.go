// Package pda derives and validates the program-derived addresses this
// program owns. Derivations are deterministic; validation recomputes the
// address from caller-supplied seeds and never trusts the account key.
package pda

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"zupytoken/native/common"
	"zupytoken/native/token"
)

// U64Seed renders an identifier as its little-endian seed bytes.
func U64Seed(v uint64) []byte {
	seed := make([]byte, 8)
	binary.LittleEndian.PutUint64(seed, v)
	return seed
}

// TokenState derives the singleton state record address.
func TokenState(program solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(token.StateSeed)}, program)
}

// Company derives a company record address from its numeric identifier.
func Company(program solana.PublicKey, companyID uint64) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(token.CompanySeed), U64Seed(companyID)}, program)
}

// User derives a user record address from its numeric identifier.
func User(program solana.PublicKey, userID uint64) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(token.UserSeed), U64Seed(userID)}, program)
}

// IncentivePool derives the incentive pool address.
func IncentivePool(program solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(token.IncentivePoolSeed)}, program)
}

// DistributionPool derives the distribution pool address.
func DistributionPool(program solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(token.DistributionPoolSeed)}, program)
}

// Card derives a card record address from the holder identifier.
func Card(program solana.PublicKey, userID []byte) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(token.CardSeed), userID}, program)
}

// CardMint derives a card mint address from the holder identifier.
func CardMint(program solana.PublicKey, userID []byte) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(token.CardMintSeed), userID}, program)
}

// CouponMint derives a coupon mint address from the coupon identifier.
func CouponMint(program solana.PublicKey, couponID []byte) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(token.CouponSeed), couponID}, program)
}

// UserNFT derives a holder's NFT record address from the holder
// identifier.
func UserNFT(program solana.PublicKey, userID []byte) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(token.UserNFTSeed), userID}, program)
}

// RateLimit derives a rate-limit record address for an authority wallet.
func RateLimit(program, authority solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(token.RateLimitSeed), authority.Bytes()}, program)
}

// ValidateExpected rejects an account whose key differs from the expected
// derived address.
func ValidateExpected(account, expected solana.PublicKey) error {
	if account != expected {
		return common.ErrInvalidPDA
	}
	return nil
}

// ValidateWithSeeds recomputes the address from the full seed set (bump
// included) and compares it to the account key. Both a derivation failure
// and a mismatch reject; nothing is partially accepted.
func ValidateWithSeeds(account solana.PublicKey, seeds [][]byte, program solana.PublicKey) error {
	expected, err := solana.CreateProgramAddress(seeds, program)
	if err != nil {
		return common.ErrInvalidPDA
	}
	if account != expected {
		return common.ErrInvalidPDA
	}
	return nil
}
