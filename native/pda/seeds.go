package pda

import (
	"github.com/gagliardetto/solana-go"

	"zupytoken/native/token"
)

// Full seed sets with bump, in the exact order expected by both
// validation and cross-program signing.

// StateSeeds returns the token-state seed set.
func StateSeeds(bump uint8) [][]byte {
	return [][]byte{[]byte(token.StateSeed), {bump}}
}

// CompanySeeds returns a company record's seed set.
func CompanySeeds(companyID uint64, bump uint8) [][]byte {
	return [][]byte{[]byte(token.CompanySeed), U64Seed(companyID), {bump}}
}

// UserSeeds returns a user record's seed set.
func UserSeeds(userID uint64, bump uint8) [][]byte {
	return [][]byte{[]byte(token.UserSeed), U64Seed(userID), {bump}}
}

// IncentivePoolSeeds returns the incentive pool's seed set.
func IncentivePoolSeeds(bump uint8) [][]byte {
	return [][]byte{[]byte(token.IncentivePoolSeed), {bump}}
}

// RateLimitSeeds returns a rate-limit record's seed set.
func RateLimitSeeds(authority solana.PublicKey, bump uint8) [][]byte {
	return [][]byte{[]byte(token.RateLimitSeed), authority.Bytes(), {bump}}
}

// CardSeeds returns a card record's seed set.
func CardSeeds(userID []byte, bump uint8) [][]byte {
	return [][]byte{[]byte(token.CardSeed), userID, {bump}}
}

// CardMintSeeds returns a card mint's seed set.
func CardMintSeeds(userID []byte, bump uint8) [][]byte {
	return [][]byte{[]byte(token.CardMintSeed), userID, {bump}}
}

// CouponMintSeeds returns a coupon mint's seed set.
func CouponMintSeeds(couponID []byte, bump uint8) [][]byte {
	return [][]byte{[]byte(token.CouponSeed), couponID, {bump}}
}

// UserNFTSeeds returns a holder NFT record's seed set.
func UserNFTSeeds(userID []byte, bump uint8) [][]byte {
	return [][]byte{[]byte(token.UserNFTSeed), userID, {bump}}
}
