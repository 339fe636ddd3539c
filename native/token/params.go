package token

import "github.com/gagliardetto/solana-go"

// Token identity.
const (
	Name     = "ZUPY"
	Symbol   = "ZUPY"
	Decimals = 6

	MetadataURIDevnet     = "ipfs://bafkreig7ifwir2wy52csyhmoa3x6yfsqkhs2pfqnoc4g3gavq2ep5hmfpu"
	MetadataURIProduction = "ipfs://bafkreifk4n4oqeiz3jj2dhazypt6qhtpnbinh6ksfxs6eyfwzxu6sroe64"
)

// GenesisSupply is the raw initial supply, six decimal places.
const GenesisSupply uint64 = 5_000_000_000_000

// Mint caps. The auto limits are written into freshly initialized state and
// apply in every environment; the supervised mint caps differ per profile.
const (
	PerTxAutoLimit uint64 = 100_000_000_000
	DailyAutoLimit uint64 = 500_000_000_000

	DailyMintLimitDevnet     uint64 = 100_000_000_000_000
	PerTxMintLimitDevnet     uint64 = 10_000_000_000_000
	DailyMintLimitProduction uint64 = 1_000_000_000_000
	PerTxMintLimitProduction uint64 = 50_000_000_000
)

// SecondsPerDay sizes the UTC day buckets used by mint rate limiting.
const SecondsPerDay int64 = 86_400

// DayOf returns the UTC day bucket for a unix timestamp.
func DayOf(ts int64) int64 {
	return ts / SecondsPerDay
}

// Memo grammar literals.
const (
	MemoPrefix  = "zupy"
	MemoVersion = "v1"
)

// Seeds for program-derived addresses.
const (
	StateSeed            = "token_state"
	RateLimitSeed        = "rate_limit"
	CompanySeed          = "company"
	UserSeed             = "user"
	UserNFTSeed          = "user_pda"
	CardSeed             = "zupy_card"
	CardMintSeed         = "zupy_card_mint"
	LoyaltyCardSeed      = "loyalty_card"
	CouponSeed           = "coupon"
	CampaignSeed         = "campaign"
	IncentivePoolSeed    = "incentive_pool"
	DistributionPoolSeed = "distribution_pool"
)

// ProgramID is the on-chain address of this program, shared across
// environments.
var ProgramID = solana.MustPublicKeyFromBase58("ZUPYzr87cgminBywohtbUxnaiFMwXNy8A5pD9cCcvVU")

// External program addresses this program pins before any cross-program
// call.
var (
	Token2022Program          = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	ATAProgram                = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	SystemProgram             = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	BubblegumProgram          = solana.MustPublicKeyFromBase58("BGUMAp9Gq7iTEuizy4pqaxsTyUCBK68MDfK752saRPUY")
	SPLAccountCompression     = solana.MustPublicKeyFromBase58("cmtDvXumGCrqC1Age74AVPhSRVXJMd8PJS91L8KbNCK")
	SPLNoop                   = solana.MustPublicKeyFromBase58("noopb9bkMVfRPU8AsbpTUg8AQkHtKwMYZiFUjNRtMmV")
	CompressedTokenProgram    = solana.MustPublicKeyFromBase58("cTokenmWW8bLPjZEBAUgYy3zKxQZW6VKi7bqNFEVv3m")
	LightSystemProgram        = solana.MustPublicKeyFromBase58("SySTEM1eSU2p4BGQfQpimFEWWSC1XDFeun3Nqzz3rT7")
	AccountCompressionProgram = solana.MustPublicKeyFromBase58("compr6CUsB5m2jS4Y3831ztGSTnDpnKJTKS95d64XVq")
	LightRegistryProgram      = solana.MustPublicKeyFromBase58("Lighton6oQpVkeewmo2mcPTQQp7kYHr4fWpAgJyEmDX")
)

// Fixed authority addresses on the compressed-token stack. Each one is a
// PDA with a published derivation; they are pinned as constants and the
// derivations are re-checked in tests.
var (
	// CTokenCPIAuthority = find(["cpi_authority"], CompressedTokenProgram).
	CTokenCPIAuthority = solana.MustPublicKeyFromBase58("GXtd2izAiMJPwMEjfgTRH3d7k9mjn4Jq3JrWFv9gySYy")
	// RegisteredProgramPDA is the light registry record for the system program.
	RegisteredProgramPDA = solana.MustPublicKeyFromBase58("35hkDgaAKwMCaxRz2ocSZ6NaUrtKkyNqU6c4RV3tYJRh")
	// AccountCompressionAuthority = find(["cpi_authority"], LightSystemProgram).
	AccountCompressionAuthority = solana.MustPublicKeyFromBase58("HwXnGK3tPkkVY6P439H2p68AxpeuWXd5PcrAxFpbmfbA")
)

// Operational wallets.
var (
	TreasuryWallet    = solana.MustPublicKeyFromBase58("AZjCtbrNGsSztGyWcqKdyq4sP2FnH3ZQCMyCErUzwZH9")
	MintAuthority     = solana.MustPublicKeyFromBase58("ZUPYn23hsz3U5ARv9jcM8AcG46mC2puoJiVQ8TGxGHQ")
	TransferAuthority = solana.MustPublicKeyFromBase58("ZUPYtXrbnstMAZP5c4V6kzok9eTrGyGBbwpPdte1QSd")
)

// Account sizes created by this program on the token side.
const (
	// BasicMintSize is a Token-2022 mint with no extensions.
	BasicMintSize uint64 = 82
	// MetadataPointerMintSize covers the base account plus the metadata
	// pointer extension (165 + 1 + 2 + 2 + 64).
	MetadataPointerMintSize uint64 = 234
)
