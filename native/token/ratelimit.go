package token

import (
	"github.com/gagliardetto/solana-go"

	"zupytoken/native/common"
)

// RateLimitSize is the full rate-limit record length.
const RateLimitSize = 57

// RateLimitDiscriminator tags rate-limit records. It equals
// AccountDiscriminator("RateLimitState").
var RateLimitDiscriminator = [8]byte{75, 173, 86, 207, 52, 170, 71, 97}

const (
	offRLDisc        = 0
	offRLAuthority   = 8
	offRLCurrentDay  = 40
	offRLMintedToday = 48
	offRLBump        = 56
)

// RateLimit is a read-only view over a rate-limit record.
type RateLimit struct {
	data []byte
}

// ViewRateLimit wraps data as a read-only rate-limit view.
func ViewRateLimit(data []byte) (RateLimit, error) {
	if len(data) < RateLimitSize {
		return RateLimit{}, common.ErrInvalidAccountData
	}
	return RateLimit{data: data}, nil
}

// Discriminator returns the 8-byte record tag.
func (r RateLimit) Discriminator() [8]byte {
	var disc [8]byte
	copy(disc[:], r.data[offRLDisc:offRLDisc+8])
	return disc
}

// Authority returns the wallet this record throttles.
func (r RateLimit) Authority() solana.PublicKey { return readKey(r.data, offRLAuthority) }

// CurrentDay returns the UTC day bucket the counters belong to.
func (r RateLimit) CurrentDay() uint64 { return readU64(r.data, offRLCurrentDay) }

// MintedToday returns the amount minted within the current day bucket.
func (r RateLimit) MintedToday() uint64 { return readU64(r.data, offRLMintedToday) }

// Bump returns the record's derivation bump.
func (r RateLimit) Bump() uint8 { return r.data[offRLBump] }

// Usage returns the record's counters as a quota usage value.
func (r RateLimit) Usage() common.MintUsage {
	return common.MintUsage{Day: r.CurrentDay(), Minted: r.MintedToday()}
}

// RateLimitMut is a writable view over a rate-limit record.
type RateLimitMut struct {
	data []byte
}

// ViewRateLimitMut wraps data as a writable rate-limit view.
func ViewRateLimitMut(data []byte) (RateLimitMut, error) {
	if len(data) < RateLimitSize {
		return RateLimitMut{}, common.ErrInvalidAccountData
	}
	return RateLimitMut{data: data}, nil
}

// View returns the read-only view over the same backing slice.
func (r RateLimitMut) View() RateLimit { return RateLimit{data: r.data} }

// SetDiscriminator writes the 8-byte record tag.
func (r RateLimitMut) SetDiscriminator(disc [8]byte) {
	copy(r.data[offRLDisc:offRLDisc+8], disc[:])
}

// SetAuthority writes the throttled wallet.
func (r RateLimitMut) SetAuthority(key solana.PublicKey) { writeKey(r.data, offRLAuthority, key) }

// SetCurrentDay writes the UTC day bucket.
func (r RateLimitMut) SetCurrentDay(v uint64) { writeU64(r.data, offRLCurrentDay, v) }

// SetMintedToday writes the day-bucket total.
func (r RateLimitMut) SetMintedToday(v uint64) { writeU64(r.data, offRLMintedToday, v) }

// SetBump writes the derivation bump.
func (r RateLimitMut) SetBump(v uint8) { r.data[offRLBump] = v }

// SetUsage writes quota counters back into the record.
func (r RateLimitMut) SetUsage(u common.MintUsage) {
	r.SetCurrentDay(u.Day)
	r.SetMintedToday(u.Minted)
}
