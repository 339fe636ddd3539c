package types

// Rent prices account storage. An account stays alive indefinitely once it
// holds the exemption threshold for its data length, so every account this
// program creates is funded straight to that minimum.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionYears      uint64
}

// DefaultRent returns the cluster default rate.
func DefaultRent() Rent {
	return Rent{LamportsPerByteYear: 3480, ExemptionYears: 2}
}

// MinimumBalance returns the smallest lamport balance that keeps an account
// with dataLen bytes of storage rent exempt. The 128-byte term is the fixed
// per-account metadata overhead the cluster charges for.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	return (128 + uint64(dataLen)) * r.LamportsPerByteYear * r.ExemptionYears
}
