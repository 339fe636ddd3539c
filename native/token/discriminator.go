package token

import "crypto/sha256"

// AccountDiscriminator derives the 8-byte record tag for an account type
// name: SHA256("account:" + name)[0..8].
func AccountDiscriminator(name string) [8]byte {
	return discriminator("account:" + name)
}

// InstructionDiscriminator derives the 8-byte operation tag for an
// instruction name: SHA256("global:" + name)[0..8].
func InstructionDiscriminator(name string) [8]byte {
	return discriminator("global:" + name)
}

func discriminator(preimage string) [8]byte {
	sum := sha256.Sum256([]byte(preimage))
	var disc [8]byte
	copy(disc[:], sum[:8])
	return disc
}
