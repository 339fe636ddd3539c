// Package spltoken reads SPL token account layouts and assembles the
// Token-2022 instructions this program emits. Views are zero-copy over the
// raw account bytes; mutation goes through the Mut variants so reads stay
// side-effect free.
package spltoken

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"zupytoken/native/common"
)

const (
	// TokenAccountLen is the byte length of an SPL token account.
	TokenAccountLen = 165
	// MintLen is the byte length of a basic SPL mint.
	MintLen = 82
)

// Token account states at offset 108.
const (
	StateUninitialized uint8 = 0
	StateInitialized   uint8 = 1
	StateFrozen        uint8 = 2
)

const (
	accMintOff   = 0
	accOwnerOff  = 32
	accAmountOff = 64
	accStateOff  = 108
)

const (
	mintAuthorityTagOff = 0
	mintAuthorityOff    = 4
	mintSupplyOff       = 36
	mintDecimalsOff     = 44
	mintInitializedOff  = 45
)

func readKey(data []byte, off int) solana.PublicKey {
	return solana.PublicKeyFromBytes(data[off : off+32])
}

func writeKey(data []byte, off int, key solana.PublicKey) {
	copy(data[off:off+32], key.Bytes())
}

// Account is a read-only view over an SPL token account.
type Account struct {
	data []byte
}

// ViewAccount wraps raw token account bytes. Buffers shorter than the SPL
// layout are rejected.
func ViewAccount(data []byte) (Account, error) {
	if len(data) < TokenAccountLen {
		return Account{}, common.ErrInvalidAccountData
	}
	return Account{data: data}, nil
}

// Mint returns the mint this account holds balances of.
func (a Account) Mint() solana.PublicKey { return readKey(a.data, accMintOff) }

// Owner returns the wallet or program-derived address that controls the
// balance.
func (a Account) Owner() solana.PublicKey { return readKey(a.data, accOwnerOff) }

// Amount returns the token balance.
func (a Account) Amount() uint64 {
	return binary.LittleEndian.Uint64(a.data[accAmountOff : accAmountOff+8])
}

// State returns the raw account state byte.
func (a Account) State() uint8 { return a.data[accStateOff] }

// Frozen reports whether the account has been frozen by the mint's freeze
// authority.
func (a Account) Frozen() bool { return a.data[accStateOff] == StateFrozen }

// AccountMut is a write-through view over an SPL token account.
type AccountMut struct {
	data []byte
}

// ViewAccountMut wraps raw token account bytes for mutation.
func ViewAccountMut(data []byte) (AccountMut, error) {
	if len(data) < TokenAccountLen {
		return AccountMut{}, common.ErrInvalidAccountData
	}
	return AccountMut{data: data}, nil
}

// View returns the read-only view of the same bytes.
func (a AccountMut) View() Account { return Account{data: a.data} }

// SetMint records the mint key.
func (a AccountMut) SetMint(key solana.PublicKey) { writeKey(a.data, accMintOff, key) }

// SetOwner records the balance owner.
func (a AccountMut) SetOwner(key solana.PublicKey) { writeKey(a.data, accOwnerOff, key) }

// SetAmount records the token balance.
func (a AccountMut) SetAmount(v uint64) {
	binary.LittleEndian.PutUint64(a.data[accAmountOff:accAmountOff+8], v)
}

// SetState records the account state byte.
func (a AccountMut) SetState(s uint8) { a.data[accStateOff] = s }

// Mint is a read-only view over an SPL mint account.
type Mint struct {
	data []byte
}

// ViewMint wraps raw mint bytes. Buffers shorter than the basic mint layout
// are rejected; mints carrying extensions are longer and still accepted.
func ViewMint(data []byte) (Mint, error) {
	if len(data) < MintLen {
		return Mint{}, common.ErrInvalidAccountData
	}
	return Mint{data: data}, nil
}

// MintAuthority returns the mint authority and whether one is set.
func (m Mint) MintAuthority() (solana.PublicKey, bool) {
	if binary.LittleEndian.Uint32(m.data[mintAuthorityTagOff:mintAuthorityTagOff+4]) == 0 {
		return solana.PublicKey{}, false
	}
	return readKey(m.data, mintAuthorityOff), true
}

// Supply returns the total minted supply.
func (m Mint) Supply() uint64 {
	return binary.LittleEndian.Uint64(m.data[mintSupplyOff : mintSupplyOff+8])
}

// Decimals returns the mint's decimal places.
func (m Mint) Decimals() uint8 { return m.data[mintDecimalsOff] }

// Initialized reports whether the mint has been initialized.
func (m Mint) Initialized() bool { return m.data[mintInitializedOff] != 0 }

// MintMut is a write-through view over an SPL mint account.
type MintMut struct {
	data []byte
}

// ViewMintMut wraps raw mint bytes for mutation.
func ViewMintMut(data []byte) (MintMut, error) {
	if len(data) < MintLen {
		return MintMut{}, common.ErrInvalidAccountData
	}
	return MintMut{data: data}, nil
}

// View returns the read-only view of the same bytes.
func (m MintMut) View() Mint { return Mint{data: m.data} }

// SetMintAuthority records the mint authority and marks it present.
func (m MintMut) SetMintAuthority(key solana.PublicKey) {
	binary.LittleEndian.PutUint32(m.data[mintAuthorityTagOff:mintAuthorityTagOff+4], 1)
	writeKey(m.data, mintAuthorityOff, key)
}

// SetSupply records the total minted supply.
func (m MintMut) SetSupply(v uint64) {
	binary.LittleEndian.PutUint64(m.data[mintSupplyOff:mintSupplyOff+8], v)
}

// SetDecimals records the mint's decimal places.
func (m MintMut) SetDecimals(d uint8) { m.data[mintDecimalsOff] = d }

// SetInitialized marks the mint initialized.
func (m MintMut) SetInitialized(v bool) {
	if v {
		m.data[mintInitializedOff] = 1
	} else {
		m.data[mintInitializedOff] = 0
	}
}
