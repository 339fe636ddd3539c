package token

import (
	"github.com/gagliardetto/solana-go"

	"zupytoken/native/common"
)

// CardSize is the full card record length.
const CardSize = 108

// CardIDLen is the raw length of a card holder identifier.
const CardIDLen = 27

// CardDiscriminator tags card records. It equals
// AccountDiscriminator("ZupyCard").
var CardDiscriminator = [8]byte{254, 50, 30, 179, 82, 218, 229, 232}

const (
	offCardDisc      = 0
	offCardOwner     = 8
	offCardMint      = 40
	offCardUserID    = 72
	offCardCreatedAt = 99
	offCardBump      = 107
)

// Card is a read-only view over a card record.
type Card struct {
	data []byte
}

// ViewCard wraps data as a read-only card view.
func ViewCard(data []byte) (Card, error) {
	if len(data) < CardSize {
		return Card{}, common.ErrInvalidAccountData
	}
	return Card{data: data}, nil
}

// Discriminator returns the 8-byte record tag.
func (c Card) Discriminator() [8]byte {
	var disc [8]byte
	copy(disc[:], c.data[offCardDisc:offCardDisc+8])
	return disc
}

// Owner returns the card holder's wallet.
func (c Card) Owner() solana.PublicKey { return readKey(c.data, offCardOwner) }

// Mint returns the card's token mint.
func (c Card) Mint() solana.PublicKey { return readKey(c.data, offCardMint) }

// UserID returns the raw 27-byte holder identifier.
func (c Card) UserID() [CardIDLen]byte {
	var id [CardIDLen]byte
	copy(id[:], c.data[offCardUserID:offCardUserID+CardIDLen])
	return id
}

// CreatedAt returns the unix time the card was issued.
func (c Card) CreatedAt() int64 { return readI64(c.data, offCardCreatedAt) }

// Bump returns the record's derivation bump.
func (c Card) Bump() uint8 { return c.data[offCardBump] }

// CardMut is a writable view over a card record.
type CardMut struct {
	data []byte
}

// ViewCardMut wraps data as a writable card view.
func ViewCardMut(data []byte) (CardMut, error) {
	if len(data) < CardSize {
		return CardMut{}, common.ErrInvalidAccountData
	}
	return CardMut{data: data}, nil
}

// View returns the read-only view over the same backing slice.
func (c CardMut) View() Card { return Card{data: c.data} }

// SetDiscriminator writes the 8-byte record tag.
func (c CardMut) SetDiscriminator(disc [8]byte) {
	copy(c.data[offCardDisc:offCardDisc+8], disc[:])
}

// SetOwner writes the card holder's wallet.
func (c CardMut) SetOwner(key solana.PublicKey) { writeKey(c.data, offCardOwner, key) }

// SetMint writes the card's token mint.
func (c CardMut) SetMint(key solana.PublicKey) { writeKey(c.data, offCardMint, key) }

// SetUserID writes the raw 27-byte holder identifier.
func (c CardMut) SetUserID(id [CardIDLen]byte) {
	copy(c.data[offCardUserID:offCardUserID+CardIDLen], id[:])
}

// SetCreatedAt writes the unix issue time.
func (c CardMut) SetCreatedAt(v int64) { writeI64(c.data, offCardCreatedAt, v) }

// SetBump writes the derivation bump.
func (c CardMut) SetBump(v uint8) { c.data[offCardBump] = v }
