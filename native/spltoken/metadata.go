package spltoken

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"zupytoken/native/common"
	"zupytoken/native/token"
)

// MetadataField selects which token-metadata field an update targets.
type MetadataField uint8

const (
	MetadataFieldName MetadataField = iota
	MetadataFieldSymbol
	MetadataFieldURI
)

// Metadata interface discriminators, the first eight bytes of
// SHA256("spl_token_metadata_interface:" + name).
var (
	MetadataInitializeDisc  = [8]byte{210, 225, 30, 162, 88, 184, 77, 141}
	MetadataUpdateFieldDisc = [8]byte{221, 233, 49, 45, 181, 202, 220, 200}
)

func appendString(data []byte, s string) []byte {
	var l [4]byte
	binary.LittleEndian.PutUint32(l[:], uint32(len(s)))
	data = append(data, l[:]...)
	return append(data, s...)
}

// InitializeMetadata writes the mint's initial name, symbol and uri through
// the Token-2022 metadata interface. The metadata record lives on the mint
// itself, so the mint appears twice in the account list.
func InitializeMetadata(mint, authority solana.PublicKey, name, symbol, uri string) *solana.GenericInstruction {
	data := make([]byte, 0, 8+4+len(name)+4+len(symbol)+4+len(uri))
	data = append(data, MetadataInitializeDisc[:]...)
	data = appendString(data, name)
	data = appendString(data, symbol)
	data = appendString(data, uri)
	return solana.NewInstruction(
		token.Token2022Program,
		solana.AccountMetaSlice{
			solana.Meta(mint).WRITE(),
			solana.Meta(authority),
			solana.Meta(mint),
			solana.Meta(authority).SIGNER(),
		},
		data,
	)
}

// UpdateMetadataField rewrites one metadata field. The field enum rides as a
// single byte; a wider encoding shifts the string length into garbage the
// token program will try to allocate.
func UpdateMetadataField(mint, authority solana.PublicKey, field MetadataField, value string) (*solana.GenericInstruction, error) {
	if field > MetadataFieldURI {
		return nil, common.ErrInvalidInstructionData
	}
	data := make([]byte, 0, 8+1+4+len(value))
	data = append(data, MetadataUpdateFieldDisc[:]...)
	data = append(data, byte(field))
	data = appendString(data, value)
	return solana.NewInstruction(
		token.Token2022Program,
		solana.AccountMetaSlice{
			solana.Meta(mint).WRITE(),
			solana.Meta(authority).SIGNER(),
		},
		data,
	), nil
}
