package spltoken

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"zupytoken/native/token"
)

// Token-2022 base instruction tags.
const (
	TagTransfer        uint8 = 3
	TagMintTo          uint8 = 7
	TagBurn            uint8 = 8
	TagCloseAccount    uint8 = 9
	TagTransferChecked uint8 = 12
	TagInitializeMint2 uint8 = 20
	TagMetadataPointer uint8 = 39
)

func amountData(tag uint8, amount uint64) []byte {
	data := make([]byte, 9)
	data[0] = tag
	binary.LittleEndian.PutUint64(data[1:9], amount)
	return data
}

// Transfer moves amount from source to destination with the owner signing.
func Transfer(source, destination, owner solana.PublicKey, amount uint64) *solana.GenericInstruction {
	return solana.NewInstruction(
		token.Token2022Program,
		solana.AccountMetaSlice{
			solana.Meta(source).WRITE(),
			solana.Meta(destination).WRITE(),
			solana.Meta(owner).SIGNER(),
		},
		amountData(TagTransfer, amount),
	)
}

// TransferChecked moves amount with the mint along for decimal validation.
func TransferChecked(source, mint, destination, owner solana.PublicKey, amount uint64, decimals uint8) *solana.GenericInstruction {
	data := make([]byte, 10)
	data[0] = TagTransferChecked
	binary.LittleEndian.PutUint64(data[1:9], amount)
	data[9] = decimals
	return solana.NewInstruction(
		token.Token2022Program,
		solana.AccountMetaSlice{
			solana.Meta(source).WRITE(),
			solana.Meta(mint),
			solana.Meta(destination).WRITE(),
			solana.Meta(owner).SIGNER(),
		},
		data,
	)
}

// MintTo mints amount into destination with the mint authority signing.
func MintTo(mint, destination, authority solana.PublicKey, amount uint64) *solana.GenericInstruction {
	return solana.NewInstruction(
		token.Token2022Program,
		solana.AccountMetaSlice{
			solana.Meta(mint).WRITE(),
			solana.Meta(destination).WRITE(),
			solana.Meta(authority).SIGNER(),
		},
		amountData(TagMintTo, amount),
	)
}

// Burn destroys amount held by account and decrements the mint supply.
func Burn(account, mint, authority solana.PublicKey, amount uint64) *solana.GenericInstruction {
	return solana.NewInstruction(
		token.Token2022Program,
		solana.AccountMetaSlice{
			solana.Meta(account).WRITE(),
			solana.Meta(mint).WRITE(),
			solana.Meta(authority).SIGNER(),
		},
		amountData(TagBurn, amount),
	)
}

// CloseAccount closes a token account and sends its rent lamports to
// destination.
func CloseAccount(account, destination, owner solana.PublicKey) *solana.GenericInstruction {
	return solana.NewInstruction(
		token.Token2022Program,
		solana.AccountMetaSlice{
			solana.Meta(account).WRITE(),
			solana.Meta(destination).WRITE(),
			solana.Meta(owner).SIGNER(),
		},
		[]byte{TagCloseAccount},
	)
}

// InitializeMint2 initializes an already-created account as a mint. A nil
// freeze authority leaves the mint unfreezable.
func InitializeMint2(mint, mintAuthority solana.PublicKey, freezeAuthority *solana.PublicKey, decimals uint8) *solana.GenericInstruction {
	data := make([]byte, 0, 2+32+1+32)
	data = append(data, TagInitializeMint2, decimals)
	data = append(data, mintAuthority.Bytes()...)
	if freezeAuthority != nil {
		data = append(data, 1)
		data = append(data, freezeAuthority.Bytes()...)
	} else {
		data = append(data, 0)
	}
	return solana.NewInstruction(
		token.Token2022Program,
		solana.AccountMetaSlice{solana.Meta(mint).WRITE()},
		data,
	)
}

// InitializeMetadataPointer points the mint's metadata extension at itself.
// Must run before InitializeMint2.
func InitializeMetadataPointer(mint, authority solana.PublicKey) *solana.GenericInstruction {
	data := make([]byte, 0, 2+32+32)
	data = append(data, TagMetadataPointer, 0)
	data = append(data, authority.Bytes()...)
	data = append(data, mint.Bytes()...)
	return solana.NewInstruction(
		token.Token2022Program,
		solana.AccountMetaSlice{solana.Meta(mint).WRITE()},
		data,
	)
}
