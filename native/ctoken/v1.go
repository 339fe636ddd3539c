package ctoken

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"zupytoken/native/common"
)

// V1 transfer payload: TransferV1Disc, a u32 byte-vector length, then the
// borsh body, the shape an Anchor Vec<u8> argument takes on the wire.
// On-chain the program only inspects the discriminator before forwarding;
// this codec exists for the off-chain side that assembles passthrough data,
// and for auditing what came back.

// ValidityProof is the compressed-account existence proof.
type ValidityProof struct {
	A [32]byte
	B [64]byte
	C [32]byte
}

// PackedMerkleContext locates an input leaf inside the packed account list.
type PackedMerkleContext struct {
	MerkleTreeIndex     uint8
	NullifierQueueIndex uint8
	LeafIndex           uint32
	ProveByIndex        bool
}

// InputTokenData spends an existing compressed balance.
type InputTokenData struct {
	Amount        uint64
	DelegateIndex *uint8              `bin:"optional"`
	MerkleContext PackedMerkleContext
	RootIndex     uint16
	Lamports      *uint64             `bin:"optional"`
	TLV           *[]byte             `bin:"optional"`
}

// OutputTokenData creates a compressed balance for an owner.
type OutputTokenData struct {
	Owner           solana.PublicKey
	Amount          uint64
	Lamports        *uint64          `bin:"optional"`
	MerkleTreeIndex uint8
	TLV             *[]byte          `bin:"optional"`
}

// DelegatedTransfer marks a transfer signed by a delegate instead of the
// owner.
type DelegatedTransfer struct {
	Owner                      solana.PublicKey
	DelegateChangeAccountIndex *uint8           `bin:"optional"`
}

// CPIContextUse references a context account shared across an atomic batch.
type CPIContextUse struct {
	SetContext      bool
	FirstSetContext bool
	ContextIndex    uint8
}

// V1Transfer is the unified V1 transfer body. Decompress mode sets
// IsCompress false with DecompressAmount present; the interface pool then
// releases that much SPL to the recipient named in the account list.
type V1Transfer struct {
	Proof                         *ValidityProof     `bin:"optional"`
	Mint                          solana.PublicKey
	DelegatedTransfer             *DelegatedTransfer `bin:"optional"`
	Inputs                        []InputTokenData
	Outputs                       []OutputTokenData
	IsCompress                    bool
	DecompressAmount              *uint64            `bin:"optional"`
	CPIContext                    *CPIContextUse     `bin:"optional"`
	LamportsChangeMerkleTreeIndex *uint8             `bin:"optional"`
}

// NewV1Decompress builds the body releasing amount from the owner's
// compressed balance into the SPL destination named in the account list.
// The inputs must cover the amount; any excess returns to the owner as a
// change leaf on the tree at changeTreeIndex.
func NewV1Decompress(mint, owner solana.PublicKey, inputs []InputTokenData, changeTreeIndex uint8, amount uint64) (*V1Transfer, error) {
	total := inputSum(inputs)
	if total < amount {
		return nil, common.ErrInsufficientBalance
	}
	t := &V1Transfer{
		Mint:             mint,
		Inputs:           inputs,
		DecompressAmount: &amount,
	}
	if change := total - amount; change > 0 {
		t.Outputs = []OutputTokenData{{
			Owner:           owner,
			Amount:          change,
			MerkleTreeIndex: changeTreeIndex,
		}}
	}
	return t, nil
}

// NewV1Transfer builds the body moving amount between two compressed
// balances. The recipient leaf and any change back to the owner land on the
// tree at treeIndex.
func NewV1Transfer(mint, owner, recipient solana.PublicKey, inputs []InputTokenData, treeIndex uint8, amount uint64) (*V1Transfer, error) {
	total := inputSum(inputs)
	if total < amount {
		return nil, common.ErrInsufficientBalance
	}
	outputs := []OutputTokenData{{
		Owner:           recipient,
		Amount:          amount,
		MerkleTreeIndex: treeIndex,
	}}
	if change := total - amount; change > 0 {
		outputs = append(outputs, OutputTokenData{
			Owner:           owner,
			Amount:          change,
			MerkleTreeIndex: treeIndex,
		})
	}
	return &V1Transfer{Mint: mint, Inputs: inputs, Outputs: outputs}, nil
}

func inputSum(inputs []InputTokenData) uint64 {
	var total uint64
	for _, in := range inputs {
		total = common.SaturatingAdd(total, in.Amount)
	}
	return total
}

// Encode renders the payload with its discriminator prefix and outer vector
// length, ready to ride a passthrough instruction.
func (t *V1Transfer) Encode() ([]byte, error) {
	body := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(body).Encode(t); err != nil {
		return nil, err
	}
	data := make([]byte, 0, 12+body.Len())
	data = append(data, TransferV1Disc[:]...)
	data = binary.LittleEndian.AppendUint32(data, uint32(body.Len()))
	return append(data, body.Bytes()...), nil
}

// ParseV1Transfer decodes passthrough data back into the payload. The
// discriminator is checked first, so arbitrary bytes fail the same way the
// on-chain gate fails them. Bytes past the outer vector are ignored.
func ParseV1Transfer(data []byte) (*V1Transfer, error) {
	if err := ValidateV1TransferData(data); err != nil {
		return nil, err
	}
	if len(data) < 12 {
		return nil, common.ErrInvalidInstructionData
	}
	bodyLen := binary.LittleEndian.Uint32(data[8:12])
	if uint64(len(data)-12) < uint64(bodyLen) {
		return nil, common.ErrInvalidInstructionData
	}
	var t V1Transfer
	if err := bin.NewBorshDecoder(data[12 : 12+bodyLen]).Decode(&t); err != nil {
		return nil, common.ErrInvalidInstructionData
	}
	return &t, nil
}
