package gateway

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"zupytoken/config"
	"zupytoken/native/common"
	"zupytoken/native/ctoken"
	"zupytoken/native/memo"
	"zupytoken/native/pda"
	"zupytoken/native/spltoken"
	"zupytoken/native/token"
)

// AccountMeta is the JSON form of one instruction account.
type AccountMeta struct {
	Key      string `json:"key"`
	Signer   bool   `json:"signer,omitempty"`
	Writable bool   `json:"writable,omitempty"`
}

// BuiltInstruction is a fully assembled program instruction ready for the
// backend to place in a transaction. Data carries the discriminator and
// payload base64-encoded.
type BuiltInstruction struct {
	Operation string        `json:"operation"`
	ProgramID string        `json:"programId"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      string        `json:"data"`
}

// Builder assembles program instructions from the resolved cluster
// addresses. PDAs are derived per call so an operator swapping the address
// book never serves stale derivations.
type Builder struct {
	program solana.PublicKey
	addrs   *config.Addresses
}

// NewBuilder wires a Builder for the program and cluster addresses.
func NewBuilder(addrs *config.Addresses) *Builder {
	return &Builder{program: token.ProgramID, addrs: addrs}
}

// MintRequest asks for a mint_tokens instruction.
type MintRequest struct {
	Amount uint64 `json:"amount"`
	Memo   string `json:"memo"`
}

// RestockRequest asks for a treasury_restock_pool instruction.
type RestockRequest struct {
	Amount uint64 `json:"amount"`
	Memo   string `json:"memo"`
}

// DistributeRequest asks for a transfer_from_pool instruction moving pool
// funds into a user's compressed balance. Trailing carries the Merkle tree
// accounts the compression RPC reports for the output state tree.
type DistributeRequest struct {
	UserID   uint64        `json:"userId"`
	Amount   uint64        `json:"amount"`
	Memo     string        `json:"memo"`
	Trailing []AccountMeta `json:"trailing,omitempty"`
}

// SplitRequest asks for an execute_split_transfer instruction.
type SplitRequest struct {
	UserID        uint64        `json:"userId"`
	CompanyID     uint64        `json:"companyId"`
	Total         uint64        `json:"total"`
	OperationType string        `json:"operationType"`
	Trailing      []AccountMeta `json:"trailing,omitempty"`
}

// ReturnRequest asks for a return_to_pool (company) or return_user_to_pool
// (user) instruction.
type ReturnRequest struct {
	Entity   string        `json:"entity"` // "company" or "user"
	EntityID uint64        `json:"entityId"`
	Amount   uint64        `json:"amount"`
	Memo     string        `json:"memo"`
	Trailing []AccountMeta `json:"trailing,omitempty"`
}

// ReturnV1Request asks for the V1 passthrough variant of a return. Payload
// is the caller-assembled V1 transfer body, base64.
type ReturnV1Request struct {
	Entity   string        `json:"entity"`
	EntityID uint64        `json:"entityId"`
	Payload  string        `json:"payload"`
	Forward  []AccountMeta `json:"forward,omitempty"`
}

// WithdrawRequest asks for a withdraw_to_external instruction releasing a
// user's compressed balance to an external wallet's token account.
type WithdrawRequest struct {
	UserID      uint64        `json:"userId"`
	Amount      uint64        `json:"amount"`
	Destination string        `json:"destination"`
	Memo        string        `json:"memo"`
	Trailing    []AccountMeta `json:"trailing,omitempty"`
}

// PauseRequest asks for a set_paused instruction.
type PauseRequest struct {
	Paused bool `json:"paused"`
}

// Mint builds a mint_tokens instruction.
func (b *Builder) Mint(req MintRequest) (*BuiltInstruction, error) {
	if err := b.checkAmountMemo(req.Amount, req.Memo); err != nil {
		return nil, err
	}
	statePDA, _, err := pda.TokenState(b.program)
	if err != nil {
		return nil, err
	}
	treasuryATA, _, err := spltoken.DeriveATA(b.addrs.Treasury, b.addrs.Mint)
	if err != nil {
		return nil, err
	}
	data := appendString(appendU64(nil, req.Amount), req.Memo)
	return b.finish("mint_tokens", data, []AccountMeta{
		ws(b.addrs.MintAuthority),
		w(statePDA),
		w(b.addrs.Mint),
		w(treasuryATA),
		ro(token.Token2022Program),
	}), nil
}

// Restock builds a treasury_restock_pool instruction.
func (b *Builder) Restock(req RestockRequest) (*BuiltInstruction, error) {
	if err := b.checkAmountMemo(req.Amount, req.Memo); err != nil {
		return nil, err
	}
	statePDA, _, err := pda.TokenState(b.program)
	if err != nil {
		return nil, err
	}
	treasuryATA, _, err := spltoken.DeriveATA(b.addrs.Treasury, b.addrs.Mint)
	if err != nil {
		return nil, err
	}
	poolATA, _, err := spltoken.DeriveATA(statePDA, b.addrs.Mint)
	if err != nil {
		return nil, err
	}
	data := appendString(appendU64(nil, req.Amount), req.Memo)
	return b.finish("treasury_restock_pool", data, []AccountMeta{
		ro(statePDA),
		ro(b.addrs.Mint),
		w(treasuryATA),
		w(poolATA),
		rs(b.addrs.Treasury),
		ro(token.Token2022Program),
	}), nil
}

// Distribute builds a transfer_from_pool instruction.
func (b *Builder) Distribute(req DistributeRequest) (*BuiltInstruction, error) {
	if err := b.checkAmountMemo(req.Amount, req.Memo); err != nil {
		return nil, err
	}
	statePDA, _, err := pda.TokenState(b.program)
	if err != nil {
		return nil, err
	}
	poolATA, _, err := spltoken.DeriveATA(statePDA, b.addrs.Mint)
	if err != nil {
		return nil, err
	}
	userPDA, _, err := pda.User(b.program, req.UserID)
	if err != nil {
		return nil, err
	}
	data := appendString(appendU64(nil, req.Amount), req.Memo)
	metas := []AccountMeta{
		rs(b.addrs.TransferAuthority),
		ro(statePDA),
		ro(b.addrs.Mint),
		w(poolATA),
		ro(userPDA),
		ws(b.addrs.FeePayer),
		ro(token.Token2022Program),
		ro(token.SystemProgram),
		ro(token.CompressedTokenProgram),
		ro(token.CTokenCPIAuthority),
		ro(token.LightSystemProgram),
		ro(token.RegisteredProgramPDA),
		ro(token.SPLNoop),
		ro(token.AccountCompressionAuthority),
		ro(token.AccountCompressionProgram),
	}
	return b.finish("transfer_from_pool", data, append(metas, req.Trailing...)), nil
}

// Split builds an execute_split_transfer instruction.
func (b *Builder) Split(req SplitRequest) (*BuiltInstruction, error) {
	if req.Total == 0 {
		return nil, common.ErrZeroAmount
	}
	if strings.TrimSpace(req.OperationType) == "" {
		return nil, common.ErrInvalidOperationType
	}
	statePDA, _, err := pda.TokenState(b.program)
	if err != nil {
		return nil, err
	}
	userPDA, userBump, err := pda.User(b.program, req.UserID)
	if err != nil {
		return nil, err
	}
	companyPDA, companyBump, err := pda.Company(b.program, req.CompanyID)
	if err != nil {
		return nil, err
	}
	incentivePDA, incentiveBump, err := pda.IncentivePool(b.program)
	if err != nil {
		return nil, err
	}
	data := appendU64(nil, req.UserID)
	data = appendU64(data, req.CompanyID)
	data = appendU64(data, req.Total)
	data = append(data, userBump, companyBump, incentiveBump)
	data = appendString(data, req.OperationType)
	metas := []AccountMeta{
		rs(b.addrs.TransferAuthority),
		ro(statePDA),
		w(b.addrs.Mint),
		ro(userPDA),
		ro(companyPDA),
		ro(incentivePDA),
		ws(b.addrs.FeePayer),
		ro(token.SystemProgram),
		ro(token.CompressedTokenProgram),
	}
	return b.finish("execute_split_transfer", data, append(metas, req.Trailing...)), nil
}

// Return builds a return_to_pool or return_user_to_pool instruction.
func (b *Builder) Return(req ReturnRequest) (*BuiltInstruction, error) {
	if err := b.checkAmountMemo(req.Amount, req.Memo); err != nil {
		return nil, err
	}
	name, entityPDA, bump, err := b.returnEntity(req.Entity, req.EntityID, "return_to_pool", "return_user_to_pool")
	if err != nil {
		return nil, err
	}
	statePDA, _, err := pda.TokenState(b.program)
	if err != nil {
		return nil, err
	}
	poolATA, _, err := spltoken.DeriveATA(statePDA, b.addrs.Mint)
	if err != nil {
		return nil, err
	}
	iface, _, err := ctoken.DeriveSPLInterfacePDA(b.addrs.Mint)
	if err != nil {
		return nil, err
	}
	data := appendU64(nil, req.EntityID)
	data = appendU64(data, req.Amount)
	data = append(data, bump)
	data = appendString(data, req.Memo)
	metas := []AccountMeta{
		rs(b.addrs.TransferAuthority),
		ro(statePDA),
		ro(b.addrs.Mint),
		ro(entityPDA),
		w(poolATA),
		ws(b.addrs.FeePayer),
		ro(token.Token2022Program),
		ro(token.SystemProgram),
		ro(token.CompressedTokenProgram),
		ro(token.CTokenCPIAuthority),
		w(iface),
	}
	return b.finish(name, data, append(metas, req.Trailing...)), nil
}

// ReturnV1 builds the passthrough variant of a return, validating the
// caller-assembled payload prefix before it is ever placed on chain.
func (b *Builder) ReturnV1(req ReturnV1Request) (*BuiltInstruction, error) {
	payload, err := base64.StdEncoding.DecodeString(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("gateway: v1 payload: %w", err)
	}
	if err := ctoken.ValidateV1TransferData(payload); err != nil {
		return nil, err
	}
	name, entityPDA, bump, err := b.returnEntity(req.Entity, req.EntityID, "return_to_pool_v1", "return_user_to_pool_v1")
	if err != nil {
		return nil, err
	}
	statePDA, _, err := pda.TokenState(b.program)
	if err != nil {
		return nil, err
	}
	poolATA, _, err := spltoken.DeriveATA(statePDA, b.addrs.Mint)
	if err != nil {
		return nil, err
	}
	data := appendU64(nil, req.EntityID)
	data = append(data, bump)
	data = append(data, payload...)
	metas := []AccountMeta{
		rs(b.addrs.TransferAuthority),
		ro(statePDA),
		ro(b.addrs.Mint),
		ro(entityPDA),
		ro(poolATA),
		ro(token.Token2022Program),
	}
	return b.finish(name, data, append(metas, req.Forward...)), nil
}

// Withdraw builds a withdraw_to_external instruction.
func (b *Builder) Withdraw(req WithdrawRequest) (*BuiltInstruction, error) {
	if err := b.checkAmountMemo(req.Amount, req.Memo); err != nil {
		return nil, err
	}
	destWallet, err := solana.PublicKeyFromBase58(strings.TrimSpace(req.Destination))
	if err != nil {
		return nil, fmt.Errorf("gateway: destination: %w", err)
	}
	statePDA, _, err := pda.TokenState(b.program)
	if err != nil {
		return nil, err
	}
	userPDA, userBump, err := pda.User(b.program, req.UserID)
	if err != nil {
		return nil, err
	}
	destATA, _, err := spltoken.DeriveATA(destWallet, b.addrs.Mint)
	if err != nil {
		return nil, err
	}
	iface, _, err := ctoken.DeriveSPLInterfacePDA(b.addrs.Mint)
	if err != nil {
		return nil, err
	}
	data := appendU64(nil, req.Amount)
	data = appendU64(data, req.UserID)
	data = append(data, userBump)
	data = appendString(data, req.Memo)
	metas := []AccountMeta{
		rs(b.addrs.TransferAuthority),
		ro(statePDA),
		ro(b.addrs.Mint),
		ro(userPDA),
		ro(destWallet),
		w(destATA),
		ws(b.addrs.FeePayer),
		ro(token.Token2022Program),
		ro(token.ATAProgram),
		ro(token.SystemProgram),
		ro(token.CompressedTokenProgram),
		ro(token.CTokenCPIAuthority),
		w(iface),
	}
	return b.finish("withdraw_to_external", data, append(metas, req.Trailing...)), nil
}

// Pause builds a set_paused instruction.
func (b *Builder) Pause(req PauseRequest) (*BuiltInstruction, error) {
	statePDA, _, err := pda.TokenState(b.program)
	if err != nil {
		return nil, err
	}
	flag := byte(0)
	if req.Paused {
		flag = 1
	}
	return b.finish("set_paused", []byte{flag}, []AccountMeta{
		rs(b.addrs.Treasury),
		w(statePDA),
	}), nil
}

func (b *Builder) returnEntity(entity string, id uint64, companyName, userName string) (string, solana.PublicKey, uint8, error) {
	switch strings.ToLower(strings.TrimSpace(entity)) {
	case "company":
		key, bump, err := pda.Company(b.program, id)
		return companyName, key, bump, err
	case "user":
		key, bump, err := pda.User(b.program, id)
		return userName, key, bump, err
	default:
		return "", solana.PublicKey{}, 0, fmt.Errorf("gateway: entity must be company or user, got %q", entity)
	}
}

func (b *Builder) checkAmountMemo(amount uint64, memoText string) error {
	if amount == 0 {
		return common.ErrZeroAmount
	}
	if b.addrs.Mint.IsZero() {
		return fmt.Errorf("gateway: address book has no mint configured")
	}
	return memo.Validate(memoText)
}

func (b *Builder) finish(name string, payload []byte, metas []AccountMeta) *BuiltInstruction {
	disc := token.InstructionDiscriminator(name)
	data := make([]byte, 0, 8+len(payload))
	data = append(data, disc[:]...)
	data = append(data, payload...)
	return &BuiltInstruction{
		Operation: name,
		ProgramID: b.program.String(),
		Accounts:  metas,
		Data:      base64.StdEncoding.EncodeToString(data),
	}
}

func appendU64(data []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(data, v)
}

func appendString(data []byte, s string) []byte {
	data = binary.LittleEndian.AppendUint32(data, uint32(len(s)))
	return append(data, s...)
}

func ro(key solana.PublicKey) AccountMeta {
	return AccountMeta{Key: key.String()}
}

func rs(key solana.PublicKey) AccountMeta {
	return AccountMeta{Key: key.String(), Signer: true}
}

func w(key solana.PublicKey) AccountMeta {
	return AccountMeta{Key: key.String(), Writable: true}
}

func ws(key solana.PublicKey) AccountMeta {
	return AccountMeta{Key: key.String(), Signer: true, Writable: true}
}
