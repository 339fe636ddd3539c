package core

import (
	"bytes"
	"errors"
	"testing"

	"zupytoken/core/types"
	"zupytoken/native/bubblegum"
	"zupytoken/native/common"
	"zupytoken/native/pda"
	"zupytoken/native/token"
)

func testKsuid(tag byte) []byte {
	id := bytes.Repeat([]byte{'k'}, token.CardIDLen)
	id[token.CardIDLen-1] = tag
	return id
}

const testCardURI = "ipfs://bafkreicardartwork"

func cardData(ksuid []byte) []byte {
	return appendWireString(append([]byte{}, ksuid...), testCardURI)
}

func cardAccounts(t *testing.T, state *types.Account, ksuid []byte, tokenAccount *types.Account) []*types.Account {
	t.Helper()
	userKey, _, err := pda.UserNFT(token.ProgramID, ksuid)
	if err != nil {
		t.Fatalf("derive holder record: %v", err)
	}
	cardKey, _, err := pda.Card(token.ProgramID, ksuid)
	if err != nil {
		t.Fatalf("derive card: %v", err)
	}
	mintKey, _, err := pda.CardMint(token.ProgramID, ksuid)
	if err != nil {
		t.Fatalf("derive card mint: %v", err)
	}
	return []*types.Account{
		readonlyAccount(userKey),
		{Key: cardKey, Writable: true},
		{Key: mintKey, Writable: true},
		tokenAccount,
		state,
		writableSigner(testMintAuth),
		readonlyAccount(token.Token2022Program),
		readonlyAccount(token.ATAProgram),
		readonlyAccount(token.SystemProgram),
	}
}

func TestCreateZupyCardHappyPath(t *testing.T) {
	p, inv := newTestProcessor(t)
	ksuid := testKsuid('a')
	tokenAccount := &types.Account{Key: testKey(0x53), Writable: true}
	accounts := cardAccounts(t, stateAccount(t, nil), ksuid, tokenAccount)

	if err := p.createZupyCard(accounts, cardData(ksuid)); err != nil {
		t.Fatalf("create: %v", err)
	}
	ids := inv.programIDs()
	if len(ids) != 5 {
		t.Fatalf("calls = %d, want 5", len(ids))
	}
	if !ids[0].Equals(token.SystemProgram) || !ids[1].Equals(token.SystemProgram) {
		t.Fatal("card record and mint must be created through the system program")
	}
	if !ids[2].Equals(token.Token2022Program) {
		t.Fatal("mint init must go through Token-2022")
	}
	if !ids[3].Equals(token.ATAProgram) {
		t.Fatal("missing holder account must be created")
	}
	if !ids[4].Equals(token.Token2022Program) {
		t.Fatal("the card unit must be minted through Token-2022")
	}

	if string(inv.calls[0].Seeds[0][0]) != token.CardSeed {
		t.Fatal("card seeds must sign the record creation")
	}
	if string(inv.calls[1].Seeds[0][0]) != token.CardMintSeed {
		t.Fatal("card mint seeds must sign the mint creation")
	}
	if string(inv.calls[4].Seeds[0][0]) != token.CardSeed {
		t.Fatal("card seeds must sign the unit mint")
	}

	record := accounts[1]
	if len(record.Data) != token.CardSize {
		t.Fatalf("record len = %d, want %d", len(record.Data), token.CardSize)
	}
	card, err := token.ViewCard(record.Data)
	if err != nil {
		t.Fatalf("view card: %v", err)
	}
	if card.Discriminator() != token.CardDiscriminator {
		t.Fatal("card discriminator not written")
	}
	if !card.Owner().Equals(accounts[0].Key) {
		t.Fatal("holder record not recorded as owner")
	}
	if !card.Mint().Equals(accounts[2].Key) {
		t.Fatal("card mint not recorded")
	}
	if got := card.UserID(); !bytes.Equal(got[:], ksuid) {
		t.Fatal("holder identifier not recorded")
	}
	if card.CreatedAt() != testNow {
		t.Fatalf("created at = %d, want %d", card.CreatedAt(), testNow)
	}
	_, cardBump, _ := pda.Card(token.ProgramID, ksuid)
	if card.Bump() != cardBump {
		t.Fatal("card bump not recorded")
	}
}

func TestCreateZupyCardSkipsExistingTokenAccount(t *testing.T) {
	p, inv := newTestProcessor(t)
	ksuid := testKsuid('b')
	mintKey, _, err := pda.CardMint(token.ProgramID, ksuid)
	if err != nil {
		t.Fatalf("derive card mint: %v", err)
	}
	userKey, _, _ := pda.UserNFT(token.ProgramID, ksuid)
	tokenAccount := splAccount(t, testKey(0x53), mintKey, userKey, 0)
	accounts := cardAccounts(t, stateAccount(t, nil), ksuid, tokenAccount)

	if err := p.createZupyCard(accounts, cardData(ksuid)); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, id := range inv.programIDs() {
		if id.Equals(token.ATAProgram) {
			t.Fatal("existing holder account must not be recreated")
		}
	}
	if len(inv.calls) != 4 {
		t.Fatalf("calls = %d, want 4", len(inv.calls))
	}
}

func TestCreateZupyCardRejectsSecondCard(t *testing.T) {
	p, _ := newTestProcessor(t)
	ksuid := testKsuid('c')
	tokenAccount := &types.Account{Key: testKey(0x53), Writable: true}
	accounts := cardAccounts(t, stateAccount(t, nil), ksuid, tokenAccount)
	accounts[1].Data = make([]byte, token.CardSize)
	if err := p.createZupyCard(accounts, cardData(ksuid)); !errors.Is(err, common.ErrAlreadyInitialized) {
		t.Fatalf("err = %v, want already initialized", err)
	}
}

func TestCreateZupyCardRejectsForeignAddresses(t *testing.T) {
	p, _ := newTestProcessor(t)
	ksuid := testKsuid('d')

	for _, idx := range []int{0, 1, 2} {
		tokenAccount := &types.Account{Key: testKey(0x53), Writable: true}
		accounts := cardAccounts(t, stateAccount(t, nil), ksuid, tokenAccount)
		accounts[idx] = &types.Account{Key: testKey(0x47), Writable: accounts[idx].Writable}
		if err := p.createZupyCard(accounts, cardData(ksuid)); !errors.Is(err, common.ErrInvalidPDA) {
			t.Fatalf("account %d err = %v, want invalid PDA", idx, err)
		}
	}
}

func TestCreateZupyCardPayerChecks(t *testing.T) {
	p, _ := newTestProcessor(t)
	ksuid := testKsuid('e')

	tokenAccount := &types.Account{Key: testKey(0x53), Writable: true}
	accounts := cardAccounts(t, stateAccount(t, nil), ksuid, tokenAccount)
	accounts[5] = &types.Account{Key: testMintAuth, Writable: true}
	if err := p.createZupyCard(accounts, cardData(ksuid)); !errors.Is(err, common.ErrInvalidAuthority) {
		t.Fatalf("non-signer err = %v, want invalid authority", err)
	}

	accounts = cardAccounts(t, stateAccount(t, nil), ksuid, tokenAccount)
	accounts[5] = writableSigner(testKey(0x63))
	if err := p.createZupyCard(accounts, cardData(ksuid)); !errors.Is(err, common.ErrInvalidAuthority) {
		t.Fatalf("wrong payer err = %v, want invalid authority", err)
	}
}

func TestCreateZupyCardRejectsShortIdentifier(t *testing.T) {
	p, _ := newTestProcessor(t)
	ksuid := testKsuid('f')
	tokenAccount := &types.Account{Key: testKey(0x53), Writable: true}
	accounts := cardAccounts(t, stateAccount(t, nil), ksuid, tokenAccount)
	if err := p.createZupyCard(accounts, ksuid[:26]); !errors.Is(err, common.ErrInvalidInstructionData) {
		t.Fatalf("err = %v, want invalid instruction data", err)
	}
}

func couponData(userKsuid, couponKsuid []byte) []byte {
	data := append([]byte{}, userKsuid...)
	data = append(data, couponKsuid...)
	return appendWireString(data, testCardURI)
}

func couponAccounts(t *testing.T, state *types.Account, userKsuid, couponKsuid []byte) []*types.Account {
	t.Helper()
	userKey, _, err := pda.UserNFT(token.ProgramID, userKsuid)
	if err != nil {
		t.Fatalf("derive holder record: %v", err)
	}
	mintKey, _, err := pda.CouponMint(token.ProgramID, couponKsuid)
	if err != nil {
		t.Fatalf("derive coupon mint: %v", err)
	}
	return []*types.Account{
		readonlyAccount(userKey),
		{Key: mintKey, Writable: true},
		{Key: testKey(0x54), Writable: true},
		state,
		writableSigner(testMintAuth),
		readonlyAccount(token.Token2022Program),
		readonlyAccount(token.ATAProgram),
		readonlyAccount(token.SystemProgram),
	}
}

func TestCreateCouponNFTHappyPath(t *testing.T) {
	p, inv := newTestProcessor(t)
	userKsuid, couponKsuid := testKsuid('g'), testKsuid('h')
	accounts := couponAccounts(t, stateAccount(t, nil), userKsuid, couponKsuid)

	if err := p.createCouponNFT(accounts, couponData(userKsuid, couponKsuid)); err != nil {
		t.Fatalf("create: %v", err)
	}
	ids := inv.programIDs()
	if len(ids) != 4 {
		t.Fatalf("calls = %d, want 4", len(ids))
	}
	if !ids[0].Equals(token.SystemProgram) || !ids[1].Equals(token.Token2022Program) ||
		!ids[2].Equals(token.ATAProgram) || !ids[3].Equals(token.Token2022Program) {
		t.Fatalf("unexpected call order %v", ids)
	}

	// The mint authorizes its own unit mint.
	mintKey, _, _ := pda.CouponMint(token.ProgramID, couponKsuid)
	last := inv.calls[3]
	if len(last.Accounts) != 3 ||
		!last.Accounts[0].Key.Equals(mintKey) ||
		!last.Accounts[2].Key.Equals(mintKey) {
		t.Fatal("coupon mint must sign its own unit mint")
	}
	if string(last.Seeds[0][0]) != token.CouponSeed {
		t.Fatal("coupon seeds must sign the unit mint")
	}
}

func TestCreateCouponNFTRejectsForeignMint(t *testing.T) {
	p, _ := newTestProcessor(t)
	userKsuid, couponKsuid := testKsuid('i'), testKsuid('j')
	accounts := couponAccounts(t, stateAccount(t, nil), userKsuid, couponKsuid)
	accounts[1] = &types.Account{Key: testKey(0x47), Writable: true}
	if err := p.createCouponNFT(accounts, couponData(userKsuid, couponKsuid)); !errors.Is(err, common.ErrInvalidPDA) {
		t.Fatalf("err = %v, want invalid PDA", err)
	}
}

func TestCreateCouponNFTRejectsWrongTokenProgram(t *testing.T) {
	p, _ := newTestProcessor(t)
	userKsuid, couponKsuid := testKsuid('k'), testKsuid('l')
	accounts := couponAccounts(t, stateAccount(t, nil), userKsuid, couponKsuid)
	accounts[5] = readonlyAccount(testKey(0x42))
	if err := p.createCouponNFT(accounts, couponData(userKsuid, couponKsuid)); !errors.Is(err, common.ErrInvalidTokenProgram) {
		t.Fatalf("err = %v, want invalid token program", err)
	}
}

func cnftData(name, symbol, uri string) []byte {
	data := appendWireString(nil, name)
	data = appendWireString(data, symbol)
	return appendWireString(data, uri)
}

func cnftAccounts(t *testing.T, state *types.Account) []*types.Account {
	t.Helper()
	return []*types.Account{
		writableSigner(testKey(0x55)),
		readonlyAccount(testKey(0x56)),
		{Key: testKey(0x57), Writable: true},
		{Key: testKey(0x5B), Writable: true},
		writableSigner(testMintAuth),
		readonlyAccount(token.BubblegumProgram),
		readonlyAccount(token.SPLAccountCompression),
		readonlyAccount(token.SPLNoop),
		readonlyAccount(token.SystemProgram),
		state,
	}
}

func TestMintCouponCNFTHappyPath(t *testing.T) {
	p, inv := newTestProcessor(t)
	accounts := cnftAccounts(t, stateAccount(t, nil))

	if err := p.mintCouponCNFT(accounts, cnftData("Coupon", "CPN", testCardURI)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if len(inv.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(inv.calls))
	}
	call := inv.calls[0]
	if !call.Instruction.ProgramID().Equals(token.BubblegumProgram) {
		t.Fatal("leaf mint must go through Bubblegum")
	}
	if len(call.Seeds) != 0 {
		t.Fatal("the tree delegate signs directly, no seeds expected")
	}
	// Tree config, leaf owner twice, tree, payer, delegate, wrapper,
	// compression, system.
	if len(call.Accounts) != 9 {
		t.Fatalf("cpi accounts = %d, want 9", len(call.Accounts))
	}
	if !call.Accounts[1].Key.Equals(testKey(0x56)) || !call.Accounts[2].Key.Equals(testKey(0x56)) {
		t.Fatal("leaf owner must appear as owner and delegate")
	}
	want := bubblegum.MintV1Data("Coupon", "CPN", testCardURI)
	if got := callData(t, call); !bytes.Equal(got, want) {
		t.Fatalf("payload = %v, want %v", got, want)
	}
}

func TestMintCouponCNFTRequiresTreeDelegateSignature(t *testing.T) {
	p, _ := newTestProcessor(t)
	accounts := cnftAccounts(t, stateAccount(t, nil))
	accounts[0] = &types.Account{Key: testKey(0x55), Writable: true}
	if err := p.mintCouponCNFT(accounts, cnftData("Coupon", "CPN", testCardURI)); !errors.Is(err, common.ErrInvalidAuthority) {
		t.Fatalf("err = %v, want invalid authority", err)
	}
}

func TestMintCouponCNFTRejectsWrongPayer(t *testing.T) {
	p, _ := newTestProcessor(t)
	accounts := cnftAccounts(t, stateAccount(t, nil))
	accounts[4] = writableSigner(testKey(0x63))
	if err := p.mintCouponCNFT(accounts, cnftData("Coupon", "CPN", testCardURI)); !errors.Is(err, common.ErrInvalidAuthority) {
		t.Fatalf("err = %v, want invalid authority", err)
	}
}

func TestMintCouponCNFTPinsPrograms(t *testing.T) {
	p, _ := newTestProcessor(t)
	for _, idx := range []int{5, 6, 7} {
		accounts := cnftAccounts(t, stateAccount(t, nil))
		accounts[idx] = readonlyAccount(testKey(0x44))
		if err := p.mintCouponCNFT(accounts, cnftData("Coupon", "CPN", testCardURI)); !errors.Is(err, common.ErrInvalidTokenProgram) {
			t.Fatalf("account %d err = %v, want invalid token program", idx, err)
		}
	}
}
