package core

import (
	sysprog "github.com/gagliardetto/solana-go/programs/system"

	"zupytoken/core/types"
	"zupytoken/native/authz"
	"zupytoken/native/bubblegum"
	"zupytoken/native/common"
	"zupytoken/native/pda"
	"zupytoken/native/spltoken"
	"zupytoken/native/token"
)

// createZupyCard mints a holder's card NFT: a card record owned by this
// program, a fresh decimals-0 mint whose authority is the card record,
// and one unit minted into the holder's associated account. All three
// addresses derive from the holder identifier, so a holder can have at
// most one card.
//
// Accounts:
//
//	0. user_pda       holder NFT record
//	1. zupy_card      (writable) card record, created here
//	2. mint           (writable) card mint, created here
//	3. token_account  (writable) holder ATA, created if missing
//	4. token_state
//	5. payer          (writable, signer) must be the mint authority
//	6. token_program
//	7. ata_program
//	8. system_program
//
// Data: holder identifier, 27 raw bytes, then a metadata URI string that
// is parsed for well-formedness and otherwise unused on chain.
func (p *Processor) createZupyCard(accounts []*types.Account, data []byte) error {
	if len(accounts) < 9 {
		return common.ErrNotEnoughAccounts
	}
	userPDA := accounts[0]
	zupyCard := accounts[1]
	mint := accounts[2]
	tokenAccount := accounts[3]
	stateAcct := accounts[4]
	payer := accounts[5]
	tokenProgram := accounts[6]
	systemProgram := accounts[8]

	userKsuid, offset, err := parseBytes(data, 0, token.CardIDLen)
	if err != nil {
		return err
	}
	if _, _, err := parseString(data, offset); err != nil {
		return err
	}

	if err := authz.ValidateNFTPayer(p.programID, payer, stateAcct); err != nil {
		return err
	}

	if !tokenProgram.Key.Equals(token.Token2022Program) {
		return common.ErrInvalidTokenProgram
	}

	expectedUser, _, err := pda.UserNFT(p.programID, userKsuid)
	if err != nil {
		return common.ErrInvalidPDA
	}
	if err := pda.ValidateExpected(userPDA.Key, expectedUser); err != nil {
		return err
	}

	expectedCard, cardBump, err := pda.Card(p.programID, userKsuid)
	if err != nil {
		return common.ErrInvalidPDA
	}
	if err := pda.ValidateExpected(zupyCard.Key, expectedCard); err != nil {
		return err
	}

	expectedMint, mintBump, err := pda.CardMint(p.programID, userKsuid)
	if err != nil {
		return common.ErrInvalidPDA
	}
	if err := pda.ValidateExpected(mint.Key, expectedMint); err != nil {
		return err
	}

	if zupyCard.DataLen() > 0 {
		return common.ErrAlreadyInitialized
	}

	cardSeeds := pda.CardSeeds(userKsuid, cardBump)
	createCard := sysprog.NewCreateAccountInstruction(
		p.rent.MinimumBalance(token.CardSize),
		uint64(token.CardSize),
		p.programID,
		payer.Key,
		zupyCard.Key,
	).Build()
	if err := p.invokeSigned(createCard, []*types.Account{payer, zupyCard}, cardSeeds); err != nil {
		return err
	}

	createMint := sysprog.NewCreateAccountInstruction(
		p.rent.MinimumBalance(int(token.BasicMintSize)),
		token.BasicMintSize,
		token.Token2022Program,
		payer.Key,
		mint.Key,
	).Build()
	if err := p.invokeSigned(createMint, []*types.Account{payer, mint}, pda.CardMintSeeds(userKsuid, mintBump)); err != nil {
		return err
	}

	// The card record is both mint and freeze authority.
	initMint := spltoken.InitializeMint2(mint.Key, expectedCard, &expectedCard, 0)
	if err := p.invoke(initMint, mint); err != nil {
		return err
	}

	if tokenAccount.DataLen() == 0 {
		createATA := spltoken.CreateATA(payer.Key, tokenAccount.Key, userPDA.Key, mint.Key)
		if err := p.invoke(createATA, payer, tokenAccount, userPDA, mint, systemProgram, tokenProgram); err != nil {
			return err
		}
	}

	mintOne := spltoken.MintTo(mint.Key, tokenAccount.Key, zupyCard.Key, 1)
	if err := p.invokeSigned(mintOne, []*types.Account{mint, tokenAccount, zupyCard}, cardSeeds); err != nil {
		return err
	}

	card, err := token.ViewCardMut(zupyCard.Data)
	if err != nil {
		return err
	}
	card.SetDiscriminator(token.CardDiscriminator)
	card.SetOwner(userPDA.Key)
	card.SetMint(mint.Key)
	var id [token.CardIDLen]byte
	copy(id[:], userKsuid)
	card.SetUserID(id)
	card.SetCreatedAt(p.now())
	card.SetBump(cardBump)
	return nil
}

// createCouponNFT mints a coupon NFT into a holder's associated account.
// The coupon mint is its own authority, addressed by the coupon
// identifier, and no program-side record is written; the chain of
// custody lives entirely in the token accounts.
//
// Accounts:
//
//	0. user_pda       holder NFT record
//	1. coupon_mint    (writable) created here
//	2. coupon_ata     (writable) holder ATA, created if missing
//	3. token_state
//	4. payer          (writable, signer) must be the mint authority
//	5. token_program
//	6. ata_program
//	7. system_program
//
// Data: holder identifier and coupon identifier, 27 raw bytes each, then
// a metadata URI string that is parsed for well-formedness and otherwise
// unused on chain.
func (p *Processor) createCouponNFT(accounts []*types.Account, data []byte) error {
	if len(accounts) < 8 {
		return common.ErrNotEnoughAccounts
	}
	userPDA := accounts[0]
	couponMint := accounts[1]
	couponATA := accounts[2]
	stateAcct := accounts[3]
	payer := accounts[4]
	tokenProgram := accounts[5]
	systemProgram := accounts[7]

	userKsuid, offset, err := parseBytes(data, 0, token.CardIDLen)
	if err != nil {
		return err
	}
	couponKsuid, offset, err := parseBytes(data, offset, token.CardIDLen)
	if err != nil {
		return err
	}
	if _, _, err := parseString(data, offset); err != nil {
		return err
	}

	if err := authz.ValidateNFTPayer(p.programID, payer, stateAcct); err != nil {
		return err
	}

	if !tokenProgram.Key.Equals(token.Token2022Program) {
		return common.ErrInvalidTokenProgram
	}

	expectedUser, _, err := pda.UserNFT(p.programID, userKsuid)
	if err != nil {
		return common.ErrInvalidPDA
	}
	if err := pda.ValidateExpected(userPDA.Key, expectedUser); err != nil {
		return err
	}

	expectedMint, couponBump, err := pda.CouponMint(p.programID, couponKsuid)
	if err != nil {
		return common.ErrInvalidPDA
	}
	if err := pda.ValidateExpected(couponMint.Key, expectedMint); err != nil {
		return err
	}

	couponSeeds := pda.CouponMintSeeds(couponKsuid, couponBump)
	createMint := sysprog.NewCreateAccountInstruction(
		p.rent.MinimumBalance(int(token.BasicMintSize)),
		token.BasicMintSize,
		token.Token2022Program,
		payer.Key,
		couponMint.Key,
	).Build()
	if err := p.invokeSigned(createMint, []*types.Account{payer, couponMint}, couponSeeds); err != nil {
		return err
	}

	// The mint is its own authority, signing through its seeds.
	initMint := spltoken.InitializeMint2(couponMint.Key, expectedMint, &expectedMint, 0)
	if err := p.invoke(initMint, couponMint); err != nil {
		return err
	}

	if couponATA.DataLen() == 0 {
		createATA := spltoken.CreateATA(payer.Key, couponATA.Key, userPDA.Key, couponMint.Key)
		if err := p.invoke(createATA, payer, couponATA, userPDA, couponMint, systemProgram, tokenProgram); err != nil {
			return err
		}
	}

	mintOne := spltoken.MintTo(couponMint.Key, couponATA.Key, couponMint.Key, 1)
	return p.invokeSigned(mintOne, []*types.Account{couponMint, couponATA, couponMint}, couponSeeds)
}

// mintCouponCNFT appends a coupon leaf to a state-compressed Merkle tree
// through Bubblegum. Nothing besides the tree changes on chain, so the
// per-coupon cost is a leaf hash instead of a mint and token account.
//
// Accounts:
//
//	0. tree_authority      (writable, signer) tree delegate
//	1. leaf_owner          coupon recipient
//	2. merkle_tree         (writable)
//	3. tree_config         (writable) Bubblegum tree config
//	4. payer               (writable, signer) must be the mint authority
//	5. bubblegum_program
//	6. compression_program
//	7. log_wrapper
//	8. system_program
//	9. token_state
//
// Data: name, symbol and URI strings back to back.
func (p *Processor) mintCouponCNFT(accounts []*types.Account, data []byte) error {
	if len(accounts) < 10 {
		return common.ErrNotEnoughAccounts
	}
	treeAuthority := accounts[0]
	leafOwner := accounts[1]
	merkleTree := accounts[2]
	treeConfig := accounts[3]
	payer := accounts[4]
	bubblegumProgram := accounts[5]
	compressionProgram := accounts[6]
	logWrapper := accounts[7]
	systemProgram := accounts[8]
	stateAcct := accounts[9]

	name, offset, err := parseString(data, 0)
	if err != nil {
		return err
	}
	symbol, offset, err := parseString(data, offset)
	if err != nil {
		return err
	}
	uri, _, err := parseString(data, offset)
	if err != nil {
		return err
	}

	if !treeAuthority.Signer {
		return common.ErrInvalidAuthority
	}

	if err := authz.ValidateNFTPayer(p.programID, payer, stateAcct); err != nil {
		return err
	}

	if !bubblegumProgram.Key.Equals(token.BubblegumProgram) {
		return common.ErrInvalidTokenProgram
	}
	if !compressionProgram.Key.Equals(token.SPLAccountCompression) {
		return common.ErrInvalidTokenProgram
	}
	if !logWrapper.Key.Equals(token.SPLNoop) {
		return common.ErrInvalidTokenProgram
	}

	inst := bubblegum.MintV1(treeConfig.Key, leafOwner.Key, merkleTree.Key, payer.Key, treeAuthority.Key, logWrapper.Key, compressionProgram.Key, name, symbol, uri)
	return p.invoke(inst,
		treeConfig, leafOwner, leafOwner, merkleTree, payer,
		treeAuthority, logWrapper, compressionProgram, systemProgram)
}
