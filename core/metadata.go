package core

import (
	"zupytoken/core/types"
	"zupytoken/native/authz"
	"zupytoken/native/common"
	"zupytoken/native/pda"
	"zupytoken/native/spltoken"
)

// Metadata value bounds enforced before any cross-program call.
const (
	maxMetadataNameLen   = 32
	maxMetadataSymbolLen = 10
	maxMetadataURILen    = 200
)

func validateMetadataValue(field spltoken.MetadataField, value string) error {
	switch field {
	case spltoken.MetadataFieldName:
		if value == "" || len(value) > maxMetadataNameLen {
			return common.ErrInvalidMetadataName
		}
	case spltoken.MetadataFieldSymbol:
		if value == "" || len(value) > maxMetadataSymbolLen {
			return common.ErrInvalidMetadataSymbol
		}
	case spltoken.MetadataFieldURI:
		if value == "" || len(value) > maxMetadataURILen {
			return common.ErrInvalidMetadataURI
		}
	default:
		return common.ErrInvalidInstructionData
	}
	return nil
}

// initializeMetadata writes the mint's name, symbol and uri through the
// Token-2022 metadata interface, with the state record signing as the
// mint's metadata authority.
//
// Accounts:
//
//	0. authority     (writable, signer) must be the recorded treasury
//	1. token_state
//	2. mint          (writable)
//	3. token_program
//
// Data: name, symbol, uri as length-prefixed strings.
func (p *Processor) initializeMetadata(accounts []*types.Account, data []byte) error {
	if len(accounts) < 4 {
		return common.ErrNotEnoughAccounts
	}
	authority := accounts[0]
	stateAcct := accounts[1]
	mint := accounts[2]
	tokenProgram := accounts[3]

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

	if err := validateMetadataValue(spltoken.MetadataFieldName, name); err != nil {
		return err
	}
	if err := validateMetadataValue(spltoken.MetadataFieldSymbol, symbol); err != nil {
		return err
	}
	if err := validateMetadataValue(spltoken.MetadataFieldURI, uri); err != nil {
		return err
	}

	bump, err := authz.ValidateMetadataAccounts(p.programID, authority, stateAcct, mint, tokenProgram)
	if err != nil {
		return err
	}

	inst := spltoken.InitializeMetadata(mint.Key, stateAcct.Key, name, symbol, uri)
	return p.invokeSigned(inst,
		[]*types.Account{mint, stateAcct, mint, stateAcct},
		pda.StateSeeds(bump),
	)
}

// updateMetadataField rewrites one metadata field on the mint. The state
// record signs the update.
//
// Accounts: same four as initializeMetadata.
//
// Data: field selector byte (0 name, 1 symbol, 2 uri) then the new value.
func (p *Processor) updateMetadataField(accounts []*types.Account, data []byte) error {
	if len(accounts) < 4 {
		return common.ErrNotEnoughAccounts
	}
	authority := accounts[0]
	stateAcct := accounts[1]
	mint := accounts[2]
	tokenProgram := accounts[3]

	field, err := parseU8(data, 0)
	if err != nil {
		return err
	}
	value, _, err := parseString(data, 1)
	if err != nil {
		return err
	}

	if err := validateMetadataValue(spltoken.MetadataField(field), value); err != nil {
		return err
	}

	bump, err := authz.ValidateMetadataAccounts(p.programID, authority, stateAcct, mint, tokenProgram)
	if err != nil {
		return err
	}

	inst, err := spltoken.UpdateMetadataField(mint.Key, stateAcct.Key, spltoken.MetadataField(field), value)
	if err != nil {
		return err
	}
	return p.invokeSigned(inst, []*types.Account{mint, stateAcct}, pda.StateSeeds(bump))
}
