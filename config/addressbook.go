package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"gopkg.in/yaml.v3"

	"zupytoken/native/token"
)

// AddressBook overrides the cluster-specific addresses baked into the
// program constants. Operators keep one YAML file per cluster; any field
// left blank falls back to the compiled-in default.
type AddressBook struct {
	Cluster           string `yaml:"cluster"`
	Mint              string `yaml:"mint"`
	Treasury          string `yaml:"treasury"`
	MintAuthority     string `yaml:"mintAuthority"`
	TransferAuthority string `yaml:"transferAuthority"`
	FeePayer          string `yaml:"feePayer"`
}

// Addresses is the parsed form of an AddressBook with defaults applied.
type Addresses struct {
	Cluster           string
	Mint              solana.PublicKey
	Treasury          solana.PublicKey
	MintAuthority     solana.PublicKey
	TransferAuthority solana.PublicKey
	FeePayer          solana.PublicKey
}

// LoadAddressBook reads and resolves a cluster address book. An empty path
// yields the compiled-in defaults.
func LoadAddressBook(path string) (*Addresses, error) {
	book := &AddressBook{}
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read address book: %w", err)
		}
		if err := yaml.Unmarshal(raw, book); err != nil {
			return nil, fmt.Errorf("config: parse address book: %w", err)
		}
	}
	return book.Resolve()
}

// Resolve parses every populated field and fills the rest from the program
// constants.
func (b *AddressBook) Resolve() (*Addresses, error) {
	addrs := &Addresses{
		Cluster:           strings.TrimSpace(b.Cluster),
		Treasury:          token.TreasuryWallet,
		MintAuthority:     token.MintAuthority,
		TransferAuthority: token.TransferAuthority,
		FeePayer:          token.TransferAuthority,
	}
	if addrs.Cluster == "" {
		addrs.Cluster = "devnet"
	}

	assign := func(field string, raw string, dst *solana.PublicKey) error {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		key, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			return fmt.Errorf("config: address book %s: %w", field, err)
		}
		*dst = key
		return nil
	}

	if err := assign("mint", b.Mint, &addrs.Mint); err != nil {
		return nil, err
	}
	if err := assign("treasury", b.Treasury, &addrs.Treasury); err != nil {
		return nil, err
	}
	if err := assign("mintAuthority", b.MintAuthority, &addrs.MintAuthority); err != nil {
		return nil, err
	}
	if err := assign("transferAuthority", b.TransferAuthority, &addrs.TransferAuthority); err != nil {
		return nil, err
	}
	if err := assign("feePayer", b.FeePayer, &addrs.FeePayer); err != nil {
		return nil, err
	}
	return addrs, nil
}
