package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zupytoken/native/token"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddress != "127.0.0.1:8745" {
		t.Fatalf("unexpected listen address %q", cfg.ListenAddress)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default file not written: %v", err)
	}
	if _, ok := cfg.RateLimit["build"]; !ok {
		t.Fatalf("default build rate limit missing")
	}

	// Reloading the written file round-trips.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.ListenAddress != cfg.ListenAddress {
		t.Fatalf("round trip changed listen address")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.toml")
	if err := os.WriteFile(path, []byte("ListenAdress = \":1\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unknown keys") {
		t.Fatalf("expected unknown-key error, got %v", err)
	}
}

func TestValidateAuthSecret(t *testing.T) {
	cfg := &Config{Auth: Auth{Enabled: true}}
	cfg.normalize()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for enabled auth without secret")
	}
	cfg.Auth.Secret = "shh"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestAddressBookDefaults(t *testing.T) {
	addrs, err := LoadAddressBook("")
	if err != nil {
		t.Fatalf("LoadAddressBook: %v", err)
	}
	if !addrs.Treasury.Equals(token.TreasuryWallet) {
		t.Fatalf("treasury default not applied")
	}
	if addrs.Cluster != "devnet" {
		t.Fatalf("cluster default not applied: %q", addrs.Cluster)
	}
}

func TestAddressBookOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devnet.yaml")
	body := "cluster: devnet\nmint: " + token.ProgramID.String() + "\ntreasury: bogus\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadAddressBook(path); err == nil {
		t.Fatalf("expected error for malformed treasury key")
	}

	body = "cluster: devnet\nmint: " + token.ProgramID.String() + "\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	addrs, err := LoadAddressBook(path)
	if err != nil {
		t.Fatalf("LoadAddressBook: %v", err)
	}
	if !addrs.Mint.Equals(token.ProgramID) {
		t.Fatalf("mint override not applied")
	}
	if !addrs.MintAuthority.Equals(token.MintAuthority) {
		t.Fatalf("mint authority default lost")
	}
}
