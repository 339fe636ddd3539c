package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"zupytoken/core/types"
	"zupytoken/storage"
)

// Snapshot key prefixes. Accounts, compressed balances and metadata records
// key by address; leaves key by mint order. The manifest lists every key so
// Load does not need store iteration.
var (
	manifestKey      = []byte("ledger/manifest")
	accountPrefix    = []byte("ledger/acct/")
	compressedPrefix = []byte("ledger/ctoken/")
	metadataPrefix   = []byte("ledger/meta/")
	leafPrefix       = []byte("ledger/cnft/")
)

func prefixed(prefix []byte, key solana.PublicKey) []byte {
	out := make([]byte, 0, len(prefix)+32)
	out = append(out, prefix...)
	return append(out, key[:]...)
}

func appendU32(data []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(data, buf[:]...)
}

func appendWireString(data []byte, s string) []byte {
	data = appendU32(data, uint32(len(s)))
	return append(data, s...)
}

// Commit writes the ledger's full state to the snapshot store. Signer and
// writable flags are per-transaction and do not persist.
func (l *Ledger) Commit() error {
	manifest := appendU32(nil, uint32(len(l.accounts)))
	for key, acct := range l.accounts {
		manifest = append(manifest, key[:]...)
		entry := make([]byte, 0, 8+32+len(acct.Data))
		entry = binary.LittleEndian.AppendUint64(entry, acct.Lamports)
		entry = append(entry, acct.Owner[:]...)
		entry = append(entry, acct.Data...)
		if err := l.store.Put(prefixed(accountPrefix, key), entry); err != nil {
			return fmt.Errorf("ledger: snapshot account %s: %w", key, err)
		}
	}

	manifest = appendU32(manifest, uint32(len(l.compressed)))
	for owner, amount := range l.compressed {
		manifest = append(manifest, owner[:]...)
		var entry [8]byte
		binary.LittleEndian.PutUint64(entry[:], amount)
		if err := l.store.Put(prefixed(compressedPrefix, owner), entry[:]); err != nil {
			return fmt.Errorf("ledger: snapshot compressed balance %s: %w", owner, err)
		}
	}

	manifest = appendU32(manifest, uint32(len(l.metadata)))
	for mint, md := range l.metadata {
		manifest = append(manifest, mint[:]...)
		entry := append([]byte(nil), md.Authority[:]...)
		entry = appendWireString(entry, md.Name)
		entry = appendWireString(entry, md.Symbol)
		entry = appendWireString(entry, md.URI)
		if err := l.store.Put(prefixed(metadataPrefix, mint), entry); err != nil {
			return fmt.Errorf("ledger: snapshot metadata %s: %w", mint, err)
		}
	}

	manifest = appendU32(manifest, uint32(len(l.cnfts)))
	for i, leaf := range l.cnfts {
		entry := append([]byte(nil), leaf.Tree[:]...)
		entry = append(entry, leaf.LeafOwner[:]...)
		entry = appendWireString(entry, leaf.Name)
		entry = appendWireString(entry, leaf.Symbol)
		entry = appendWireString(entry, leaf.URI)
		if err := l.store.Put(appendU32(append([]byte(nil), leafPrefix...), uint32(i)), entry); err != nil {
			return fmt.Errorf("ledger: snapshot leaf %d: %w", i, err)
		}
	}

	if err := l.store.Put(manifestKey, manifest); err != nil {
		return fmt.Errorf("ledger: snapshot manifest: %w", err)
	}
	return nil
}

// Load replaces the ledger's state with the last committed snapshot. A
// store with no snapshot loads as an empty ledger.
func (l *Ledger) Load() error {
	manifest, err := l.store.Get(manifestKey)
	if errors.Is(err, storage.ErrNotFound) {
		l.accounts = make(map[solana.PublicKey]*types.Account)
		l.compressed = make(map[solana.PublicKey]uint64)
		l.metadata = make(map[solana.PublicKey]Metadata)
		l.cnfts = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("ledger: load manifest: %w", err)
	}

	accountKeys, off, err := readKeyList(manifest, 0)
	if err != nil {
		return err
	}
	compressedKeys, off, err := readKeyList(manifest, off)
	if err != nil {
		return err
	}
	metadataKeys, off, err := readKeyList(manifest, off)
	if err != nil {
		return err
	}
	if off+4 > len(manifest) {
		return fmt.Errorf("ledger: load manifest: %w", errTruncatedSnapshot)
	}
	leafCount := binary.LittleEndian.Uint32(manifest[off : off+4])

	accounts := make(map[solana.PublicKey]*types.Account, len(accountKeys))
	for _, key := range accountKeys {
		entry, err := l.store.Get(prefixed(accountPrefix, key))
		if err != nil {
			return fmt.Errorf("ledger: load account %s: %w", key, err)
		}
		if len(entry) < 40 {
			return fmt.Errorf("ledger: load account %s: %w", key, errTruncatedSnapshot)
		}
		acct := &types.Account{
			Key:      key,
			Lamports: binary.LittleEndian.Uint64(entry[0:8]),
			Owner:    solana.PublicKeyFromBytes(entry[8:40]),
		}
		if len(entry) > 40 {
			acct.Data = append([]byte(nil), entry[40:]...)
		}
		accounts[key] = acct
	}

	compressed := make(map[solana.PublicKey]uint64, len(compressedKeys))
	for _, owner := range compressedKeys {
		entry, err := l.store.Get(prefixed(compressedPrefix, owner))
		if err != nil {
			return fmt.Errorf("ledger: load compressed balance %s: %w", owner, err)
		}
		if len(entry) < 8 {
			return fmt.Errorf("ledger: load compressed balance %s: %w", owner, errTruncatedSnapshot)
		}
		compressed[owner] = binary.LittleEndian.Uint64(entry[0:8])
	}

	metadata := make(map[solana.PublicKey]Metadata, len(metadataKeys))
	for _, mint := range metadataKeys {
		entry, err := l.store.Get(prefixed(metadataPrefix, mint))
		if err != nil {
			return fmt.Errorf("ledger: load metadata %s: %w", mint, err)
		}
		md, err := decodeMetadata(entry)
		if err != nil {
			return fmt.Errorf("ledger: load metadata %s: %w", mint, err)
		}
		metadata[mint] = md
	}

	leaves := make([]CompressedNFT, 0, leafCount)
	for i := uint32(0); i < leafCount; i++ {
		entry, err := l.store.Get(appendU32(append([]byte(nil), leafPrefix...), i))
		if err != nil {
			return fmt.Errorf("ledger: load leaf %d: %w", i, err)
		}
		leaf, err := decodeLeaf(entry)
		if err != nil {
			return fmt.Errorf("ledger: load leaf %d: %w", i, err)
		}
		leaves = append(leaves, leaf)
	}

	l.accounts = accounts
	l.compressed = compressed
	l.metadata = metadata
	l.cnfts = leaves
	return nil
}

var errTruncatedSnapshot = errors.New("truncated snapshot entry")

func readKeyList(data []byte, off int) ([]solana.PublicKey, int, error) {
	if off+4 > len(data) {
		return nil, 0, fmt.Errorf("ledger: load manifest: %w", errTruncatedSnapshot)
	}
	count := int(binary.LittleEndian.Uint32(data[off : off+4]))
	off += 4
	if off+count*32 > len(data) {
		return nil, 0, fmt.Errorf("ledger: load manifest: %w", errTruncatedSnapshot)
	}
	keys := make([]solana.PublicKey, count)
	for i := 0; i < count; i++ {
		keys[i] = solana.PublicKeyFromBytes(data[off : off+32])
		off += 32
	}
	return keys, off, nil
}

func decodeMetadata(entry []byte) (Metadata, error) {
	if len(entry) < 32 {
		return Metadata{}, errTruncatedSnapshot
	}
	md := Metadata{Authority: solana.PublicKeyFromBytes(entry[0:32])}
	var err error
	off := 32
	if md.Name, off, err = readString(entry, off); err != nil {
		return Metadata{}, err
	}
	if md.Symbol, off, err = readString(entry, off); err != nil {
		return Metadata{}, err
	}
	if md.URI, _, err = readString(entry, off); err != nil {
		return Metadata{}, err
	}
	return md, nil
}

func decodeLeaf(entry []byte) (CompressedNFT, error) {
	if len(entry) < 64 {
		return CompressedNFT{}, errTruncatedSnapshot
	}
	leaf := CompressedNFT{
		Tree:      solana.PublicKeyFromBytes(entry[0:32]),
		LeafOwner: solana.PublicKeyFromBytes(entry[32:64]),
	}
	var err error
	off := 64
	if leaf.Name, off, err = readString(entry, off); err != nil {
		return CompressedNFT{}, err
	}
	if leaf.Symbol, off, err = readString(entry, off); err != nil {
		return CompressedNFT{}, err
	}
	if leaf.URI, _, err = readString(entry, off); err != nil {
		return CompressedNFT{}, err
	}
	return leaf, nil
}
