package gateway

import (
	"encoding/json"
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"

	"zupytoken/native/common"
)

var (
	bucketMemos       = []byte("memos")
	bucketIdempotency = []byte("idempotency")

	// ErrIdempotencyNotFound is returned when no cached response exists
	// for a key.
	ErrIdempotencyNotFound = errors.New("gateway: idempotency record not found")
)

// Store persists memo usage and idempotency responses. Memos are the
// off-chain dedup layer: the program never rejects a replayed memo itself,
// so the gateway refuses to build a second instruction for one.
type Store struct {
	db    *bolt.DB
	nowFn func() time.Time
}

// memoRecord remembers when a memo was first built and for which request.
type memoRecord struct {
	RequestID string    `json:"requestId"`
	Operation string    `json:"operation"`
	SeenAt    time.Time `json:"seenAt"`
}

// IdempotencyRecord caches a response body for replayed requests.
type IdempotencyRecord struct {
	StatusCode int       `json:"statusCode"`
	Body       []byte    `json:"body"`
	StoredAt   time.Time `json:"storedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// OpenStore opens or creates the bbolt file at path.
func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketMemos, bucketIdempotency} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, nowFn: time.Now}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ClaimMemo records memo as used by requestID. A memo that was already
// claimed fails with the program's duplicate-memo code so clients see the
// same number the chain-side dedup layer reports.
func (s *Store) ClaimMemo(memo, operation, requestID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketMemos)
		if bucket.Get([]byte(memo)) != nil {
			return common.ErrDuplicateMemo
		}
		record := memoRecord{RequestID: requestID, Operation: operation, SeenAt: s.nowFn().UTC()}
		raw, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(memo), raw)
	})
}

// MemoSeen reports whether memo has been claimed.
func (s *Store) MemoSeen(memo string) (bool, error) {
	var seen bool
	err := s.db.View(func(tx *bolt.Tx) error {
		seen = tx.Bucket(bucketMemos).Get([]byte(memo)) != nil
		return nil
	})
	return seen, err
}

// PutIdempotent caches a response under key for ttl.
func (s *Store) PutIdempotent(key string, statusCode int, body []byte, ttl time.Duration) error {
	now := s.nowFn().UTC()
	record := IdempotencyRecord{
		StatusCode: statusCode,
		Body:       append([]byte(nil), body...),
		StoredAt:   now,
		ExpiresAt:  now.Add(ttl),
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketIdempotency).Put([]byte(key), raw)
	})
}

// GetIdempotent returns the cached response for key. Expired records are
// reported as missing and removed lazily.
func (s *Store) GetIdempotent(key string) (*IdempotencyRecord, error) {
	var record *IdempotencyRecord
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketIdempotency)
		raw := bucket.Get([]byte(key))
		if raw == nil {
			return ErrIdempotencyNotFound
		}
		var decoded IdempotencyRecord
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return err
		}
		if s.nowFn().UTC().After(decoded.ExpiresAt) {
			if err := bucket.Delete([]byte(key)); err != nil {
				return err
			}
			return ErrIdempotencyNotFound
		}
		record = &decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
