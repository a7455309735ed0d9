package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	boltFileName = "session.db"
	tokenKey     = "token"
)

var sessionBucket = []byte("session")

// BoltStore keeps the token under key "token" in a bbolt file.
// The database is opened per call so several processes can share it.
type BoltStore struct {
	path string
}

func NewBoltStore(dir string) *BoltStore {
	return &BoltStore{path: filepath.Join(dir, boltFileName)}
}

func (s *BoltStore) open(readOnly bool) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	db, err := bolt.Open(s.path, 0o600, &bolt.Options{Timeout: time.Second, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	return db, nil
}

func (s *BoltStore) Get() (*TokenInfo, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, nil // not logged in
	}
	db, err := s.open(true)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var ti *TokenInfo
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(tokenKey))
		if v == nil {
			return nil
		}
		var info TokenInfo
		if err := json.Unmarshal(v, &info); err != nil {
			return fmt.Errorf("parse token: %w", err)
		}
		ti = &info
		return nil
	})
	if err != nil {
		return nil, err
	}
	if ti != nil {
		ti.Token = stripBearer(ti.Token)
		ti.Source = SourceBolt
	}
	return ti, nil
}

func (s *BoltStore) Set(token string) error {
	ti, err := newTokenInfo(token, SourceBolt)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(ti)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	db, err := s.open(false)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(sessionBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(tokenKey), payload)
	})
}

func (s *BoltStore) Remove() error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil
	}
	db, err := s.open(false)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(tokenKey))
	})
}
