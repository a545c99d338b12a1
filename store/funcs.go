package store

import (
	"encoding/json"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

func bucket(tx *bolt.Tx, b Bucket) (*bolt.Bucket, error) {
	bk := tx.Bucket(b)
	if bk == nil {
		return nil, ErrMissingBucket(b)
	}
	return bk, nil
}

func Put(b Bucket, key, val []byte) func(*bolt.Tx) error {
	return func(tx *bolt.Tx) error {
		bk, err := bucket(tx, b)
		if err != nil {
			return err
		}
		return bk.Put(key, val)
	}
}

// Get returns a copy of the value stored under key, or a *MissingError.
func Get(b Bucket, key []byte) func(*bolt.Tx) ([]byte, error) {
	return func(tx *bolt.Tx) ([]byte, error) {
		bk, err := bucket(tx, b)
		if err != nil {
			return nil, err
		}
		val := bk.Get(key)
		if val == nil {
			return nil, &MissingError{Key: key, Bucket: b}
		}
		return append([]byte(nil), val...), nil
	}
}

func Delete(b Bucket, key []byte) func(*bolt.Tx) error {
	return func(tx *bolt.Tx) error {
		bk, err := bucket(tx, b)
		if err != nil {
			return err
		}
		return bk.Delete(key)
	}
}

func CheckExists(b Bucket, key []byte) func(*bolt.Tx) error {
	return func(tx *bolt.Tx) error {
		_, err := Get(b, key)(tx)
		return err
	}
}

func CheckNotExist(b Bucket, key []byte) func(*bolt.Tx) error {
	return func(tx *bolt.Tx) error {
		bk, err := bucket(tx, b)
		if err != nil {
			return err
		}
		if bk.Get(key) != nil {
			return &ExistsError{Key: key, Bucket: b}
		}
		return nil
	}
}

// Marshal stores the JSON representation of what under key.
func Marshal(b Bucket, what interface{}, key []byte) func(*bolt.Tx) error {
	return func(tx *bolt.Tx) error {
		bs, err := json.Marshal(what)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal %T", what)
		}
		return Put(b, key, bs)(tx)
	}
}

// Unmarshal decodes the JSON stored under key into into.
func Unmarshal(b Bucket, into interface{}, key []byte) func(*bolt.Tx) error {
	return func(tx *bolt.Tx) error {
		bs, err := Get(b, key)(tx)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(bs, into); err != nil {
			return errors.Wrapf(err, "failed to unmarshal %#q", key)
		}
		return nil
	}
}

// ForEach calls fn on every key and value in the bucket, in key order.
// The slices are only valid for the life of the transaction.
func ForEach(b Bucket, fn func(k, v []byte) error) func(*bolt.Tx) error {
	return func(tx *bolt.Tx) error {
		bk, err := bucket(tx, b)
		if err != nil {
			return err
		}
		return bk.ForEach(fn)
	}
}
