// Package admin keeps the salted hash of the key which unlocks the
// resource management endpoints.
package admin

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/synapse-garden/sg-resources/store"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

var (
	AdminBucket = store.Bucket("admin")

	tokenKey = []byte("token")
	saltKey  = []byte("salt")
)

// Token is a raw admin key.
type Token []byte

func (t Token) String() string {
	return base64.StdEncoding.EncodeToString(t)
}

// ErrNotFound is returned when a Token does not match the stored key, or
// when there is no stored key.
type ErrNotFound Token

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("no such admin token %#q", Token(e).String())
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(ErrNotFound)
	return ok
}

// NewToken replaces the stored admin key with a freshly salted hash of
// token.
func NewToken(token Token) func(*bolt.Tx) error {
	salt := uuid.NewV4().Bytes()
	salted := hash(token, salt)

	return store.Wrap(
		store.Put(AdminBucket, tokenKey, salted),
		store.Put(AdminBucket, saltKey, salt),
	)
}

// CheckExists returns ErrNotFound if no admin key has been stored.
func CheckExists(tx *bolt.Tx) error {
	for _, key := range [][]byte{saltKey, tokenKey} {
		_, err := store.Get(AdminBucket, key)(tx)
		switch {
		case store.IsMissing(err):
			return ErrNotFound(nil)
		case err != nil:
			return err
		}
	}
	return nil
}

// CheckToken returns ErrNotFound unless token is the stored admin key.
func CheckToken(token Token) func(*bolt.Tx) error {
	return func(tx *bolt.Tx) error {
		salt, err := store.Get(AdminBucket, saltKey)(tx)
		if store.IsMissing(err) {
			return ErrNotFound(token)
		} else if err != nil {
			return err
		}
		adminToken, err := store.Get(AdminBucket, tokenKey)(tx)
		if store.IsMissing(err) {
			return ErrNotFound(token)
		} else if err != nil {
			return err
		}

		if !bytes.Equal(adminToken, hash(token, salt)) {
			return ErrNotFound(token)
		}
		return nil
	}
}

func hash(token Token, salt []byte) []byte {
	h := sha256.New()
	h.Write(token)
	h.Write(salt)
	return h.Sum(nil)
}
