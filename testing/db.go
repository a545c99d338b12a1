package testing

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

// TempDB returns a temporary DB and its temporary directory.
func TempDB(name string) (*bolt.DB, string, error) {
	d, err := ioutil.TempDir("", name)
	if err != nil {
		return nil, "", err
	}
	db, err := bolt.Open(
		filepath.Join(d, "test.db"),
		0600,
		nil,
	)
	if err != nil {
		return nil, "", err
	}

	return db, d, nil
}

// CleanupDB closes the given DB and removes its file.
func CleanupDB(db *bolt.DB) error {
	path := db.Path()
	if err := db.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}

// FindAll returns a copy of all keys and values in the given bucket, in
// key order.
func FindAll(tx *bolt.Tx, bucket []byte) ([][]byte, [][]byte, error) {
	b := tx.Bucket(bucket)
	if b == nil {
		return nil, nil, errors.Errorf("no such bucket %#q", bucket)
	}

	var resultKeys, resultValues [][]byte
	c := b.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		resultKeys = append(resultKeys, append([]byte(nil), k...))
		resultValues = append(resultValues, append([]byte(nil), v...))
	}

	return resultKeys, resultValues, nil
}
