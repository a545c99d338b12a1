package store

import (
	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

type Version string

const (
	VerNone = Version("")
	Ver010  = Version("0.1.0")

	VerCurrent = Ver010
)

var (
	VersionBucket = Bucket("version")

	migrations = map[Version]map[Version]func(*bolt.Tx) error{
		VerNone: {Ver010: PutV(Ver010)},
	}
)

// Bucket is an identifier for a package constant to define the BoltDB
// bucket where a resource is stored.
type Bucket []byte

// Prep migrates the DB to the current Version and creates the given
// Buckets if they do not exist yet.
func Prep(buckets ...Bucket) func(*bolt.Tx) error {
	return Wrap(
		Migrate(VerCurrent),
		SetupBuckets(buckets...),
	)
}

func SetupBuckets(buckets ...Bucket) func(*bolt.Tx) error {
	return func(tx *bolt.Tx) error {
		for _, bucket := range buckets {
			_, err := tx.CreateBucketIfNotExists(bucket)
			if err != nil {
				return err
			}
		}

		return nil
	}
}

// Migrate brings the DB from whatever Version it was left at to v.
func Migrate(v Version) func(*bolt.Tx) error {
	return func(tx *bolt.Tx) error {
		b := tx.Bucket(VersionBucket)
		if b != nil {
			oldVer := Version(b.Get([]byte("version")))
			if v != oldVer {
				return MigrateFrom(tx, oldVer, v)
			}
			return nil
		}
		return MigrateFrom(tx, VerNone, v)
	}
}

func MigrateFrom(tx *bolt.Tx, from, to Version) error {
	if from == to {
		return nil
	}
	mTo, ok := migrations[from][to]
	if !ok {
		return errors.Errorf("no migration defined from version %#q to %#q", from, to)
	}
	return mTo(tx)
}

func PutV(v Version) func(*bolt.Tx) error {
	return Wrap(
		func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(VersionBucket)
			return err
		},
		Put(VersionBucket, []byte("version"), []byte(v)),
	)
}

// Wrap runs each of the given transaction funcs in order, stopping at
// the first error.
func Wrap(apps ...func(*bolt.Tx) error) func(*bolt.Tx) error {
	return func(tx *bolt.Tx) error {
		for _, app := range apps {
			if err := app(tx); err != nil {
				return err
			}
		}
		return nil
	}
}
