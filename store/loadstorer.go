package store

import "github.com/boltdb/bolt"

// Loader is a reference to an entity in the DB which can be Loaded into
// the given argument.  This would typically be implemented using a key.
// The *bolt.Tx may be a Read or a Write transaction.
type Loader interface {
	Load(interface{}) func(*bolt.Tx) error
}

// Storer is an entity which can store its representation using a bolt
// Write transaction.
type Storer interface {
	Store(interface{}) func(*bolt.Tx) error
}

// Deleter is an entity which can remove itself using a bolt Write
// transaction.
type Deleter interface {
	Delete(*bolt.Tx) error
}

// LoadStoreDeleter is composed of a Loader, a Storer and a Deleter.
type LoadStoreDeleter interface {
	Loader
	Storer
	Deleter
}
