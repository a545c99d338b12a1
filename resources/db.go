package resources

import (
	"encoding/json"

	"github.com/synapse-garden/sg-resources/store"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

// ResourceBucket is the database location where Resources are stored,
// keyed by name.
var ResourceBucket = store.Bucket("resources")

// Ref is a reference to a Resource in the database by its name.
type Ref string

var _ = store.LoadStoreDeleter(Ref(""))

// Store implements store.Storer on Ref.
func (r Ref) Store(what interface{}) func(*bolt.Tx) error {
	switch res := what.(type) {
	case Resource:
		what = &res
	case *Resource:
	default:
		return func(*bolt.Tx) error {
			return errors.Errorf("unexpected Store argument of type %T", what)
		}
	}
	return store.Marshal(ResourceBucket, what, []byte(r))
}

// Load implements store.Loader on Ref.  into is reset first, so fields
// left out of the stored Resource are zero.
func (r Ref) Load(into interface{}) func(*bolt.Tx) error {
	if res, ok := into.(*Resource); ok {
		return func(tx *bolt.Tx) error {
			*res = Resource{}
			return store.Unmarshal(ResourceBucket, res, []byte(r))(tx)
		}
	}

	return func(*bolt.Tx) error {
		return errors.Errorf("unexpected Load argument of type %T", into)
	}
}

// Delete implements store.Deleter on Ref.  It returns a
// *store.MissingError if there is no such Resource.
func (r Ref) Delete(tx *bolt.Tx) error {
	key := []byte(r)
	return store.Wrap(
		store.CheckExists(ResourceBucket, key),
		store.Delete(ResourceBucket, key),
	)(tx)
}

// Put stores r under its name, replacing any Resource already there.
func Put(r Resource) func(*bolt.Tx) error {
	return Ref(r.Name).Store(r)
}

// LoadAll appends every stored Resource to into, in name order.
func LoadAll(into *[]Resource) func(*bolt.Tx) error {
	return store.ForEach(ResourceBucket, func(k, v []byte) error {
		r := Resource{}
		if err := json.Unmarshal(v, &r); err != nil {
			return errors.Wrapf(err, "failed to unmarshal resource %#q", k)
		}
		*into = append(*into, r)
		return nil
	})
}

// Load builds a Storage from every Resource in the database.  See
// FromResources for onError.
func Load(db *bolt.DB, onError func(Resource, error)) (*Storage, error) {
	var rs []Resource
	if err := db.View(LoadAll(&rs)); err != nil {
		return nil, err
	}
	return FromResources(rs, onError), nil
}
