package cmd

import (
	"github.com/synapse-garden/sg-resources/client"
	"github.com/synapse-garden/sg-resources/resources"
	"github.com/synapse-garden/sg-resources/store"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

// Backend is where commands read and write Resources.
type Backend interface {
	Names() ([]string, error)
	Redirect(name string) (string, error)
	Scriptlet(resources.Injection) (string, error)
	Scripts([]resources.Injection) (string, error)
	Add(resources.Resource) error
	Remove(name string) error
}

var (
	_ = Backend(Local{})
	_ = Backend(Remote{})
)

// Local is a Backend on a bolt DB.  Every call loads a fresh Storage.
type Local struct{ *bolt.DB }

// OpenLocal opens the bolt DB at path and prepares it for Resources.
func OpenLocal(path string) (Local, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return Local{}, errors.Wrapf(err, "unable to open Bolt database %#q", path)
	}
	if err := db.Update(store.Prep(resources.ResourceBucket)); err != nil {
		db.Close()
		return Local{}, errors.Wrap(err, "failed to prep DB")
	}
	return Local{db}, nil
}

func (l Local) storage() (*resources.Storage, error) {
	return resources.Load(l.DB, nil)
}

func (l Local) Names() ([]string, error) {
	st, err := l.storage()
	if err != nil {
		return nil, err
	}
	return st.Names(), nil
}

func (l Local) Redirect(name string) (string, error) {
	st, err := l.storage()
	if err != nil {
		return "", err
	}
	uri, ok := st.Redirect(name)
	if !ok {
		return "", errors.Errorf("no redirect resource %#q", name)
	}
	return uri, nil
}

func (l Local) Scriptlet(inj resources.Injection) (string, error) {
	st, err := l.storage()
	if err != nil {
		return "", err
	}
	return st.Scriptlet(inj.Args, inj.Permission)
}

func (l Local) Scripts(injs []resources.Injection) (string, error) {
	st, err := l.storage()
	if err != nil {
		return "", err
	}
	return st.Scripts(injs), nil
}

// Add validates r against the stored Resources, then stores it.
func (l Local) Add(r resources.Resource) error {
	st, err := l.storage()
	if err != nil {
		return err
	}
	if err := st.Add(r); err != nil {
		return err
	}
	return l.Update(store.Wrap(
		store.CheckNotExist(resources.ResourceBucket, []byte(r.Name)),
		resources.Put(r),
	))
}

// Remove deletes the Resource named or aliased by name.
func (l Local) Remove(name string) error {
	st, err := l.storage()
	if err != nil {
		return err
	}
	if r, ok := st.Get(name); ok {
		name = r.Name
	}
	return l.Update(resources.Ref(name).Delete)
}

// Remote is a Backend on a resource server.
type Remote struct{ *client.Client }

func (r Remote) Names() ([]string, error) {
	var names []string
	if err := r.Client.Names(&names); err != nil {
		return nil, err
	}
	return names, nil
}
