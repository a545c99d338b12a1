package store_test

import (
	"errors"
	"fmt"

	"github.com/synapse-garden/sg-resources/store"

	. "gopkg.in/check.v1"
)

func (s *StoreSuite) TestKeyError(c *C) {
	k, b := []byte("key"), []byte("bucket")
	e := &store.ExistsError{
		Key:    k,
		Bucket: b,
	}
	m := &store.MissingError{
		Key:    k,
		Bucket: b,
	}

	c.Check(e, ErrorMatches, fmt.Sprintf("key %#q already exists in bucket %#q", k, b))
	c.Check(m, ErrorMatches, fmt.Sprintf("key %#q not in bucket %#q", k, b))
	c.Check(store.IsExists(e), Equals, true)
	c.Check(store.IsMissing(m), Equals, true)
	c.Check(store.IsMissing(errors.New("hello")), Equals, false)
	c.Check(store.IsMissing(nil), Equals, false)
}
