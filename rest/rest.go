// Package rest serves a resource Storage over HTTP.
//
// Endpoints:
//
//   - GET    /source                  (source location and license)
//   - GET    /admin/verify            (admin)
//   - GET    /resources               (sorted resource names)
//   - GET    /resources/:name         (a Resource, by name or alias)
//   - POST   /resources               (admin; add a Resource)
//   - DELETE /resources/:name         (admin; remove a Resource)
//   - GET    /redirect/:name          (data: URI for a redirect)
//   - POST   /scriptlet               (render one Injection)
//   - POST   /scripts                 (render the Injections for a page)
package rest

import (
	"github.com/synapse-garden/sg-resources/admin"
	"github.com/synapse-garden/sg-resources/resources"
	"github.com/synapse-garden/sg-resources/store"

	"github.com/boltdb/bolt"
	htr "github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
)

// API binds some functions on an httprouter.Router.
type API interface {
	Bind(*htr.Router) error
}

// Bind prepares db and binds the source info, the admin API and the
// given APIs on a new Router.  If token is not nil, it replaces the
// stored admin key.
func Bind(
	db *bolt.DB,
	source SourceInfo,
	token admin.Token,
	apis ...API,
) (*htr.Router, error) {
	if err := db.Update(store.Prep(
		admin.AdminBucket,
		resources.ResourceBucket,
	)); err != nil {
		return nil, errors.Wrap(err, "failed to prep DB")
	}

	r := htr.New()
	for _, api := range append([]API{
		source,
		Admin{DB: db, Token: token},
	}, apis...) {
		if err := api.Bind(r); err != nil {
			return nil, errors.Wrapf(err, "failed to bind %T", api)
		}
	}

	return r, nil
}
