package rest

import (
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/synapse-garden/sg-resources/resources"
	mw "github.com/synapse-garden/sg-resources/rest/middleware"
	"github.com/synapse-garden/sg-resources/store"

	"github.com/boltdb/bolt"
	htr "github.com/julienschmidt/httprouter"
	"github.com/minio/blake2b-simd"
	"github.com/pkg/errors"
)

// Resources implements API.  It serves redirects and scriptlets from a
// Storage loaded from the DB, and lets the admin add and remove
// Resources.
type Resources struct {
	*bolt.DB

	mu      sync.RWMutex
	storage *resources.Storage
}

func logSkipped(r resources.Resource, err error) {
	log.Printf("skipping stored resource %#q: %s", r.Name, err)
}

// reload rebuilds the Storage from the DB.  The caller must hold the
// write lock, or be the only user of rs.
func (rs *Resources) reload() error {
	st, err := resources.Load(rs.DB, logSkipped)
	if err != nil {
		return errors.Wrap(err, "failed to load resources")
	}
	rs.storage = st
	return nil
}

// Bind implements API.Bind on Resources.  Unless rs already has a
// Storage, it loads one from the DB.  Stored Resources which are no
// longer valid are logged and skipped.
func (rs *Resources) Bind(r *htr.Router) error {
	if rs.DB == nil {
		return errors.New("nil Resources DB handle")
	}
	if rs.storage == nil {
		if err := rs.reload(); err != nil {
			return err
		}
	}

	r.GET("/resources", rs.List)
	r.GET("/resources/:name", rs.Get)
	r.POST("/resources", mw.AuthAdmin(rs.Create, rs.DB))
	r.DELETE("/resources/:name", mw.AuthAdmin(rs.Delete, rs.DB))
	r.GET("/redirect/:name", rs.Redirect)
	r.POST("/scriptlet", rs.Scriptlet)
	r.POST("/scripts", rs.Scripts)

	return nil
}

func writeJSON(w http.ResponseWriter, code int, what interface{}, desc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(what); err != nil {
		log.Printf("failed to write %s: %#v", desc, err)
	}
}

// List responds with the sorted names of all Resources.
func (rs *Resources) List(w http.ResponseWriter, r *http.Request, _ htr.Params) {
	rs.mu.RLock()
	names := rs.storage.Names()
	rs.mu.RUnlock()

	writeJSON(w, http.StatusOK, names, "resource names")
}

// Get responds with the Resource named or aliased by the "name" param.
func (rs *Resources) Get(w http.ResponseWriter, r *http.Request, ps htr.Params) {
	name := ps.ByName("name")

	rs.mu.RLock()
	res, ok := rs.storage.Get(name)
	rs.mu.RUnlock()

	if !ok {
		http.Error(w, errors.Errorf(
			"no such resource %#q", name,
		).Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, res, "resource")
}

// Redirect responds with the data: URI for the "name" param as a JSON
// string.  The ETag is a digest of the URI.
func (rs *Resources) Redirect(w http.ResponseWriter, r *http.Request, ps htr.Params) {
	name := ps.ByName("name")

	rs.mu.RLock()
	uri, ok := rs.storage.Redirect(name)
	rs.mu.RUnlock()

	if !ok {
		http.Error(w, errors.Errorf(
			"no redirect resource %#q", name,
		).Error(), http.StatusNotFound)
		return
	}

	sum := blake2b.Sum256([]byte(uri))
	etag := `"` + hex.EncodeToString(sum[:]) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeJSON(w, http.StatusOK, uri, "redirect")
}

func scriptletStatus(err error) int {
	switch {
	case resources.IsNoMatchingScriptlet(err):
		return http.StatusNotFound
	case resources.IsInsufficientPermissions(err):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// Scriptlet renders the resources.Injection in the request body and
// responds with the script as a JSON string.
func (rs *Resources) Scriptlet(w http.ResponseWriter, r *http.Request, _ htr.Params) {
	inj := new(resources.Injection)
	if err := json.NewDecoder(r.Body).Decode(inj); err != nil {
		http.Error(w, errors.Wrap(
			err, "failed to decode Injection",
		).Error(), http.StatusBadRequest)
		return
	}

	rs.mu.RLock()
	script, err := rs.storage.Scriptlet(inj.Args, inj.Permission)
	rs.mu.RUnlock()

	if err != nil {
		http.Error(w, err.Error(), scriptletStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, script, "scriptlet")
}

// Scripts renders every resources.Injection in the request body into
// one script, sent as JavaScript.
func (rs *Resources) Scripts(w http.ResponseWriter, r *http.Request, _ htr.Params) {
	var injs []resources.Injection
	if err := json.NewDecoder(r.Body).Decode(&injs); err != nil {
		http.Error(w, errors.Wrap(
			err, "failed to decode Injections",
		).Error(), http.StatusBadRequest)
		return
	}

	rs.mu.RLock()
	script := rs.storage.Scripts(injs)
	rs.mu.RUnlock()

	w.Header().Set("Content-Type", string(resources.ApplicationJavascript))
	w.Write([]byte(script))
}

// Create adds the Resource in the request body and stores it.
func (rs *Resources) Create(w http.ResponseWriter, r *http.Request, _ htr.Params) {
	res := new(resources.Resource)
	if err := json.NewDecoder(r.Body).Decode(res); err != nil {
		http.Error(w, errors.Wrap(
			err, "failed to decode Resource",
		).Error(), http.StatusBadRequest)
		return
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	switch err := rs.storage.Add(*res); {
	case resources.IsNameAlreadyAdded(err):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Add may have filled in a default MimeType.
	*res, _ = rs.storage.Get(res.Name)

	if err := rs.Update(store.Wrap(
		store.CheckNotExist(resources.ResourceBucket, []byte(res.Name)),
		resources.Put(*res),
	)); err != nil {
		if rErr := rs.reload(); rErr != nil {
			log.Printf("failed to reload resources: %#v", rErr)
		}
		if store.IsExists(err) {
			// An invalid Resource was stored under the name.
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		log.Printf("failed to store resource %#q: %#v", res.Name, err)
		http.Error(w, errors.Wrap(
			err, "failed to store resource",
		).Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, res, "created resource")
}

// Delete removes the Resource named or aliased by the "name" param.
func (rs *Resources) Delete(w http.ResponseWriter, r *http.Request, ps htr.Params) {
	name := ps.ByName("name")

	rs.mu.Lock()
	defer rs.mu.Unlock()

	if res, ok := rs.storage.Get(name); ok {
		name = res.Name
	}

	err := rs.Update(resources.Ref(name).Delete)
	switch {
	case store.IsMissing(err):
		http.Error(w, errors.Errorf(
			"no such resource %#q", name,
		).Error(), http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, errors.Wrap(
			err, "failed to delete resource",
		).Error(), http.StatusInternalServerError)
		return
	}

	if err := rs.reload(); err != nil {
		log.Printf("failed to reload resources after deleting %#q: %#v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
