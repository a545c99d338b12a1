package rest

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/synapse-garden/sg-resources/admin"
	mw "github.com/synapse-garden/sg-resources/rest/middleware"

	"github.com/boltdb/bolt"
	htr "github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// Admin implements API.  It makes sure an admin key exists, and lets
// clients check theirs.
type Admin struct {
	*bolt.DB
	Token admin.Token
}

// Bind implements API.Bind on Admin.  If a.Token is set, it becomes the
// admin key.  Otherwise, if there is no admin key yet, a new one is
// made and logged.
func (a Admin) Bind(r *htr.Router) error {
	if a.DB == nil {
		return errors.New("nil Admin DB handle")
	}

	if a.Token != nil {
		if err := a.Update(admin.NewToken(a.Token)); err != nil {
			return errors.Wrap(err, "failed to store admin key")
		}
	} else if err := a.View(admin.CheckExists); admin.IsNotFound(err) {
		newToken := admin.Token(uuid.NewV4().Bytes())
		if err := a.Update(admin.NewToken(newToken)); err != nil {
			return errors.Wrap(err, "failed to store new admin key")
		}
		log.Printf("new admin key generated: %#q", newToken)
	} else if err != nil {
		return errors.Wrap(err, "failed to check for existing admin key")
	}

	r.GET("/admin/verify", mw.AuthAdmin(Verify, a.DB))

	return nil
}

// Verify responds with true.  It is only reachable with a valid admin key.
func Verify(w http.ResponseWriter, r *http.Request, _ htr.Params) {
	if err := json.NewEncoder(w).Encode(true); err != nil {
		http.Error(w, "failed to write response", http.StatusInternalServerError)
	}
}
