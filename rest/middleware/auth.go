package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/synapse-garden/sg-resources/admin"

	"github.com/boltdb/bolt"
	"github.com/cristalhq/base64"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
)

type Header string

const AuthHeader Header = "Authorization"

// GetToken decodes the base64 token of the given kind from a header
// value of the form "<kind> <token>".
func GetToken(kind, from string) ([]byte, error) {
	substrings := strings.SplitN(from, kind+" ", 2)
	switch {
	case len(from) == 0:
		return nil, errors.Errorf(
			"no %q token provided in header %q",
			kind, AuthHeader)
	case len(substrings) != 2:
		return nil, errors.Errorf(
			"invalid %q token provided in header %q",
			kind, AuthHeader)
	case substrings[0] != "":
		return nil, errors.Errorf(
			"invalid %q token kind, use %q",
			AuthHeader, kind)
	}

	bs, err := base64.StdEncoding.DecodeString(substrings[1])
	if err != nil {
		return nil, errors.Wrapf(err,
			"failed to decode %q token", kind)
	}

	return bs, nil
}

// AuthAdmin only passes requests to h which carry the admin key as a
// Bearer token.
func AuthAdmin(h httprouter.Handle, db *bolt.DB) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token, err := GetToken(
			"Bearer",
			r.Header.Get(string(AuthHeader)),
		)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		err = db.View(admin.CheckToken(token))
		switch {
		case admin.IsNotFound(err):
			http.Error(w, "invalid admin token", http.StatusUnauthorized)
			return
		case err != nil:
			log.Printf("failed to check admin token: %#v", err)
			http.Error(w, errors.Wrap(
				err, "failed to check admin token",
			).Error(), http.StatusInternalServerError)
			return
		}

		h(w, r, ps)
	}
}
