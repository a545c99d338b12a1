package testing

import (
	"bytes"
	"encoding/json"
	"net/http"
	htt "net/http/httptest"
	"reflect"
	"strings"

	"github.com/cristalhq/base64"
	"github.com/pkg/errors"
)

// Bearer returns the Authorization Header for the given Bearer token.
func Bearer(token []byte) http.Header {
	return http.Header{"Authorization": []string{
		"Bearer " + base64.StdEncoding.EncodeToString(token),
	}}
}

// ExpectResponse makes an HTTP Request on the given Handler, using the
// given URL and REST Method (i.e. PUT, POST, GET, etc.)  bodySend, if
// not nil, is sent as JSON.  The response is decoded as JSON into into
// and compared with bodyExpect.  If the response is not JSON, bodyExpect
// must be a string matching the body without its trailing newline.
func ExpectResponse(
	h http.Handler,
	url, method string,
	bodySend, into, bodyExpect interface{},
	code int,
	header http.Header,
) error {
	rdr := new(bytes.Buffer)
	if bodySend != nil {
		if err := json.NewEncoder(rdr).Encode(bodySend); err != nil {
			return err
		}
	}

	req := htt.NewRequest(method, url, rdr)
	if header != nil {
		req.Header = header
	}
	w := htt.NewRecorder()
	h.ServeHTTP(w, req)

	if c := w.Code; c != code {
		return errors.Errorf(
			"unexpected response code %d with body %#q",
			c, w.Body,
		)
	}

	bbs := w.Body.Bytes()
	err := json.Unmarshal(bbs, into)
	switch err.(type) {
	case *json.SyntaxError:
		tExp, ok := bodyExpect.(string)
		if !ok {
			return errors.Errorf(
				"unexpected response %#q for expected "+
					"type %T", bbs, bodyExpect,
			)
		}
		if got := strings.TrimSuffix(string(bbs), "\n"); tExp != got {
			return errors.Errorf("%#q expected, but got response %#q", tExp, got)
		}
		return nil
	case nil:
		if got := reflect.ValueOf(into).Elem().Interface(); !reflect.DeepEqual(got, bodyExpect) {
			return errors.Errorf(
				"expected response %#v, got response %#v",
				bodyExpect, got,
			)
		}
		return nil
	default:
		return errors.Wrap(err, "failed to unmarshal response body")
	}
}
