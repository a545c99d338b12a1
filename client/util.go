package client

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"
)

var customClient = &http.Client{}

// SetCustomCert sets the internal HTTP Client's TLS config to accept
// the passed certificate bytes.  It is not safe to do this concurrently
// with HTTP requests in this package.
func SetCustomCert(cert []byte) error {
	roots := x509.NewCertPool()
	if !roots.AppendCertsFromPEM(cert) {
		return errors.New("failed to append cert")
	}

	customClient.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{RootCAs: roots},
	}

	return nil
}

// do makes the request and hands a successful response body to read.
// Any other response is returned as an error including its body.
func do(req *http.Request, read func(io.Reader) error, xfs ...RequestTransform) error {
	res, err := customClient.Do(transform(req, xfs...))
	if err != nil {
		return errors.Wrap(err, "failed to make HTTP request")
	}
	defer res.Body.Close()

	switch stat := res.StatusCode; stat {
	case http.StatusOK, http.StatusCreated:
		if read == nil {
			return nil
		}
		return read(res.Body)
	default:
		bs, err := ioutil.ReadAll(res.Body)
		if err != nil {
			return errors.Wrapf(err,
				"failed to read error body after HTTP status %d", stat)
		}

		return errors.Errorf("HTTP request failed with status %d (%s): %#q",
			stat, http.StatusText(stat), bytes.TrimSpace(bs),
		)
	}
}

func decodeInto(v interface{}) func(io.Reader) error {
	return func(r io.Reader) error {
		return json.NewDecoder(r).Decode(v)
	}
}

func newJSONRequest(method, resource string, body interface{}) (*http.Request, error) {
	var bs []byte
	if body != nil {
		var err error
		bs, err = json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal JSON body")
		}
	}
	req, err := http.NewRequest(method, resource, bytes.NewBuffer(bs))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create HTTP request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// DecodePost makes an HTTP POST to the given resource using a JSON
// marshaled request body from 'body', and applying xfs to the request.
// The JSON response is decoded into v.
func DecodePost(
	v interface{},
	resource string,
	body interface{},
	xfs ...RequestTransform,
) error {
	req, err := newJSONRequest(http.MethodPost, resource, body)
	if err != nil {
		return err
	}
	return do(req, decodeInto(v), xfs...)
}

// Post is like DecodePost, but copies the raw response body into w.
func Post(
	w io.Writer,
	resource string,
	body interface{},
	xfs ...RequestTransform,
) error {
	req, err := newJSONRequest(http.MethodPost, resource, body)
	if err != nil {
		return err
	}
	return do(req, func(r io.Reader) error {
		_, err := io.Copy(w, r)
		return err
	}, xfs...)
}

// DecodeGet unmarshals the given resource (after applying xfs) into v
// using an HTTP GET.
func DecodeGet(
	v interface{},
	resource string,
	xfs ...RequestTransform,
) error {
	req, err := http.NewRequest(http.MethodGet, resource, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create HTTP request")
	}
	return do(req, decodeInto(v), xfs...)
}

// Delete makes an HTTP DELETE request on the given resource using xfs.
func Delete(resource string, xfs ...RequestTransform) error {
	req, err := http.NewRequest(http.MethodDelete, resource, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create HTTP request")
	}
	return do(req, nil, xfs...)
}

// A RequestTransform can be applied to transform an *http.Request.
type RequestTransform func(*http.Request) *http.Request

func transform(req *http.Request, xfs ...RequestTransform) *http.Request {
	for _, xf := range xfs {
		req = xf(req)
	}
	return req
}

// AdminHeader adds a Bearer Authorization header using the given base64
// admin key.
func AdminHeader(apiKey string) RequestTransform {
	return func(req *http.Request) *http.Request {
		req.Header.Add("Authorization", "Bearer "+apiKey)
		return req
	}
}
