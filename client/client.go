// Package client talks to a resource server over its REST API.
package client

import (
	"bytes"
	"errors"
	"net/url"

	"github.com/synapse-garden/sg-resources/resources"
	"github.com/synapse-garden/sg-resources/rest"
)

// Client is a client for a resource server.
type Client struct {
	// APIKey is the base64 admin key, needed to add or remove
	// Resources.
	APIKey  string
	Backend *url.URL
}

func (c *Client) url(path string) string {
	return c.Backend.String() + path
}

func (c *Client) admin() (RequestTransform, error) {
	if c.APIKey == "" {
		return nil, errors.New("client must have a valid admin API key")
	}
	return AdminHeader(c.APIKey), nil
}

// Info sets the given info based on the backend's /source.
func (c *Client) Info(i *rest.SourceInfo) error {
	return DecodeGet(i, c.url("/source"))
}

// VerifyAdmin checks that key is a valid admin key.
func (c *Client) VerifyAdmin(key string) error {
	var ok bool
	return DecodeGet(&ok, c.url("/admin/verify"), AdminHeader(key))
}

// Names gets the sorted names of all Resources.
func (c *Client) Names(into *[]string) error {
	return DecodeGet(into, c.url("/resources"))
}

// Get gets a Resource by name or alias.
func (c *Client) Get(into *resources.Resource, name string) error {
	return DecodeGet(into, c.url("/resources/"+url.PathEscape(name)))
}

// Redirect gets the data: URI of a redirect Resource.
func (c *Client) Redirect(name string) (string, error) {
	var uri string
	if err := DecodeGet(&uri, c.url("/redirect/"+url.PathEscape(name))); err != nil {
		return "", err
	}
	return uri, nil
}

// Scriptlet renders one Injection.
func (c *Client) Scriptlet(inj resources.Injection) (string, error) {
	var script string
	if err := DecodePost(&script, c.url("/scriptlet"), inj); err != nil {
		return "", err
	}
	return script, nil
}

// Scripts renders the Injections for a page into one script.
func (c *Client) Scripts(injs []resources.Injection) (string, error) {
	buf := new(bytes.Buffer)
	if err := Post(buf, c.url("/scripts"), injs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Add adds and stores a Resource using the admin key.
func (c *Client) Add(r resources.Resource) error {
	xf, err := c.admin()
	if err != nil {
		return err
	}
	return DecodePost(new(resources.Resource), c.url("/resources"), r, xf)
}

// Remove removes a Resource by name or alias using the admin key.
func (c *Client) Remove(name string) error {
	xf, err := c.admin()
	if err != nil {
		return err
	}
	return Delete(c.url("/resources/"+url.PathEscape(name)), xf)
}
