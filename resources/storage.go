package resources

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/synapse-garden/sg-resources/args"
	"github.com/synapse-garden/sg-resources/text"

	"github.com/cristalhq/base64"
	"github.com/pkg/errors"
)

var errNotUTF8 = errors.New("content is not valid UTF-8")

// Storage holds Resources by name and by alias.
//
// Storage does no locking of its own.  Lookups may run concurrently
// with each other, but not with Add.
type Storage struct {
	resources map[string]Resource
	aliases   map[string]string
}

// NewStorage returns an empty Storage.
func NewStorage() *Storage {
	return &Storage{
		resources: make(map[string]Resource),
		aliases:   make(map[string]string),
	}
}

// FromResources builds a Storage from rs, in order.  A Resource which
// fails to be added is left out, and onError (if not nil) is called
// with it and the reason.
func FromResources(rs []Resource, onError func(Resource, error)) *Storage {
	s := NewStorage()
	for _, r := range rs {
		if err := s.Add(r); err != nil && onError != nil {
			onError(r, err)
		}
	}
	return s
}

// Add validates r and adds it under its name and aliases.  Nothing is
// added unless every identifier of r is free.  Any returned error is an
// AddResourceError.  A non-template Resource with no MimeType is added
// as OctetStream.
func (s *Storage) Add(r Resource) error {
	if !r.Kind.Template {
		if r.Kind.Mime == "" {
			r.Kind.Mime = OctetStream
		}
		mime := r.Kind.Mime
		if mime == FnJavascript {
			return ErrFnJavascriptNotSupported(r.Name)
		}
		if len(r.Dependencies) > 0 && !mime.SupportsDependencies() {
			return ErrContentTypeDoesNotSupportDependencies(r.Name)
		}

		content, err := base64.StdEncoding.DecodeString(r.Content)
		if err != nil {
			return ErrInvalidBase64Content(r.Name)
		}
		if mime.IsTextual() && !utf8.Valid(content) {
			return ErrInvalidUTF8Content(r.Name)
		}
	}

	seen := make(map[string]bool, len(r.Aliases)+1)
	for _, ident := range r.Identifiers() {
		if seen[ident] || s.has(ident) {
			return ErrNameAlreadyAdded(ident)
		}
		seen[ident] = true
	}

	for _, alias := range r.Aliases {
		s.aliases[alias] = r.Name
	}
	s.resources[r.Name] = r

	return nil
}

func (s *Storage) has(ident string) bool {
	_, isName := s.resources[ident]
	_, isAlias := s.aliases[ident]
	return isName || isAlias
}

// Get finds a Resource by name or alias.
func (s *Storage) Get(ident string) (Resource, bool) {
	if r, ok := s.resources[ident]; ok {
		return r, true
	}
	if name, ok := s.aliases[ident]; ok {
		r, ok := s.resources[name]
		return r, ok
	}
	return Resource{}, false
}

// Names returns the sorted canonical names of all Resources.
func (s *Storage) Names() []string {
	names := make([]string, 0, len(s.resources))
	for name := range s.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of Resources, not counting aliases.
func (s *Storage) Len() int { return len(s.resources) }

// Redirect returns a data: URI for the Resource named or aliased by
// ident.  Only resources with the default permission and a content type
// which can stand in for a request are eligible.
func (s *Storage) Redirect(ident string) (string, bool) {
	r, ok := s.Get(ident)
	switch {
	case !ok,
		!r.Permission.IsDefault(),
		!r.Kind.SupportsRedirect():
		return "", false
	}

	return "data:" + string(r.Kind.Mime) + ";base64," + r.Content, true
}

// Scriptlet renders the `+js(...)` argument list rawArgs into a script,
// for a rule holding the permission bits in perm.  The first argument
// names the scriptlet; a missing ".js" suffix is implied.  Any returned
// error is a ScriptletResourceError.
func (s *Storage) Scriptlet(rawArgs string, perm PermissionMask) (string, error) {
	script, _, err := s.scriptlet(rawArgs, perm)
	return script, err
}

func (s *Storage) scriptlet(rawArgs string, perm PermissionMask) (string, Resource, error) {
	parsed, ok := args.Parse(rawArgs)
	switch {
	case !ok:
		return "", Resource{}, ErrInvalidScriptletArgs(rawArgs)
	case len(parsed) == 0:
		return "", Resource{}, ErrMissingScriptletName{}
	}

	name, callArgs := parsed[0], parsed[1:]
	if !strings.HasSuffix(name, ".js") {
		name += ".js"
	}

	if len(callArgs) == 1 {
		if a := callArgs[0]; strings.HasPrefix(a, "{") && strings.HasSuffix(a, "}") {
			return "", Resource{}, ErrScriptletArgObjectSyntaxUnsupported(a)
		}
	}

	r, ok := s.Get(name)
	switch {
	case !ok:
		return "", Resource{}, ErrNoMatchingScriptlet(name)
	case !r.Permission.IsInjectableBy(perm):
		return "", Resource{}, ErrInsufficientPermissions(name)
	case !r.Kind.SupportsScriptletInjection():
		return "", Resource{}, ErrContentTypeNotInjectable(name)
	}

	tpl, err := decodeText(r.Content)
	if err != nil {
		return "", Resource{}, ErrCorruptScriptletContent(name)
	}

	if strings.HasPrefix(tpl, "function") {
		quoted := make([]string, len(callArgs))
		for i, a := range callArgs {
			quoted[i] = text.EscapeJS(a, true)
		}
		return "(" + tpl + ")(" + strings.Join(quoted, ", ") + ")", r, nil
	}

	escaped := make([]string, len(callArgs))
	for i, a := range callArgs {
		escaped[i] = text.EscapeJS(a, false)
	}
	return text.Patch(tpl, escaped), r, nil
}

func decodeText(content string) (string, error) {
	bs, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bs) {
		return "", errNotUTF8
	}
	return string(bs), nil
}
