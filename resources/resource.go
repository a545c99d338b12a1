// Package resources stores the named resources which filter rules can
// refer to: redirect payloads, served in place of a blocked request as
// a data: URI, and scriptlets, rendered into injectable JavaScript.
package resources

import (
	"encoding/json"
	"path"
	"strings"

	"github.com/cristalhq/base64"
	"github.com/pkg/errors"
)

// MimeType is the content type of a Resource.
type MimeType string

const (
	ApplicationJavascript MimeType = "application/javascript"
	// FnJavascript marks a bare function definition.  It is recognized
	// so it can be rejected.
	FnJavascript    MimeType = "fn/javascript"
	ApplicationJSON MimeType = "application/json"
	TextHTML        MimeType = "text/html"
	TextPlain       MimeType = "text/plain"
	TextCSS         MimeType = "text/css"
	TextXML         MimeType = "text/xml"
	ImageGIF        MimeType = "image/gif"
	ImagePNG        MimeType = "image/png"
	ImageJPEG       MimeType = "image/jpeg"
	ImageSVG        MimeType = "image/svg+xml"
	AudioMP3        MimeType = "audio/mp3"
	VideoMP4        MimeType = "video/mp4"
	OctetStream     MimeType = "application/octet-stream"
)

var knownMimeTypes = map[MimeType]bool{
	ApplicationJavascript: true,
	FnJavascript:          true,
	ApplicationJSON:       true,
	TextHTML:              true,
	TextPlain:             true,
	TextCSS:               true,
	TextXML:               true,
	ImageGIF:              true,
	ImagePNG:              true,
	ImageJPEG:             true,
	ImageSVG:              true,
	AudioMP3:              true,
	VideoMP4:              true,
	OctetStream:           true,
}

var mimeExtensions = map[string]MimeType{
	"js":   ApplicationJavascript,
	"json": ApplicationJSON,
	"html": TextHTML,
	"txt":  TextPlain,
	"css":  TextCSS,
	"xml":  TextXML,
	"gif":  ImageGIF,
	"png":  ImagePNG,
	"jpg":  ImageJPEG,
	"jpeg": ImageJPEG,
	"svg":  ImageSVG,
	"mp3":  AudioMP3,
	"mp4":  VideoMP4,
}

// ParseMimeType returns the MimeType named by s, or OctetStream if it
// is not one of the known types.
func ParseMimeType(s string) MimeType {
	if m := MimeType(s); knownMimeTypes[m] {
		return m
	}
	return OctetStream
}

// MimeFromExtension guesses the MimeType of a resource from the file
// extension of its name, e.g. "noopjs.js" or "1x1.gif".
func MimeFromExtension(name string) MimeType {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if m, ok := mimeExtensions[ext]; ok {
		return m
	}
	return OctetStream
}

// IsTextual is true for types whose content must be valid UTF-8.
func (m MimeType) IsTextual() bool {
	switch m {
	case ApplicationJavascript, FnJavascript, ApplicationJSON,
		TextHTML, TextPlain, TextCSS, TextXML:
		return true
	}
	return false
}

// SupportsDependencies is true for types which may require other
// resources to be injected along with them.
func (m MimeType) SupportsDependencies() bool {
	return m == ApplicationJavascript || m == FnJavascript
}

// SupportsRedirect is true for types which may be served in place of a
// blocked request.
func (m MimeType) SupportsRedirect() bool {
	return m != ApplicationJSON && m != FnJavascript
}

// Kind tells whether a Resource is a `{{N}}` template or plain content
// of some MimeType.
type Kind struct {
	Template bool
	Mime     MimeType
}

// KindTemplate is the Kind of placeholder templates.
var KindTemplate = Kind{Template: true}

// KindMime returns the Kind of plain content of type m.
func KindMime(m MimeType) Kind { return Kind{Mime: m} }

func (k Kind) SupportsRedirect() bool {
	return !k.Template && k.Mime.SupportsRedirect()
}

func (k Kind) SupportsScriptletInjection() bool {
	return k.Template || k.Mime == ApplicationJavascript
}

func (k Kind) SupportsDependencies() bool {
	return k.Template || k.Mime.SupportsDependencies()
}

func (k Kind) String() string {
	if k.Template {
		return "template"
	}
	return string(k.Mime)
}

type mimeKind struct {
	Mime string `json:"mime"`
}

// MarshalJSON implements json.Marshaler on Kind.  A template is the
// string "template", and anything else is an object such as
// {"mime": "image/gif"}.
func (k Kind) MarshalJSON() ([]byte, error) {
	if k.Template {
		return json.Marshal("template")
	}
	return json.Marshal(mimeKind{string(k.Mime)})
}

// UnmarshalJSON implements json.Unmarshaler on Kind.
func (k *Kind) UnmarshalJSON(from []byte) error {
	var s string
	if err := json.Unmarshal(from, &s); err == nil {
		if s != "template" {
			return errors.Errorf("unknown resource kind %#q", s)
		}
		*k = KindTemplate
		return nil
	}

	mk := new(mimeKind)
	if err := json.Unmarshal(from, mk); err != nil {
		return errors.Wrap(err, "invalid resource kind")
	}
	*k = KindMime(ParseMimeType(mk.Mime))
	return nil
}

// PermissionMask is a set of capability bits.  A filter rule may only
// inject a resource if it holds every bit the resource requires.
type PermissionMask uint8

// IsDefault is true if the mask requires nothing.
func (p PermissionMask) IsDefault() bool { return p == 0 }

// IsInjectableBy is true if filter holds every bit p requires.
func (p PermissionMask) IsInjectableBy(filter PermissionMask) bool {
	return p&^filter == 0
}

// Resource is a named blob which filter rules can redirect to or
// inject.  Content is base64-encoded.
type Resource struct {
	Name         string         `json:"name"`
	Aliases      []string       `json:"aliases,omitempty"`
	Kind         Kind           `json:"kind"`
	Content      string         `json:"content"`
	Dependencies []string       `json:"dependencies,omitempty"`
	Permission   PermissionMask `json:"permission,omitempty"`
}

// Simple returns a Resource of the given MimeType with no aliases,
// dependencies or permissions, encoding content as base64.
func Simple(name string, mime MimeType, content string) Resource {
	return Resource{
		Name:    name,
		Kind:    KindMime(mime),
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
	}
}

// Identifiers returns the Resource's name followed by its aliases.
func (r Resource) Identifiers() []string {
	return append([]string{r.Name}, r.Aliases...)
}
