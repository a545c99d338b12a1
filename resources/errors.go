package resources

import (
	"fmt"

	"github.com/pkg/errors"
)

// AddResourceError is returned by Storage.Add.  It is implemented only
// by the Err types in this package.
type AddResourceError interface {
	error
	addResourceError()
}

// ScriptletResourceError is returned by Storage.Scriptlet.  It is
// implemented only by the Err types in this package.
type ScriptletResourceError interface {
	error
	scriptletResourceError()
}

type ErrInvalidBase64Content string

func (e ErrInvalidBase64Content) Error() string {
	return fmt.Sprintf("resource %#q content is not valid base64", string(e))
}

type ErrInvalidUTF8Content string

func (e ErrInvalidUTF8Content) Error() string {
	return fmt.Sprintf("resource %#q content is not valid UTF-8", string(e))
}

type ErrNameAlreadyAdded string

func (e ErrNameAlreadyAdded) Error() string {
	return fmt.Sprintf("resource name %#q already added", string(e))
}

type ErrFnJavascriptNotSupported string

func (e ErrFnJavascriptNotSupported) Error() string {
	return fmt.Sprintf("resource %#q: %s resources are not supported",
		string(e), FnJavascript)
}

type ErrContentTypeDoesNotSupportDependencies string

func (e ErrContentTypeDoesNotSupportDependencies) Error() string {
	return fmt.Sprintf("resource %#q: content type does not support dependencies", string(e))
}

func (ErrInvalidBase64Content) addResourceError()                  {}
func (ErrInvalidUTF8Content) addResourceError()                    {}
func (ErrNameAlreadyAdded) addResourceError()                      {}
func (ErrFnJavascriptNotSupported) addResourceError()              {}
func (ErrContentTypeDoesNotSupportDependencies) addResourceError() {}

func IsInvalidBase64Content(err error) bool {
	_, ok := errors.Cause(err).(ErrInvalidBase64Content)
	return ok
}

func IsInvalidUTF8Content(err error) bool {
	_, ok := errors.Cause(err).(ErrInvalidUTF8Content)
	return ok
}

func IsNameAlreadyAdded(err error) bool {
	_, ok := errors.Cause(err).(ErrNameAlreadyAdded)
	return ok
}

func IsFnJavascriptNotSupported(err error) bool {
	_, ok := errors.Cause(err).(ErrFnJavascriptNotSupported)
	return ok
}

func IsContentTypeDoesNotSupportDependencies(err error) bool {
	_, ok := errors.Cause(err).(ErrContentTypeDoesNotSupportDependencies)
	return ok
}

type ErrNoMatchingScriptlet string

func (e ErrNoMatchingScriptlet) Error() string {
	return fmt.Sprintf("no such scriptlet %#q", string(e))
}

type ErrMissingScriptletName struct{}

func (ErrMissingScriptletName) Error() string { return "missing scriptlet name" }

type ErrScriptletArgObjectSyntaxUnsupported string

func (e ErrScriptletArgObjectSyntaxUnsupported) Error() string {
	return fmt.Sprintf("object syntax for scriptlet arguments is not supported: %#q", string(e))
}

type ErrCorruptScriptletContent string

func (e ErrCorruptScriptletContent) Error() string {
	return fmt.Sprintf("scriptlet %#q has corrupt content", string(e))
}

type ErrContentTypeNotInjectable string

func (e ErrContentTypeNotInjectable) Error() string {
	return fmt.Sprintf("resource %#q cannot be injected as a scriptlet", string(e))
}

type ErrInsufficientPermissions string

func (e ErrInsufficientPermissions) Error() string {
	return fmt.Sprintf("insufficient permissions to inject %#q", string(e))
}

// ErrInvalidScriptletArgs is returned for an argument list which could
// not be parsed.  Rule parsers are expected to reject those before they
// reach a Storage.
type ErrInvalidScriptletArgs string

func (e ErrInvalidScriptletArgs) Error() string {
	return fmt.Sprintf("invalid scriptlet arguments %#q", string(e))
}

func (ErrNoMatchingScriptlet) scriptletResourceError()                 {}
func (ErrMissingScriptletName) scriptletResourceError()                {}
func (ErrScriptletArgObjectSyntaxUnsupported) scriptletResourceError() {}
func (ErrCorruptScriptletContent) scriptletResourceError()             {}
func (ErrContentTypeNotInjectable) scriptletResourceError()            {}
func (ErrInsufficientPermissions) scriptletResourceError()             {}
func (ErrInvalidScriptletArgs) scriptletResourceError()                {}

func IsNoMatchingScriptlet(err error) bool {
	_, ok := errors.Cause(err).(ErrNoMatchingScriptlet)
	return ok
}

func IsMissingScriptletName(err error) bool {
	_, ok := errors.Cause(err).(ErrMissingScriptletName)
	return ok
}

func IsScriptletArgObjectSyntaxUnsupported(err error) bool {
	_, ok := errors.Cause(err).(ErrScriptletArgObjectSyntaxUnsupported)
	return ok
}

func IsCorruptScriptletContent(err error) bool {
	_, ok := errors.Cause(err).(ErrCorruptScriptletContent)
	return ok
}

func IsContentTypeNotInjectable(err error) bool {
	_, ok := errors.Cause(err).(ErrContentTypeNotInjectable)
	return ok
}

func IsInsufficientPermissions(err error) bool {
	_, ok := errors.Cause(err).(ErrInsufficientPermissions)
	return ok
}

func IsInvalidScriptletArgs(err error) bool {
	_, ok := errors.Cause(err).(ErrInvalidScriptletArgs)
	return ok
}
