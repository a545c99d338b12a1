package resources_test

import (
	"encoding/json"

	"github.com/synapse-garden/sg-resources/resources"

	"github.com/cristalhq/base64"
	"github.com/davecgh/go-spew/spew"
	. "gopkg.in/check.v1"
)

type StorageSuite struct {
	storage *resources.Storage
}

var _ = Suite(&StorageSuite{})

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func template(name, content string) resources.Resource {
	return resources.Resource{
		Name:    name,
		Kind:    resources.KindTemplate,
		Content: b64(content),
	}
}

func (s *StorageSuite) SetUpTest(c *C) {
	s.storage = resources.FromResources([]resources.Resource{
		resources.Simple("noopjs", resources.ApplicationJavascript, "(function() {})()"),
		{
			Name:    "1x1.gif",
			Aliases: []string{"1x1-transparent.gif", "1x1"},
			Kind:    resources.KindMime(resources.ImageGIF),
			Content: b64("GIF89a"),
		},
		template("hello.js", "console.log('Hello {{1}}, my name is {{2}}')"),
		template("quote.js", `var x = "{{1}}";`),
		template("dollar.js", "{{1}}"),
		resources.Simple("greet.js", resources.ApplicationJavascript,
			"function(a, b) { console.log(a, b) }"),
		resources.Simple("plain.js", resources.TextPlain, "not a script"),
		resources.Simple("data.json", resources.ApplicationJSON, "{}"),
		{
			Name:       "privileged.js",
			Kind:       resources.KindTemplate,
			Content:    b64("privileged({{1}})"),
			Permission: 0x3,
		},
		{
			Name:       "privileged.gif",
			Kind:       resources.KindMime(resources.ImageGIF),
			Content:    b64("GIF89a"),
			Permission: 0x1,
		},
		{
			Name:    "corrupt.js",
			Kind:    resources.KindTemplate,
			Content: "!!not base64!!",
		},
		{
			Name:    "notutf8.js",
			Kind:    resources.KindTemplate,
			Content: b64("\xff\xfe"),
		},
	}, func(r resources.Resource, err error) {
		c.Fatalf("failed to add %s: %s", spew.Sdump(r), err)
	})
}

func (s *StorageSuite) TestRedirect(c *C) {
	got, ok := s.storage.Redirect("noopjs")
	c.Check(ok, Equals, true)
	c.Check(got, Equals,
		"data:application/javascript;base64,"+b64("(function() {})()"))

	got, ok = s.storage.Redirect("1x1.gif")
	c.Check(ok, Equals, true)
	c.Check(got, Equals, "data:image/gif;base64,R0lGODlh")

	for _, alias := range []string{"1x1-transparent.gif", "1x1"} {
		byAlias, ok := s.storage.Redirect(alias)
		c.Check(ok, Equals, true)
		c.Check(byAlias, Equals, got)
	}

	for _, ident := range []string{
		"missing",
		// Templates can't stand in for a request.
		"hello.js",
		// Neither can JSON.
		"data.json",
		// Permissioned resources are only for scriptlets.
		"privileged.gif",
		"privileged.js",
	} {
		got, ok := s.storage.Redirect(ident)
		c.Check(ok, Equals, false, Commentf("ident %q", ident))
		c.Check(got, Equals, "")
	}
}

func (s *StorageSuite) TestAddNameCollision(c *C) {
	before := s.storage.Len()

	for i, r := range []resources.Resource{
		resources.Simple("noopjs", resources.ApplicationJavascript, ""),
		{
			Name:    "fresh",
			Aliases: []string{"noopjs"},
			Kind:    resources.KindMime(resources.ImageGIF),
		},
		resources.Simple("1x1", resources.ImageGIF, ""),
		{
			Name:    "fresh",
			Aliases: []string{"also-fresh", "1x1-transparent.gif"},
			Kind:    resources.KindMime(resources.ImageGIF),
		},
		{
			Name:    "fresh",
			Aliases: []string{"fresh"},
			Kind:    resources.KindMime(resources.ImageGIF),
		},
	} {
		err := s.storage.Add(r)
		c.Check(resources.IsNameAlreadyAdded(err), Equals, true,
			Commentf("test %d: %v", i, err))
	}

	// Nothing from a rejected resource is registered.
	for _, ident := range []string{"fresh", "also-fresh"} {
		_, ok := s.storage.Get(ident)
		c.Check(ok, Equals, false)
	}
	c.Check(s.storage.Len(), Equals, before)

	err := s.storage.Add(resources.Simple("fresh", resources.TextPlain, "hi"))
	c.Assert(err, IsNil)
	c.Check(s.storage.Len(), Equals, before+1)
	c.Check(s.storage.Add(resources.Simple("fresh", resources.TextPlain, "hi")),
		ErrorMatches, "resource name `fresh` already added")
}

func (s *StorageSuite) TestAddValidation(c *C) {
	st := resources.NewStorage()

	err := st.Add(resources.Simple("fn.js", resources.FnJavascript, "function() {}"))
	c.Check(resources.IsFnJavascriptNotSupported(err), Equals, true)

	withDeps := resources.Simple("dep.png", resources.ImagePNG, "png")
	withDeps.Dependencies = []string{"noopjs"}
	err = st.Add(withDeps)
	c.Check(resources.IsContentTypeDoesNotSupportDependencies(err), Equals, true)

	err = st.Add(resources.Resource{
		Name:    "bad64.js",
		Kind:    resources.KindMime(resources.ApplicationJavascript),
		Content: "!!!",
	})
	c.Check(resources.IsInvalidBase64Content(err), Equals, true)
	c.Check(err, ErrorMatches, "resource `bad64.js` content is not valid base64")

	err = st.Add(resources.Simple("bad.txt", resources.TextPlain, "\xff\xfe"))
	c.Check(resources.IsInvalidUTF8Content(err), Equals, true)

	c.Check(st.Len(), Equals, 0)

	// Binary types need not be UTF-8, and JS may have dependencies.
	c.Check(st.Add(resources.Simple("bin.png", resources.ImagePNG, "\xff\xfe")), IsNil)
	jsDeps := resources.Simple("lib.js", resources.ApplicationJavascript, "lib()")
	jsDeps.Dependencies = []string{"other.js"}
	c.Check(st.Add(jsDeps), IsNil)
	c.Check(st.Names(), DeepEquals, []string{"bin.png", "lib.js"})
}

func (s *StorageSuite) TestAddDefaultsMime(c *C) {
	var r resources.Resource
	c.Assert(json.Unmarshal([]byte(
		`{"name": "blob", "content": "`+b64("x")+`"}`,
	), &r), IsNil)
	c.Check(r.Kind, Equals, resources.Kind{})

	c.Assert(s.storage.Add(r), IsNil)
	got, ok := s.storage.Get("blob")
	c.Check(ok, Equals, true)
	c.Check(got.Kind, Equals, resources.KindMime(resources.OctetStream))

	uri, ok := s.storage.Redirect("blob")
	c.Check(ok, Equals, true)
	c.Check(uri, Equals, "data:application/octet-stream;base64,"+b64("x"))
}

func (s *StorageSuite) TestFromResourcesSkipsFailures(c *C) {
	var failed []string
	st := resources.FromResources([]resources.Resource{
		resources.Simple("a.js", resources.ApplicationJavascript, "a"),
		resources.Simple("a.js", resources.ApplicationJavascript, "again"),
		resources.Simple("b.js", resources.FnJavascript, "function() {}"),
		{Name: "c.js", Kind: resources.KindMime(resources.TextPlain), Content: "%%"},
		resources.Simple("d.js", resources.ApplicationJavascript, "d"),
	}, func(r resources.Resource, err error) {
		_, isAddErr := err.(resources.AddResourceError)
		c.Check(isAddErr, Equals, true)
		failed = append(failed, r.Name)
	})

	c.Check(st.Names(), DeepEquals, []string{"a.js", "d.js"})
	c.Check(failed, DeepEquals, []string{"a.js", "b.js", "c.js"})

	// A nil callback just drops them.
	st = resources.FromResources([]resources.Resource{
		resources.Simple("a.js", resources.ApplicationJavascript, "a"),
		resources.Simple("a.js", resources.ApplicationJavascript, "again"),
	}, nil)
	c.Check(st.Len(), Equals, 1)
}

func (s *StorageSuite) TestScriptletTemplate(c *C) {
	for i, test := range []struct {
		args   string
		expect string
	}{{
		args:   "hello.js, world, adblock-rust",
		expect: "console.log('Hello world, my name is adblock-rust')",
	}, {
		args:   "hello, world, adblock-rust",
		expect: "console.log('Hello world, my name is adblock-rust')",
	}, {
		args:   "hello, world",
		expect: "console.log('Hello world, my name is {{2}}')",
	}, {
		args:   "hello",
		expect: "console.log('Hello {{1}}, my name is {{2}}')",
	}, {
		args:   `quote, a"b`,
		expect: `var x = "a\"b";`,
	}, {
		args:   `quote, "line\nbreak \\ here"`,
		expect: `var x = "line\\nbreak \\\\ here";`,
	}, {
		args:   "dollar, $1 and $$",
		expect: "$1 and $$",
	}} {
		got, err := s.storage.Scriptlet(test.args, 0)
		c.Assert(err, IsNil, Commentf("test %d", i))
		c.Check(got, Equals, test.expect, Commentf("test %d", i))
	}
}

func (s *StorageSuite) TestScriptletFunction(c *C) {
	got, err := s.storage.Scriptlet(`greet, hello, "say \"hi\""`, 0)
	c.Assert(err, IsNil)
	c.Check(got, Equals,
		`(function(a, b) { console.log(a, b) })("hello", "say \"hi\"")`)

	got, err = s.storage.Scriptlet("greet.js", 0)
	c.Assert(err, IsNil)
	c.Check(got, Equals, `(function(a, b) { console.log(a, b) })()`)

	got, err = s.storage.Scriptlet(`greet, C:\dir`, 0)
	c.Assert(err, IsNil)
	c.Check(got, Equals, `(function(a, b) { console.log(a, b) })("C:\\dir")`)
}

func (s *StorageSuite) TestScriptletPermissions(c *C) {
	for _, perm := range []resources.PermissionMask{0, 1, 2, 4} {
		_, err := s.storage.Scriptlet("privileged, x", perm)
		c.Check(resources.IsInsufficientPermissions(err), Equals, true,
			Commentf("perm %d", perm))
	}
	for _, perm := range []resources.PermissionMask{3, 7, 0xff} {
		got, err := s.storage.Scriptlet("privileged, x", perm)
		c.Check(err, IsNil)
		c.Check(got, Equals, "privileged(x)")
	}

	// Resources with no requirement work with any mask.
	_, err := s.storage.Scriptlet("hello", 0xff)
	c.Check(err, IsNil)
}

func (s *StorageSuite) TestScriptletErrors(c *C) {
	for i, test := range []struct {
		args    string
		check   func(error) bool
		message string
	}{{
		args:    "",
		check:   resources.IsMissingScriptletName,
		message: "missing scriptlet name",
	}, {
		args:    "   ",
		check:   resources.IsMissingScriptletName,
		message: "missing scriptlet name",
	}, {
		args:    `hello, { "test": true }`,
		check:   resources.IsScriptletArgObjectSyntaxUnsupported,
		message: "object syntax for scriptlet arguments is not supported: .*",
	}, {
		args:    `nothing-here, { "test": true }`,
		check:   resources.IsScriptletArgObjectSyntaxUnsupported,
		message: "object syntax .*",
	}, {
		args:    "nothing-here, foo",
		check:   resources.IsNoMatchingScriptlet,
		message: "no such scriptlet `nothing-here.js`",
	}, {
		args:    "noopjs",
		check:   resources.IsNoMatchingScriptlet,
		message: "no such scriptlet `noopjs.js`",
	}, {
		args:    "plain.js",
		check:   resources.IsContentTypeNotInjectable,
		message: "resource `plain.js` cannot be injected as a scriptlet",
	}, {
		args:    "corrupt",
		check:   resources.IsCorruptScriptletContent,
		message: "scriptlet `corrupt.js` has corrupt content",
	}, {
		args:    "notutf8",
		check:   resources.IsCorruptScriptletContent,
		message: "scriptlet `notutf8.js` has corrupt content",
	}, {
		args:    `hello, "unterminated`,
		check:   resources.IsInvalidScriptletArgs,
		message: "invalid scriptlet arguments .*",
	}} {
		got, err := s.storage.Scriptlet(test.args, 0)
		c.Check(got, Equals, "")
		c.Check(test.check(err), Equals, true, Commentf("test %d: %v", i, err))
		c.Check(err, ErrorMatches, test.message)

		_, isScriptletErr := err.(resources.ScriptletResourceError)
		c.Check(isScriptletErr, Equals, true)
	}

	// Two arguments in braces are not object syntax.
	got, err := s.storage.Scriptlet("hello, {a}, {b}", 0)
	c.Check(err, IsNil)
	c.Check(got, Equals, "console.log('Hello {a}, my name is {b}')")
}
