package resources_test

import (
	"github.com/synapse-garden/sg-resources/resources"

	. "gopkg.in/check.v1"
)

type ScriptsSuite struct {
	storage *resources.Storage
}

var _ = Suite(&ScriptsSuite{})

func (s *ScriptsSuite) SetUpTest(c *C) {
	withDeps := func(r resources.Resource, deps ...string) resources.Resource {
		r.Dependencies = deps
		return r
	}
	withPerm := func(r resources.Resource, p resources.PermissionMask) resources.Resource {
		r.Permission = p
		return r
	}

	s.storage = resources.FromResources([]resources.Resource{
		template("set-constant.js", "set-constant.js, {{1}}, {{2}}"),
		template("abort.js", "abort({{1}})"),
		withPerm(template("trusted-only.js", "trustedOnly({{1}})"), 0x1),
		resources.Simple("helper.js", resources.ApplicationJavascript, "function helper() {}"),
		withDeps(resources.Simple("util.js", resources.ApplicationJavascript,
			"function util() { helper() }"), "helper.js"),
		withDeps(template("uses-util.js", "util({{1}})"), "util.js", "helper.js"),
		withDeps(template("uses-helper.js", "helper({{1}})"), "helper.js"),
		withDeps(template("broken.js", "broken()"), "missing.js"),
		withPerm(resources.Simple("secret.js", resources.ApplicationJavascript,
			"function secret() {}"), 0x2),
		withDeps(template("uses-secret.js", "secret()"), "secret.js"),
	}, func(r resources.Resource, err error) {
		c.Fatalf("failed to add %#q: %s", r.Name, err)
	})
}

func (s *ScriptsSuite) TestScripts(c *C) {
	for i, test := range []struct {
		given  []resources.Injection
		expect string
	}{{
		given:  nil,
		expect: "",
	}, {
		given: []resources.Injection{
			{Args: "set-constant.js, atob, trueFunc"},
		},
		expect: "try {\nset-constant.js, atob, trueFunc\n} catch ( e ) { }\n",
	}, {
		given: []resources.Injection{
			{Args: "abort, first"},
			{Args: "set-constant, a, b"},
			{Args: "abort, first"},
		},
		expect: "try {\nabort(first)\n} catch ( e ) { }\n" +
			"try {\nset-constant.js, a, b\n} catch ( e ) { }\n",
	}, {
		given: []resources.Injection{
			{Args: "nothing-here"},
			{Args: "abort, kept"},
			{Args: `abort, { "test": true }`},
		},
		expect: "try {\nabort(kept)\n} catch ( e ) { }\n",
	}} {
		c.Check(s.storage.Scripts(test.given), Equals, test.expect,
			Commentf("test %d", i))
	}
}

func (s *ScriptsSuite) TestScriptsMergesPermissions(c *C) {
	c.Check(s.storage.Scripts([]resources.Injection{
		{Args: "trusted-only, x", Permission: 0x0},
	}), Equals, "")

	c.Check(s.storage.Scripts([]resources.Injection{
		{Args: "trusted-only, x", Permission: 0x0},
		{Args: "trusted-only, x", Permission: 0x1},
	}), Equals, "try {\ntrustedOnly(x)\n} catch ( e ) { }\n")
}

func (s *ScriptsSuite) TestScriptsDependencies(c *C) {
	c.Check(s.storage.Scripts([]resources.Injection{
		{Args: "uses-util, 1"},
		{Args: "uses-helper, 2"},
	}), Equals, ""+
		"function util() { helper() }\n"+
		"function helper() {}\n"+
		"try {\nutil(1)\n} catch ( e ) { }\n"+
		"try {\nhelper(2)\n} catch ( e ) { }\n")

	c.Check(s.storage.Scripts([]resources.Injection{
		{Args: "uses-helper, 2"},
		{Args: "uses-util, 1"},
	}), Equals, ""+
		"function helper() {}\n"+
		"function util() { helper() }\n"+
		"try {\nhelper(2)\n} catch ( e ) { }\n"+
		"try {\nutil(1)\n} catch ( e ) { }\n")
}

func (s *ScriptsSuite) TestScriptsUnsatisfiedDependencies(c *C) {
	c.Check(s.storage.Scripts([]resources.Injection{
		{Args: "broken"},
		{Args: "abort, ok"},
	}), Equals, "try {\nabort(ok)\n} catch ( e ) { }\n")

	// The dependency needs more than the injection has.
	c.Check(s.storage.Scripts([]resources.Injection{
		{Args: "uses-secret", Permission: 0x1},
	}), Equals, "")

	c.Check(s.storage.Scripts([]resources.Injection{
		{Args: "uses-secret", Permission: 0x2},
	}), Equals, "function secret() {}\ntry {\nsecret()\n} catch ( e ) { }\n")
}
