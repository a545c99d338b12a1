package cmd

import (
	"bytes"
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"
)

type CommandSuite struct {
	tmpDir string
	dbPath string
}

var _ = Suite(&CommandSuite{})

func (s *CommandSuite) SetUpTest(c *C) {
	tmpDir, err := os.MkdirTemp("", "sg-resources-commands")
	c.Assert(err, IsNil)
	s.tmpDir = tmpDir
	s.dbPath = filepath.Join(tmpDir, "sgr.db")
}

func (s *CommandSuite) TearDownTest(c *C) {
	c.Assert(os.RemoveAll(s.tmpDir), IsNil)
}

func (s *CommandSuite) run(c *C, args ...string) (string, error) {
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(append([]string{"--db", s.dbPath, "--backend", ""}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func (s *CommandSuite) TestCommands(c *C) {
	file := filepath.Join(s.tmpDir, "resources.json")
	c.Assert(os.WriteFile(file, []byte(`[
		{"name": "noop.txt", "kind": {"mime": "text/plain"}, "content": ""},
		{"name": "set.js", "kind": "template", "content": "c2V0KHt7MX19LCB7ezJ9fSk=", "permission": 1}
	]`), 0600), IsNil)

	out, err := s.run(c, "import", file)
	c.Assert(err, IsNil)
	c.Check(out, Equals, "imported 2 of 2 resources\n")

	out, err = s.run(c, "list")
	c.Assert(err, IsNil)
	c.Check(out, Equals, "noop.txt\nset.js\n")

	out, err = s.run(c, "redirect", "noop.txt")
	c.Assert(err, IsNil)
	c.Check(out, Equals, "data:text/plain;base64,\n")

	_, err = s.run(c, "render", "--permission", "0", "set, a, b")
	c.Check(err, ErrorMatches, "insufficient permissions to inject `set.js`")

	out, err = s.run(c, "render", "--permission", "1", "set, a, b")
	c.Assert(err, IsNil)
	c.Check(out, Equals, "set(a, b)\n")

	out, err = s.run(c, "scripts", "-p", "1", "set, a, b", "set, c, d")
	c.Assert(err, IsNil)
	c.Check(out, Equals, ""+
		"try {\nset(a, b)\n} catch ( e ) { }\n"+
		"try {\nset(c, d)\n} catch ( e ) { }\n")

	_, err = s.run(c, "remove", "noop.txt")
	c.Assert(err, IsNil)
	out, err = s.run(c, "list")
	c.Assert(err, IsNil)
	c.Check(out, Equals, "set.js\n")
}
