package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/synapse-garden/sg-resources/resources"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var permission uint8

var importCmd = &cobra.Command{
	Use:   "import <resources.json>",
	Short: "Add every resource in a JSON list of resources",
	Long: `Add every resource in a JSON list of resources.  Resources which
are invalid, or whose name or aliases are taken, are logged and skipped.
Use - to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := readResourceFile(args[0])
		if err != nil {
			return err
		}
		return withBackend(func(b Backend) error {
			n := Import(b, rs)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d resources\n", n, len(rs))
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the names of all resources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withBackend(func(b Backend) error {
			names, err := b.Names()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		})
	},
}

var redirectCmd = &cobra.Command{
	Use:   "redirect <name>",
	Short: "Print the data: URI of a redirect resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(func(b Backend) error {
			uri, err := b.Redirect(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), uri)
			return nil
		})
	},
}

var renderCmd = &cobra.Command{
	Use:   "render '<name>, <args>...'",
	Short: "Render one scriptlet argument list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(func(b Backend) error {
			script, err := b.Scriptlet(resources.Injection{
				Args:       args[0],
				Permission: resources.PermissionMask(permission),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), script)
			return nil
		})
	},
}

var scriptsCmd = &cobra.Command{
	Use:   "scripts '<name>, <args>...'...",
	Short: "Render the scriptlets for a page into one script",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		injs := make([]resources.Injection, len(args))
		for i, arg := range args {
			injs[i] = resources.Injection{
				Args:       arg,
				Permission: resources.PermissionMask(permission),
			}
		}
		return withBackend(func(b Backend) error {
			script, err := b.Scripts(injs)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), script)
			return nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a resource by name or alias",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(func(b Backend) error {
			return b.Remove(args[0])
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{renderCmd, scriptsCmd} {
		c.Flags().Uint8VarP(&permission, "permission", "p", 0,
			"the permission bits of the injecting rule")
	}

	AddCommand(importCmd, listCmd, redirectCmd, renderCmd, scriptsCmd, removeCmd)
}

// ReadResources decodes a JSON list of Resources.
func ReadResources(r io.Reader) ([]resources.Resource, error) {
	var rs []resources.Resource
	if err := json.NewDecoder(r).Decode(&rs); err != nil {
		return nil, errors.Wrap(err, "failed to decode resources")
	}
	return rs, nil
}

func readResourceFile(path string) ([]resources.Resource, error) {
	if path == "-" {
		return ReadResources(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %#q", path)
	}
	defer f.Close()
	return ReadResources(f)
}

// Import adds each of rs to b, in order, and returns how many were
// added.  Failures are logged.
func Import(b Backend, rs []resources.Resource) int {
	n := 0
	for _, r := range rs {
		if err := b.Add(r); err != nil {
			log.Printf("skipping resource %#q: %s", r.Name, err)
			continue
		}
		n++
	}
	return n
}
