// Package cmd holds the sgr command line: a resource server, and tools
// to manage and render its Resources.
package cmd

import (
	"fmt"
	"io/ioutil"
	"log"
	"net/url"
	"os"

	"github.com/synapse-garden/sg-resources/client"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Environment variables which set flag defaults.  They may also be set
// in a .env file in the working directory.
const (
	EnvDB       = "SGR_DB"
	EnvAddr     = "SGR_ADDR"
	EnvPort     = "SGR_PORT"
	EnvBackend  = "SGR_BACKEND"
	EnvAdminKey = "SGR_ADMIN_KEY"
)

var (
	dbPath      string
	backendURL  string
	adminKey    string
	backendCert string
)

var rootCmd = &cobra.Command{
	Use:   "sgr",
	Short: "sgr serves and renders redirect and scriptlet resources",
	Long: `sgr keeps a library of resources in a Bolt database.  Redirect
resources stand in for blocked requests as data: URIs, and scriptlet
resources are rendered into scripts for injection.

Commands which read or change resources use the local database, or a
running sgr server if --backend is set.`,
	SilenceUsage: true,
}

// Execute runs the command line.  It is called by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	loadEnv(".env")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", envOr(EnvDB, "sgr.db"), "the database to use")
	pf.StringVar(&backendURL, "backend", os.Getenv(EnvBackend), "the URL of an sgr server to use instead of --db")
	pf.StringVar(&adminKey, "admin-key", os.Getenv(EnvAdminKey), "the base64 admin key")
	pf.StringVar(&backendCert, "backend-cert", "", "a PEM certificate to trust for --backend")
}

// AddCommand adds subcommands to the root command.
func AddCommand(cmds ...*cobra.Command) {
	rootCmd.AddCommand(cmds...)
}

func loadEnv(path string) {
	switch err := godotenv.Load(path); {
	case err == nil:
		log.Printf("loaded environment from %#q", path)
	case !os.IsNotExist(errors.Cause(err)):
		log.Printf("failed to load %#q: %s", path, err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// openBackend returns the Backend selected by the flags, and a func to
// release it.
func openBackend() (Backend, func() error, error) {
	if backendURL == "" {
		l, err := OpenLocal(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return l, l.Close, nil
	}

	u, err := url.Parse(backendURL)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "invalid backend URL %#q", backendURL)
	}
	if backendCert != "" {
		pem, err := ioutil.ReadFile(backendCert)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to read backend cert")
		}
		if err := client.SetCustomCert(pem); err != nil {
			return nil, nil, err
		}
	}
	return Remote{&client.Client{
		APIKey:  adminKey,
		Backend: u,
	}}, func() error { return nil }, nil
}

// withBackend runs fn on the Backend selected by the flags.
func withBackend(fn func(Backend) error) error {
	b, release, err := openBackend()
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			log.Printf("failed to close backend: %s", err)
		}
	}()
	return fn(b)
}
