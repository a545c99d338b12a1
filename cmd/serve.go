package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/synapse-garden/sg-resources/admin"
	"github.com/synapse-garden/sg-resources/rest"

	"github.com/cristalhq/base64"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	SourceLicense = "Mozilla Public License 2.0"
	Licensee      = "SynapseGarden 2026"
)

var serveOpts struct {
	addr, port     string
	source         string
	resources      string
	certFile       string
	keyFile        string
	shutdownPeriod time.Duration
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resources in --db over HTTP",
	Long: `Serve the resources in --db over HTTP.  If --admin-key is not set
and the database has no admin key yet, a new one is generated and
logged.  If --resources is set, those resources are added before
serving.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var token admin.Token
		if adminKey != "" {
			bs, err := base64.StdEncoding.DecodeString(adminKey)
			if err != nil {
				return errors.Wrap(err, "invalid admin key")
			}
			token = bs
		}

		l, err := OpenLocal(dbPath)
		if err != nil {
			return err
		}
		defer l.Close()

		if path := serveOpts.resources; path != "" {
			rs, err := readResourceFile(path)
			if err != nil {
				return err
			}
			log.Printf("imported %d of %d resources from %#q",
				Import(l, rs), len(rs), path)
		}

		source := rest.SourceInfo{
			Location:   serveOpts.source,
			License:    SourceLicense,
			LicensedTo: Licensee,
		}
		router, err := rest.Bind(l.DB, source, token, &rest.Resources{DB: l.DB})
		if err != nil {
			return errors.Wrap(err, "failed to bind on DB")
		}

		return serve(&http.Server{
			Addr:    serveOpts.addr + serveOpts.port,
			Handler: router,
		})
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveOpts.addr, "addr", envOr(EnvAddr, "127.0.0.1"), "the address to host on")
	f.StringVar(&serveOpts.port, "port", envOr(EnvPort, ":8080"), "the port to listen on")
	f.StringVar(&serveOpts.source, "source",
		"https://github.com/synapse-garden/sg-resources",
		"where the source is hosted")
	f.StringVar(&serveOpts.resources, "resources", "", "a JSON list of resources to add before serving")
	f.StringVar(&serveOpts.certFile, "cert", "", "the certificate file to use")
	f.StringVar(&serveOpts.keyFile, "key", "cert.key", "the certificate key to use")
	f.DurationVar(&serveOpts.shutdownPeriod, "shutdown-period", 5*time.Second,
		"how long to wait for open requests on shutdown")

	AddCommand(serveCmd)
}

// serve runs srv until it fails or the process is interrupted.
func serve(srv *http.Server) error {
	errs := make(chan error, 1)
	go func() {
		if serveOpts.certFile == "" {
			log.Printf("sgr serving INSECURELY at http://%s", srv.Addr)
			errs <- srv.ListenAndServe()
			return
		}
		log.Printf("sgr serving at https://%s", srv.Addr)
		errs <- srv.ListenAndServeTLS(serveOpts.certFile, serveOpts.keyFile)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case err := <-errs:
		return err
	case sig := <-sigs:
		log.Printf("got %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), serveOpts.shutdownPeriod)
	defer cancel()
	return srv.Shutdown(ctx)
}
