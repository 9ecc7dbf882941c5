// Package cli implements the scout command line client. Each command posts to the
// service and renders the resulting event stream.
package cli

import (
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const (
	envServer = "SCOUT_SERVER"
	envToken  = "SCOUT_TOKEN"

	defaultServer = "http://localhost:8080/api"
)

// options are the persistent flags shared by every command.
type options struct {
	server string
	token  string
	client *http.Client
}

func (o *options) endpoint(path string) string {
	return strings.TrimRight(o.server, "/") + path
}

// NewRootCommand builds the scout command tree. A nil client uses http.DefaultClient.
func NewRootCommand(client *http.Client) *cobra.Command {
	if client == nil {
		client = http.DefaultClient
	}
	opts := &options{client: client}

	root := &cobra.Command{
		Use:           "scout",
		Short:         "Match candidates and upload resumes",
		Long:          `Streams candidate matching and resume extraction from a scout server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.server, "server", envOr(envServer, defaultServer), "API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv(envToken), "Bearer token")

	root.AddCommand(newMatchCommand(opts))
	root.AddCommand(newUploadCommand(opts))

	return root
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
