package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func newMatchCommand(opts *options) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank your candidates against a job description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(description) == "" {
				return errors.New("--desc is required")
			}

			body, err := json.Marshal(map[string]string{"jobDescription": description})
			if err != nil {
				return err
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, opts.endpoint("/matches"), bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")

			return stream(opts, req, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&description, "desc", "d", "", "Job description to match against")
	return cmd
}
