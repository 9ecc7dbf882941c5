package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newUploadCommand(opts *options) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload and parse a resume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				return errors.New("--file is required")
			}

			body, contentType, err := multipartFile(path)
			if err != nil {
				return err
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, opts.endpoint("/resumes"), body)
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", contentType)

			return stream(opts, req, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "Resume file (pdf, txt, docx, png, jpeg, webp)")
	return cmd
}

func multipartFile(path string) (*bytes.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read resume: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}
