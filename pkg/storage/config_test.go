package storage_test

import (
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/scout/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "test-connection"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "resumes" {
		t.Errorf("container_name: got %s, want resumes", cfg.ContainerName)
	}
	if cfg.URLExpiryDuration() != 8760*time.Hour {
		t.Errorf("url_expiry: got %s, want 8760h", cfg.URLExpiryDuration())
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("max_retries: got %d, want 3", cfg.MaxRetries)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "uploads")
	t.Setenv("TEST_ACCOUNT_URL", "https://scout.blob.core.windows.net")
	t.Setenv("TEST_URL_EXPIRY", "1h")
	t.Setenv("TEST_MAX_RETRIES", "5")

	env := &storage.Env{
		ContainerName: "TEST_CONTAINER",
		AccountURL:    "TEST_ACCOUNT_URL",
		URLExpiry:     "TEST_URL_EXPIRY",
		MaxRetries:    "TEST_MAX_RETRIES",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "uploads" {
		t.Errorf("container_name: got %s, want uploads", cfg.ContainerName)
	}
	if cfg.AccountURL != "https://scout.blob.core.windows.net" {
		t.Errorf("account_url: got %s", cfg.AccountURL)
	}
	if cfg.URLExpiryDuration() != time.Hour {
		t.Errorf("url_expiry: got %s, want 1h", cfg.URLExpiryDuration())
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("max_retries: got %d, want 5", cfg.MaxRetries)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{"no credentials", storage.Config{ContainerName: "resumes"}, "connection_string or account_url required"},
		{"bad expiry", storage.Config{ConnectionString: "conn", URLExpiry: "soon"}, "invalid url_expiry"},
		{"negative expiry", storage.Config{ConnectionString: "conn", URLExpiry: "-1h"}, "invalid url_expiry"},
		{"account url only", storage.Config{AccountURL: "https://x.blob.core.windows.net"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{ContainerName: "resumes", ConnectionString: "base", URLExpiry: "24h"}
	base.Merge(&storage.Config{ConnectionString: "overlay", MaxRetries: 7})

	if base.ConnectionString != "overlay" {
		t.Errorf("connection_string: got %s, want overlay", base.ConnectionString)
	}
	if base.ContainerName != "resumes" {
		t.Errorf("container_name: got %s, want resumes", base.ContainerName)
	}
	if base.URLExpiry != "24h" {
		t.Errorf("url_expiry: got %s, want 24h", base.URLExpiry)
	}
	if base.MaxRetries != 7 {
		t.Errorf("max_retries: got %d, want 7", base.MaxRetries)
	}
}
