package database_test

import (
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/scout/pkg/database"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := database.Config{Name: "scout", User: "scout"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"host", cfg.Host, "localhost"},
		{"port", cfg.Port, 5432},
		{"ssl_mode", cfg.SSLMode, "disable"},
		{"max_open_conns", cfg.MaxOpenConns, 25},
		{"max_idle_conns", cfg.MaxIdleConns, 5},
		{"conn_max_lifetime", cfg.ConnMaxLifetimeDuration(), 15 * time.Minute},
		{"conn_timeout", cfg.ConnTimeoutDuration(), 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "db.internal")
	t.Setenv("TEST_DB_PORT", "5433")
	t.Setenv("TEST_DB_NAME", "envdb")
	t.Setenv("TEST_DB_USER", "envuser")
	t.Setenv("TEST_DB_MAX_OPEN", "50")
	t.Setenv("TEST_DB_TIMEOUT", "10s")

	env := &database.Env{
		Host:         "TEST_DB_HOST",
		Port:         "TEST_DB_PORT",
		Name:         "TEST_DB_NAME",
		User:         "TEST_DB_USER",
		MaxOpenConns: "TEST_DB_MAX_OPEN",
		ConnTimeout:  "TEST_DB_TIMEOUT",
	}

	cfg := database.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	want := "host=db.internal port=5433 dbname=envdb user=envuser password= sslmode=disable"
	if got := cfg.Dsn(); got != want {
		t.Errorf("dsn:\ngot  %s\nwant %s", got, want)
	}
	if cfg.MaxOpenConns != 50 {
		t.Errorf("max_open_conns: got %d, want 50", cfg.MaxOpenConns)
	}
	if cfg.ConnTimeoutDuration() != 10*time.Second {
		t.Errorf("conn_timeout: got %v, want 10s", cfg.ConnTimeoutDuration())
	}
}

func TestURLOverridesFields(t *testing.T) {
	t.Setenv("TEST_DB_URL", "postgres://scout:scout@db:5432/scout?sslmode=require")

	cfg := database.Config{}
	if err := cfg.Finalize(&database.Env{URL: "TEST_DB_URL"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if got := cfg.Dsn(); got != "postgres://scout:scout@db:5432/scout?sslmode=require" {
		t.Errorf("dsn = %s, want url", got)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{"missing name", database.Config{User: "scout"}, "name required"},
		{"missing user", database.Config{Name: "scout"}, "user required"},
		{"idle exceeds open", database.Config{Name: "scout", User: "scout", MaxOpenConns: 2, MaxIdleConns: 4}, "exceeds max_open_conns"},
		{"invalid conn_max_lifetime", database.Config{Name: "scout", User: "scout", ConnMaxLifetime: "bad"}, "invalid conn_max_lifetime"},
		{"invalid conn_timeout", database.Config{Name: "scout", User: "scout", ConnTimeout: "bad"}, "invalid conn_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := database.Config{Host: "localhost", Port: 5432, Name: "basedb", User: "baseuser", MaxOpenConns: 25}
	base.Merge(&database.Config{Host: "remotehost", Name: "overlaydb"})

	if base.Host != "remotehost" {
		t.Errorf("host: got %s, want remotehost", base.Host)
	}
	if base.Name != "overlaydb" {
		t.Errorf("name: got %s, want overlaydb", base.Name)
	}
	if base.User != "baseuser" {
		t.Errorf("user should remain baseuser, got %s", base.User)
	}
	if base.Port != 5432 || base.MaxOpenConns != 25 {
		t.Errorf("zero overlay fields should be preserved, got port=%d max_open=%d", base.Port, base.MaxOpenConns)
	}
}
