package infrastructure_test

import (
	"context"
	"testing"

	"github.com/JaimeStill/scout/internal/config"
	"github.com/JaimeStill/scout/internal/infrastructure"
	"github.com/JaimeStill/scout/pkg/auth"
	"github.com/JaimeStill/scout/pkg/database"
	"github.com/JaimeStill/scout/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "scout",
			User:            "scout",
			Password:        "scout",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "resumes",
			ConnectionString: azuriteConnString,
		},
		Auth: auth.Config{
			DevUser: "local-dev",
		},
		Gemini: config.GeminiConfig{
			APIKey:  "test-key",
			Model:   "gemini-2.5-flash",
			Backend: config.BackendGeminiAPI,
			Timeout: "30s",
		},
		Version:  "0.1.0",
		LogLevel: "error",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(context.Background(), validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Metrics == nil {
		t.Error("Metrics is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
	if infra.Auth == nil {
		t.Error("Auth is nil")
	}
	if infra.Gemini == nil {
		t.Error("Gemini is nil")
	}
}

func TestNewDatabaseConnection(t *testing.T) {
	infra, err := infrastructure.New(context.Background(), validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := infra.Database.Connection()
	if conn == nil {
		t.Fatal("Database.Connection() returned nil")
	}
	conn.Close()
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.ConnectionString = "not-a-connection-string"

	_, err := infrastructure.New(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}
