package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Altinn/altinn-authorization-tmp-sub012/config"
	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
)

func TestDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := config.Load(config.New(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Dialect != "mssql" {
		t.Errorf("expected dialect mssql, got %s", cfg.Dialect)
	}
	if cfg.Schemas.Default != "dbo" || cfg.Schemas.Translation != "translation" || cfg.Schemas.History != "history" {
		t.Errorf("unexpected schemas %+v", cfg.Schemas)
	}
	if cfg.CollectionId != "default" {
		t.Errorf("expected collection default, got %s", cfg.CollectionId)
	}
	if cfg.ModelsDir != "models" || cfg.ScriptDir != "migrations" {
		t.Errorf("unexpected directories %s %s", cfg.ModelsDir, cfg.ScriptDir)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DBDEF_DIALECT", "postgres")
	t.Setenv("DBDEF_SCHEMAS_TRANSLATION", "i18n")
	t.Setenv("DBDEF_COLLECTION_ID", "catalog")

	cfg, err := config.Load(config.New(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Dialect != "postgres" {
		t.Errorf("expected dialect postgres, got %s", cfg.Dialect)
	}
	if cfg.Schemas.Translation != "i18n" {
		t.Errorf("expected translation schema i18n, got %s", cfg.Schemas.Translation)
	}
	if cfg.CollectionId != "catalog" {
		t.Errorf("expected collection catalog, got %s", cfg.CollectionId)
	}

	d, err := cfg.DialectValue()
	if err != nil {
		t.Fatalf("dialect: %v", err)
	}
	if d.Name() != dialect.Postgres {
		t.Errorf("expected postgres dialect, got %s", d.Name())
	}
}

func TestDatabaseURLFallback(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/catalog")

	cfg, err := config.Load(config.New(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ConnectionString != "postgres://localhost/catalog" {
		t.Errorf("expected DATABASE_URL fallback, got %q", cfg.ConnectionString)
	}

	t.Setenv("DBDEF_CONNECTION_STRING", "sqlserver://localhost")
	cfg, err = config.Load(config.New(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ConnectionString != "sqlserver://localhost" {
		t.Errorf("expected explicit connection string to win, got %q", cfg.ConnectionString)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbdef.yaml")
	content := `dialect: sqlite
connection_string: file:catalog.db
collection_id: core
schemas:
  default: main
debug: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := config.Load(config.New(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Dialect != "sqlite" || cfg.ConnectionString != "file:catalog.db" || cfg.CollectionId != "core" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Schemas.Default != "main" {
		t.Errorf("expected default schema main, got %s", cfg.Schemas.Default)
	}
	if cfg.Schemas.Translation != "translation" {
		t.Errorf("expected unset keys to keep defaults, got %s", cfg.Schemas.Translation)
	}
	if !cfg.Debug {
		t.Error("expected debug from file")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config file") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"unknown dialect", config.Config{Dialect: "oracle", ConnectionString: "x", CollectionId: "c"}, "oracle"},
		{"no connection", config.Config{Dialect: "mssql", CollectionId: "c"}, "connection string not set"},
		{"no collection", config.Config{Dialect: "mssql", ConnectionString: "x"}, "collection id not set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
