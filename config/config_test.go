package config

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	os.Setenv("APPENV", "test")
	os.Setenv("APPNAME", "medico-api-test")
	os.Setenv("GINMODE", "release")
	os.Exit(m.Run())
}

func TestLoadConfig_Singleton(t *testing.T) {
	cfg := LoadConfig()
	if cfg == nil {
		t.Fatal("expected config instance, got nil")
	}
	if cfg.AppEnv != "test" {
		t.Fatalf("expected AppEnv test, got %q", cfg.AppEnv)
	}
	if cfg.AppName != "medico-api-test" {
		t.Fatalf("expected AppName medico-api-test, got %q", cfg.AppName)
	}

	again := LoadConfig()
	if cfg != again {
		t.Fatal("expected LoadConfig to return the same singleton instance")
	}
}

func TestConnectMySQL_TestEnvUsesSQLite(t *testing.T) {
	db, err := ConnectMySQL()
	if err != nil {
		t.Fatalf("expected in-memory test database, got error: %v", err)
	}
	if got := db.Dialector.Name(); got != "sqlite" {
		t.Fatalf("expected sqlite dialector in test env, got %q", got)
	}
}

func TestConnectRedis_SkippedInTestEnv(t *testing.T) {
	client, err := ConnectRedis()
	if err != nil {
		t.Fatalf("expected no error in test env, got %v", err)
	}
	if client != nil {
		t.Fatal("expected nil redis client in test env")
	}
}
