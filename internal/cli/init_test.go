package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := SetupLogger("debug")
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be enabled")
	}
	if logger.Component() != "app" {
		t.Errorf("component = %q, want app", logger.Component())
	}

	logger = SetupLogger("bogus")
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("unknown level should fall back to info")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TRUST_CLI_TEST_VALUE=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRUST_CLI_TEST_VALUE", "")
	os.Unsetenv("TRUST_CLI_TEST_VALUE")

	LoadEnvFile(path)
	if got := os.Getenv("TRUST_CLI_TEST_VALUE"); got != "from-dotenv" {
		t.Errorf("TRUST_CLI_TEST_VALUE = %q, want from-dotenv", got)
	}

	// Missing files are ignored.
	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}
