// Package testutil builds the services the apps are tested with: the in-memory backend, seeded.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/trezcool/proctor/apps/shared"
	"github.com/trezcool/proctor/client"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/auth"
)

// MockConfig returns a test-mode configuration over the in-memory backend.
func MockConfig() *core.Config {
	return &core.Config{
		AppName:  "Proctor",
		TestMode: true,
		API:      core.APIConfig{MockMode: true},
		Mock:     core.MockConfig{SigningKey: "test-key", TokenTTL: time.Hour},
	}
}

// MockServices builds the services over a fresh seeded backend. tokens may be nil.
func MockServices(t *testing.T, sessions auth.Sessions, tokens client.TokenSource) *shared.Services {
	t.Helper()
	svcs, err := shared.NewServices(shared.Deps{Conf: MockConfig(), Sessions: sessions, Tokens: tokens})
	if err != nil {
		t.Fatalf("MockServices() failed: %v", err)
	}
	return svcs
}

// WriteFile creates name with content in a temporary directory and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}
