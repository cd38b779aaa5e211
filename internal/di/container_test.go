package di

import (
	"path/filepath"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alertdash/alertdash-server/internal/archive"
	"github.com/alertdash/alertdash-server/internal/config"
	"github.com/alertdash/alertdash-server/internal/di/providers"
	"github.com/alertdash/alertdash-server/internal/domain"
	"github.com/alertdash/alertdash-server/internal/report"
)

func testArgs(t *testing.T, extra ...string) []string {
	t.Helper()
	dir := t.TempDir()
	args := []string{
		"-port", "0",
		"-env", "development",
		"-log-level", "error",
		"-work-dir", filepath.Join(dir, "extracted_alerts"),
		"-env-file", filepath.Join(dir, "none.env"),
		"-timezone", "UTC",
	}
	return append(args, extra...)
}

func TestBootstrap(t *testing.T) {
	injector := NewContainer(testArgs(t, "-variant", "subtypes"), "test")
	require.NoError(t, Bootstrap(injector))
	t.Cleanup(func() { _ = injector.Shutdown() })

	cfg := do.MustInvoke[*config.Config](injector)
	assert.Equal(t, "0", cfg.Server.Port)

	svc := do.MustInvoke[*report.Service](injector)
	assert.Equal(t, domain.VariantSubtypes, svc.DefaultVariant())

	loader := do.MustInvoke[*archive.Loader](injector)
	assert.Equal(t, cfg.Archive.WorkDir, loader.WorkDir())

	srv := do.MustInvoke[*providers.HTTPServerHandle](injector)
	assert.Equal(t, ":0", srv.Addr)
	assert.Equal(t, cfg.Server.ReadTimeout, srv.ReadTimeout)
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	injector := NewContainer(testArgs(t, "-variant", "pie"), "test")
	t.Cleanup(func() { _ = injector.Shutdown() })

	err := Bootstrap(injector)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown default variant")
}
