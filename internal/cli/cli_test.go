package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"hostprov.dev/hostprov/internal/cli"
	hperrors "hostprov.dev/hostprov/internal/errors"
	"hostprov.dev/hostprov/internal/runtime"
	"hostprov.dev/hostprov/testhelpers"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type result struct {
	err    error
	stdout string
	opts   runtime.Options
}

func execute(t *testing.T, scene *testhelpers.Scene, args ...string) result {
	t.Helper()

	res := result{}
	factory := func(_ context.Context, opts runtime.Options) (*runtime.Context, error) {
		res.opts = opts
		return scene.Context(t), nil
	}

	var stdout, stderr bytes.Buffer
	root := cli.NewRootCmdWithFactory("1.2.3", "abc123", "2026-03-14", factory)
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	res.err = root.Execute()
	res.stdout = stdout.String()
	return res
}

func TestMySQLInstallCommand(t *testing.T) {
	t.Parallel()

	t.Run("missing arguments", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t)

		res := execute(t, scene, "mysql", "install", "appdb", "appuser")
		require.ErrorIs(t, res.err, hperrors.ErrMissingArgument)
		require.Contains(t, res.err.Error(), "db_password")
		require.Equal(t, hperrors.ExitPrecondition, hperrors.ExitCode(res.err))
		require.Empty(t, scene.Runner.Calls())
	})

	t.Run("installs and prints the summary", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t)

		res := execute(t, scene, "mysql", "install", "appdb", "appuser", "App#Secret1", "Root#Secret9", "no", "--debug")
		require.NoError(t, res.err)
		require.True(t, res.opts.Debug)
		require.Contains(t, scene.Output.String(), "MySQL install summary")
		require.Contains(t, scene.Output.String(), "Result: SUCCESS")
		require.Equal(t, hperrors.ExitOK, hperrors.ExitCode(res.err))
	})

	t.Run("unsupported OS prints no summary", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t)
		scene.WriteFile(t, scene.Settings.Host.OSReleaseFile, testhelpers.Ubuntu2204)

		res := execute(t, scene, "mysql", "install", "appdb", "appuser", "App#Secret1")
		require.ErrorIs(t, res.err, hperrors.ErrUnsupportedOS)
		require.NotContains(t, scene.Output.String(), "summary")
	})

	t.Run("degraded run exits 3", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t)
		scene.Runner.Fail("mysql ", 1, "ERROR 2002 (HY000): Can't connect to local MySQL server")

		res := execute(t, scene, "mysql", "install", "appdb", "appuser", "App#Secret1")
		require.ErrorIs(t, res.err, hperrors.ErrDegraded)
		require.Equal(t, hperrors.ExitDegraded, hperrors.ExitCode(res.err))
		require.Contains(t, scene.Output.String(), "Result: DEGRADED")
	})
}

func TestMySQLUninstallCommand(t *testing.T) {
	t.Parallel()

	t.Run("yes and purge", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t).WithMySQLData(t)

		res := execute(t, scene, "mysql", "uninstall", "--purge-data", "--yes", "--config", "/etc/hostprov/test.yaml")
		require.NoError(t, res.err)
		require.Equal(t, "/etc/hostprov/test.yaml", res.opts.ConfigFile)
		require.NoDirExists(t, scene.Settings.MySQL.DataDir)
		require.Contains(t, scene.Output.String(), "Data dir removed or not present.")
	})

	t.Run("declined purge", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t).WithMySQLData(t)
		scene.Answers = []bool{false}

		res := execute(t, scene, "mysql", "uninstall", "--purge-data")
		require.ErrorIs(t, res.err, hperrors.ErrDeclined)
		require.Equal(t, hperrors.ExitPrecondition, hperrors.ExitCode(res.err))
		require.DirExists(t, scene.Settings.MySQL.DataDir)
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t)

		res := execute(t, scene, "mysql", "uninstall", "now")
		require.Error(t, res.err)
		require.Empty(t, scene.Runner.Calls())
	})
}

func TestNginxCommands(t *testing.T) {
	t.Parallel()

	t.Run("install with flags", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t)
		webRoot := filepath.Join(scene.Dir, "srv", "site")

		res := execute(t, scene, "nginx", "install", "--server-name", "www.example.com", "--web-root", webRoot, "--open-firewall=false")
		require.NoError(t, res.err)
		require.Contains(t, scene.ReadFile(t, filepath.Join(scene.Settings.Nginx.SiteDir, "www.example.com.conf")), webRoot)
		require.False(t, scene.Runner.Ran("firewall-cmd"))
	})

	t.Run("install uses the configured web root", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t)

		res := execute(t, scene, "nginx", "install")
		require.NoError(t, res.err)
		require.DirExists(t, scene.Settings.Nginx.WebRoot)
		require.FileExists(t, filepath.Join(scene.Settings.Nginx.SiteDir, "hostprov.conf"))
	})

	t.Run("uninstall", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t)

		res := execute(t, scene, "nginx", "uninstall", "-y", "--purge-data")
		require.NoError(t, res.err)
		require.True(t, scene.Runner.Ran("dnf remove -y nginx"))
	})
}

func TestDoctorCommand(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewScene(t)
	scene.Runner.Missing("tar")

	res := execute(t, scene, "doctor")
	require.Error(t, res.err)
	require.Contains(t, scene.Output.String(), "tar is not installed")
	require.Empty(t, scene.Runner.CallsWithPrefix("dnf"))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	res := execute(t, testhelpers.NewScene(t), "version")
	require.NoError(t, res.err)
	require.Equal(t, "hostprov 1.2.3 (commit abc123, built 2026-03-14)\n", res.stdout)
}
