package system_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	hperrors "hostprov.dev/hostprov/internal/errors"
	"hostprov.dev/hostprov/internal/system"
	"hostprov.dev/hostprov/testhelpers"
)

func TestPackages(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("installed packages are filtered with rpm -q", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner().Fail("rpm -q nginx-core", 1, "package nginx-core is not installed")

		installed := system.InstalledPackages(ctx, r, []string{"nginx", "nginx-core", "nginx-filesystem"})
		require.Equal(t, []string{"nginx", "nginx-filesystem"}, installed)
	})

	t.Run("install and remove are non-interactive", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner()

		require.NoError(t, system.InstallPackages(ctx, r, "nginx", "nginx-core"))
		require.NoError(t, system.RemovePackages(ctx, r, "mysql-community-server"))
		require.NoError(t, system.CleanCache(ctx, r))
		require.Equal(t, []string{
			"dnf install -y nginx nginx-core",
			"dnf remove -y mysql-community-server",
			"dnf clean all",
		}, r.Commands())
	})

	t.Run("lists and matches signing keys", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner().On("rpm -q gpg-pubkey",
			"gpg-pubkey-a8d3785c-6536a8bc\tgpg(MySQL Release Engineering <mysql-build@oss.oracle.com>)\n"+
				"gpg-pubkey-d4082792-5b32db75\tgpg(Amazon Linux <amazon-linux@amazon.com>)\n")

		keys, err := system.ListGPGKeys(ctx, r)
		require.NoError(t, err)
		require.Len(t, keys, 2)

		matched, err := system.MatchingGPGKeys(keys, "mysql")
		require.NoError(t, err)
		require.Len(t, matched, 1)
		require.Equal(t, "gpg-pubkey-a8d3785c-6536a8bc", matched[0].Name)

		require.NoError(t, system.RemoveGPGKey(ctx, r, matched[0]))
		require.True(t, r.Ran("rpm -e gpg-pubkey-a8d3785c-6536a8bc"))
	})

	t.Run("no imported keys is an empty list", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner().Fail("rpm -q gpg-pubkey", 1, "package gpg-pubkey is not installed")

		keys, err := system.ListGPGKeys(ctx, r)
		require.NoError(t, err)
		require.Empty(t, keys)
	})

	t.Run("invalid key pattern", func(t *testing.T) {
		t.Parallel()
		_, err := system.MatchingGPGKeys(nil, "mysql(")
		require.Error(t, err)
	})
}

func TestFirewall(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("not running without firewall-cmd", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner().Missing("firewall-cmd")
		require.False(t, system.FirewallRunning(ctx, r))
		require.Empty(t, r.Calls())
	})

	t.Run("not running when the daemon is stopped", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner().Fail("firewall-cmd --state", 252, "not running")
		require.False(t, system.FirewallRunning(ctx, r))
	})

	t.Run("port and service rules", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner().Fail("firewall-cmd --permanent --query-port=3306/tcp", 1, "no")

		require.False(t, system.FirewallHasRule(ctx, r, system.PortRule("3306/tcp")))
		require.True(t, system.FirewallHasRule(ctx, r, system.ServiceRule("http")))
		require.NoError(t, system.FirewallAdd(ctx, r, system.PortRule("3306/tcp")))
		require.NoError(t, system.FirewallRemove(ctx, r, system.ServiceRule("https")))
		require.NoError(t, system.FirewallReload(ctx, r))

		require.Equal(t, []string{
			"firewall-cmd --permanent --query-port=3306/tcp",
			"firewall-cmd --permanent --query-service=http",
			"firewall-cmd --permanent --add-port=3306/tcp",
			"firewall-cmd --permanent --remove-service=https",
			"firewall-cmd --reload",
		}, r.Commands())
		require.Equal(t, "3306/tcp", system.PortRule("3306/tcp").String())
		require.Equal(t, "http", system.ServiceRule("http").String())
	})
}

func TestSELinux(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("mode is empty without the tools", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner().Missing("getenforce")
		require.Empty(t, system.SELinuxMode(ctx, r))
	})

	t.Run("mode is trimmed", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner().On("getenforce", "Enforcing\n")
		require.Equal(t, "Enforcing", system.SELinuxMode(ctx, r))
	})

	t.Run("existing file context is modified", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner().Fail("semanage fcontext -a", 1, "ValueError: File context for /srv/www(/.*)? already defined")

		require.NoError(t, system.AddFileContext(ctx, r, "httpd_sys_content_t", "/srv/www/"))
		require.Equal(t, []string{
			"semanage fcontext -a -t httpd_sys_content_t /srv/www(/.*)?",
			"semanage fcontext -m -t httpd_sys_content_t /srv/www(/.*)?",
		}, r.Commands())
	})

	t.Run("other semanage failures are returned", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner().Fail("semanage fcontext -a", 1, "ValueError: Type foo_t is invalid")

		err := system.AddFileContext(ctx, r, "foo_t", "/srv/www")
		require.Error(t, err)
		require.Len(t, r.Calls(), 1)
	})

	t.Run("booleans", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner()
		require.NoError(t, system.SetBoolean(ctx, r, "httpd_can_network_connect", true))
		require.NoError(t, system.SetBoolean(ctx, r, "httpd_can_network_connect", false))
		require.Equal(t, []string{
			"setsebool -P httpd_can_network_connect 1",
			"setsebool -P httpd_can_network_connect 0",
		}, r.Commands())
	})
}

func TestServices(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	r := testhelpers.NewFakeRunner().
		On("systemctl list-unit-files mysqld.service", "mysqld.service disabled disabled").
		Fail("systemctl is-active --quiet nginx", 3, "")

	require.True(t, system.UnitExists(ctx, r, "mysqld"))
	require.False(t, system.UnitExists(ctx, r, "nginx.service"))
	require.False(t, system.IsActive(ctx, r, "nginx"))
	require.True(t, system.IsActive(ctx, r, "mysqld"))
}

func TestArchive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("backup path embeds the timestamp", func(t *testing.T) {
		t.Parallel()
		at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
		require.Equal(t, "/root/backups/mysql-backup-20260314-092653.tar.gz", system.BackupPath("/root/backups", "mysql", at))
	})

	t.Run("existing paths skips missing and empty entries", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		present := filepath.Join(dir, "my.cnf")
		require.NoError(t, os.WriteFile(present, []byte("[mysqld]\n"), 0644))

		require.Equal(t, []string{present}, system.ExistingPaths([]string{"", present, filepath.Join(dir, "missing")}))
	})

	t.Run("archive is relative to root", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		dest := filepath.Join(dir, "backups", "nginx-backup.tar.gz")
		r := testhelpers.NewFakeRunner()

		require.NoError(t, system.CreateArchive(ctx, r, dest, []string{"/etc/nginx", "/var/www/html"}))
		require.DirExists(t, filepath.Dir(dest))
		require.Equal(t, []string{"tar -czf " + dest + " -C / etc/nginx var/www/html"}, r.Commands())
	})

	t.Run("nothing to archive", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner()
		require.Error(t, system.CreateArchive(ctx, r, filepath.Join(t.TempDir(), "x.tar.gz"), nil))
		require.Empty(t, r.Calls())
	})
}

func TestWaitReady(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns once the check passes", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner().FailTimes("mysqladmin", 2, 1, "Can't connect to local MySQL server")

		require.NoError(t, system.WaitReady(ctx, 5, time.Millisecond, system.MySQLPing(r)))
		require.Len(t, r.CallsWithPrefix("mysqladmin --connect-timeout=2 ping"), 3)
	})

	t.Run("gives up after the attempt budget", func(t *testing.T) {
		t.Parallel()
		r := testhelpers.NewFakeRunner().Fail("systemctl is-active", 3, "")

		err := system.WaitReady(ctx, 3, time.Millisecond, system.UnitActive(r, "nginx"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "3 attempt(s)")
		require.Len(t, r.Calls(), 3)
	})

	t.Run("at least one attempt", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := system.WaitReady(ctx, 0, 0, func(context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 1, calls)
	})
}

func TestCommandErrorHelpers(t *testing.T) {
	t.Parallel()

	err := hperrors.NewCommandError("dnf", []string{"install", "-y", "nginx"}, "", "  Error: Unable to find a match: nginx\n", 1, errors.New("exit status 1"))
	wrapped := hperrors.NewStepError("Install packages", err)

	require.Equal(t, 1, system.ExitCodeOf(wrapped))
	require.Equal(t, "Error: Unable to find a match: nginx", system.StderrOf(wrapped))
	require.Equal(t, -1, system.ExitCodeOf(errors.New("boom")))
	require.Empty(t, system.StderrOf(errors.New("boom")))
}

func TestCommandRunner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := system.NewCommandRunnerInDir(t.TempDir())

	if !system.Available(r, "sh") {
		t.Skip("sh not available")
	}

	t.Run("stdin and environment", func(t *testing.T) {
		t.Parallel()
		out, err := r.RunWithOptions(ctx, system.RunOptions{Input: "SELECT 1;\n", Env: []string{"HOSTPROV_TEST=yes"}},
			"sh", "-c", `cat; echo "$HOSTPROV_TEST"`)
		require.NoError(t, err)
		require.Equal(t, "SELECT 1;\nyes", out)
	})

	t.Run("failure carries exit code and stderr", func(t *testing.T) {
		t.Parallel()
		_, err := r.Run(ctx, "sh", "-c", "echo nope >&2; exit 4")
		require.Error(t, err)
		require.Equal(t, 4, system.ExitCodeOf(err))
		require.Equal(t, "nope", system.StderrOf(err))
	})
}
