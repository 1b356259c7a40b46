package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hostprov.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	s := Defaults()
	require.Equal(t, "/etc/os-release", s.Host.OSReleaseFile)
	require.Equal(t, "mysqld", s.MySQL.Service)
	require.Equal(t, "/var/lib/mysql", s.MySQL.DataDir)
	require.Equal(t, "3306/tcp", s.MySQL.MySQLPortRule())
	require.Contains(t, s.MySQL.Packages, "mysql-community-server")
	require.Equal(t, []string{"nginx", "nginx-core", "nginx-filesystem"}, s.Nginx.Packages)
	require.Equal(t, 30, s.Readiness.Attempts)
	require.Equal(t, 2*time.Second, s.Readiness.Interval)
	require.NoError(t, s.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("reads yaml overrides", func(t *testing.T) {
		path := writeConfig(t, `
mysql:
  data_dir: /data/mysql
  port: 3307
readiness:
  attempts: 5
  interval: 500ms
`)
		s, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "/data/mysql", s.MySQL.DataDir)
		require.Equal(t, "3307/tcp", s.MySQL.MySQLPortRule())
		require.Equal(t, 5, s.Readiness.Attempts)
		require.Equal(t, 500*time.Millisecond, s.Readiness.Interval)
		// untouched keys keep their defaults
		require.Equal(t, "/etc/my.cnf", s.MySQL.ConfigFile)
	})

	t.Run("environment beats the file", func(t *testing.T) {
		path := writeConfig(t, "backup:\n  dir: /srv/backups\n")
		t.Setenv("HOSTPROV_BACKUP_DIR", "/mnt/backups")
		t.Setenv("HOSTPROV_READINESS_ATTEMPTS", "3")

		s, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "/mnt/backups", s.Backup.Dir)
		require.Equal(t, 3, s.Readiness.Attempts)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "not found")
	})

	t.Run("rejects a zero readiness budget", func(t *testing.T) {
		path := writeConfig(t, "readiness:\n  attempts: 0\n")
		_, err := Load(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "readiness.attempts")
	})
}
