package testhelpers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hostprov.dev/hostprov/internal/config"
	"hostprov.dev/hostprov/internal/host"
	"hostprov.dev/hostprov/internal/runtime"
	"hostprov.dev/hostprov/internal/tui"
)

// AmazonLinux2023 is a stock /etc/os-release from an AL2023 EC2 instance
const AmazonLinux2023 = `NAME="Amazon Linux"
VERSION="2023"
ID="amzn"
ID_LIKE="fedora"
VERSION_ID="2023"
PLATFORM_ID="platform:al2023"
PRETTY_NAME="Amazon Linux 2023.6.20241010"
ANSI_COLOR="0;33"
`

// Ubuntu2204 is an os-release for a host hostprov must refuse
const Ubuntu2204 = `NAME="Ubuntu"
VERSION_ID="22.04"
ID=ubuntu
ID_LIKE=debian
PRETTY_NAME="Ubuntu 22.04.4 LTS"
`

// FixedTime is the clock every scene context uses
var FixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// Scene is a fake host rooted in a temporary directory: settings point every
// path below Dir and commands go to a FakeRunner.
type Scene struct {
	Dir      string
	Settings *config.Settings
	Runner   *FakeRunner
	Output   *bytes.Buffer
	Answers  []bool
	Prompts  []string
	Root     bool
}

// NewScene creates a scene for an Amazon Linux 2023 host with root privileges
func NewScene(t *testing.T) *Scene {
	t.Helper()

	dir := t.TempDir()
	s := config.Defaults()
	s.Host.OSReleaseFile = filepath.Join(dir, "etc", "os-release")
	s.MySQL.DataDir = filepath.Join(dir, "var", "lib", "mysql")
	s.MySQL.ConfigFile = filepath.Join(dir, "etc", "my.cnf")
	s.MySQL.LogFile = filepath.Join(dir, "var", "log", "mysqld.log")
	s.Nginx.ConfDir = filepath.Join(dir, "etc", "nginx")
	s.Nginx.SiteDir = filepath.Join(dir, "etc", "nginx", "conf.d")
	s.Nginx.LogDir = filepath.Join(dir, "var", "log", "nginx")
	s.Nginx.WebRoot = filepath.Join(dir, "var", "www", "html")
	s.Backup.Dir = filepath.Join(dir, "root", "backups")
	s.Log.File = ""
	s.Readiness.Attempts = 3
	s.Readiness.Interval = time.Millisecond

	scene := &Scene{
		Dir:      dir,
		Settings: s,
		Runner:   NewFakeRunner(),
		Output:   &bytes.Buffer{},
		Root:     true,
	}
	scene.WriteFile(t, s.Host.OSReleaseFile, AmazonLinux2023)
	return scene
}

// WriteFile creates a file and its parent directories
func (s *Scene) WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// ReadFile returns the content of a file, failing the test when absent
func (s *Scene) ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// Exists reports whether path is present
func (s *Scene) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WithMySQLData creates a populated MySQL data directory and server config
func (s *Scene) WithMySQLData(t *testing.T) *Scene {
	t.Helper()
	s.WriteFile(t, filepath.Join(s.Settings.MySQL.DataDir, "ibdata1"), "innodb")
	s.WriteFile(t, filepath.Join(s.Settings.MySQL.DataDir, "appdb", "users.ibd"), "rows")
	s.WriteFile(t, s.Settings.MySQL.ConfigFile, "[mysqld]\ndatadir=/var/lib/mysql\nbind-address=127.0.0.1\n")
	s.WriteFile(t, s.Settings.MySQL.LogFile, "")
	return s
}

// Context builds a runtime context wired to the scene. Confirmation prompts
// pop answers from s.Answers and fail the test when none are left.
func (s *Scene) Context(t *testing.T) *runtime.Context {
	t.Helper()
	return &runtime.Context{
		Context:  context.Background(),
		Splog:    tui.NewSplogWithWriter(s.Output, true),
		Runner:   s.Runner,
		Settings: s.Settings,
		Confirmer: tui.ConfirmFunc(func(prompt string) (bool, error) {
			s.Prompts = append(s.Prompts, prompt)
			if len(s.Answers) == 0 {
				t.Fatalf("unexpected confirmation prompt: %s", prompt)
			}
			answer := s.Answers[0]
			s.Answers = s.Answers[1:]
			return answer, nil
		}),
		Targets: host.DefaultTargets,
		RunID:   "test-run",
		IsRoot:  func() bool { return s.Root },
		Now:     func() time.Time { return FixedTime },
	}
}
