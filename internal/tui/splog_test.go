package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplogConsole(t *testing.T) {
	t.Parallel()

	t.Run("writes bare messages and hides debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		splog := NewSplogWithWriter(&buf, false)

		splog.Info("Installing %s...", "nginx")
		splog.Debug("$ dnf install -y nginx")
		splog.Warn("firewalld is not running")

		require.Equal(t, "Installing nginx...\n⚠️  firewalld is not running\n", buf.String())
	})

	t.Run("debug mode shows debug lines", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		splog := NewSplogWithWriter(&buf, true)

		splog.Debug("$ %s", "systemctl enable --now nginx")
		require.Equal(t, "$ systemctl enable --now nginx\n", buf.String())
	})

	t.Run("quiet suppresses console output", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		splog := NewSplogWithWriter(&buf, false)

		splog.SetQuiet(true)
		splog.Info("hidden")
		splog.Newline()
		require.Empty(t, buf.String())
	})
}

func TestSplogFile(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "logs", "hostprov.log")
	splog, err := NewSplogWithConfig(&buf, false, LogFileOptions{Path: logPath}, "run-1234")
	require.NoError(t, err)

	splog.Debug("$ rpm -q nginx")
	splog.Error("nginx -t failed")
	require.NoError(t, splog.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	content := string(data)

	require.Contains(t, content, `msg="$ rpm -q nginx"`)
	require.Contains(t, content, "level=ERROR")
	require.Contains(t, content, "run=run-1234")
	require.NotContains(t, buf.String(), "rpm -q", "debug lines only go to the file")
}

func TestGetLogFilePathPrefersEnvironment(t *testing.T) {
	t.Setenv("HOSTPROV_LOG_FILE", "/tmp/custom.log")
	require.Equal(t, "/tmp/custom.log", GetLogFilePath("/var/log/hostprov/hostprov.log"))
}

func TestConfirmFunc(t *testing.T) {
	t.Parallel()

	var asked string
	var c Confirmer = ConfirmFunc(func(prompt string) (bool, error) {
		asked = prompt
		return true, nil
	})
	ok, err := c.Confirm("Purge /var/lib/mysql?")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Purge /var/lib/mysql?", asked)
}

func TestSurveyConfirmerRefusesWithoutTerminal(t *testing.T) {
	t.Setenv("HOSTPROV_NON_INTERACTIVE", "1")

	ok, err := SurveyConfirmer{}.Confirm("Purge?")
	require.ErrorIs(t, err, ErrInteractiveDisabled)
	require.False(t, ok)
}
