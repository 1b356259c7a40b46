package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	t.Run("nil is success", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, ExitOK, ExitCode(nil))
	})

	t.Run("preconditions exit with 1", func(t *testing.T) {
		t.Parallel()
		for _, err := range []error{
			NewUnsupportedOSError("ubuntu", "22.04", "not a supported target"),
			ErrNotRoot,
			NewMissingArgumentError("db_name"),
			NewInvalidArgumentError("allow_remote", "must be yes or no"),
			fmt.Errorf("purge: %w", ErrDeclined),
		} {
			require.Equal(t, ExitPrecondition, ExitCode(err), err.Error())
		}
	})

	t.Run("fatal step propagates command exit status", func(t *testing.T) {
		t.Parallel()
		cmdErr := NewCommandError("dnf", []string{"install", "-y", "nginx"}, "", "No match for argument", 1, errors.New("exit status 1"))
		err := NewStepError("Install nginx", cmdErr)
		require.Equal(t, 1, ExitCode(err))

		cmdErr.ExitCode = 7
		require.Equal(t, 7, ExitCode(err))
	})

	t.Run("degraded run exits with 3", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, ExitDegraded, ExitCode(fmt.Errorf("mysql install %w", ErrDegraded)))
	})
}

func TestArgumentErrorMatchesKind(t *testing.T) {
	t.Parallel()

	missing := NewMissingArgumentError("db_user")
	require.ErrorIs(t, missing, ErrMissingArgument)
	require.NotErrorIs(t, missing, ErrInvalidArgument)
	require.Equal(t, "missing required argument <db_user>", missing.Error())

	invalid := NewInvalidArgumentError("db_name", "only letters, digits and underscore are allowed")
	require.ErrorIs(t, invalid, ErrInvalidArgument)
	require.NotErrorIs(t, invalid, ErrMissingArgument)
}

func TestCommandErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewCommandError("systemctl", []string{"start", "mysqld"}, "", "Unit mysqld.service not found.\n", 5, errors.New("exit status 5"))
	require.Equal(t, "command failed: systemctl start mysqld (exit status 5)\nstderr: Unit mysqld.service not found.", err.Error())

	var target *CommandError
	require.True(t, errors.As(NewStepError("Start mysqld", err), &target))
	require.Equal(t, 5, target.ExitCode)
}
