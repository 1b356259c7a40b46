// Package system wraps the external commands hostprov drives: the package
// manager, the init system, the firewall manager, the SELinux tools and tar.
package system

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	hperrors "hostprov.dev/hostprov/internal/errors"
)

// DefaultCommandTimeout is the default timeout for a single external command.
// Package installs over a slow mirror are the long pole.
const DefaultCommandTimeout = 10 * time.Minute

// RunOptions carries the optional parts of a command invocation
type RunOptions struct {
	// Input is written to the command's stdin when non-empty
	Input string
	// Env is appended to the current process environment
	Env []string
}

// Runner executes external commands. Actions only talk to the host through
// a Runner so tests can substitute a scripted fake.
type Runner interface {
	// Run executes a command and returns its trimmed stdout
	Run(ctx context.Context, name string, args ...string) (string, error)
	// RunWithOptions executes a command with stdin and extra environment
	RunWithOptions(ctx context.Context, opts RunOptions, name string, args ...string) (string, error)
	// LookPath reports where an executable lives, like exec.LookPath
	LookPath(name string) (string, error)
}

// CommandRunner handles execution of commands on the local host
type CommandRunner struct {
	workingDir string
}

// NewCommandRunner creates a new CommandRunner
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{}
}

// NewCommandRunnerInDir creates a CommandRunner that runs commands in dir
func NewCommandRunnerInDir(dir string) *CommandRunner {
	return &CommandRunner{workingDir: dir}
}

// Run executes a command with the given context and returns the output
func (r *CommandRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	return r.RunWithOptions(ctx, RunOptions{}, name, args...)
}

// RunWithOptions executes a command with stdin input and extra environment
func (r *CommandRunner) RunWithOptions(ctx context.Context, opts RunOptions, name string, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	if opts.Input != "" {
		cmd.Stdin = strings.NewReader(opts.Input)
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = ctx.Err()
		}
		return "", hperrors.NewCommandError(name, args, stdout.String(), stderr.String(), exitStatus(err), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// LookPath searches PATH for the named executable
func (r *CommandRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func exitStatus(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// ExitCodeOf returns the exit status carried by a command error, or -1 when
// the command did not run to completion.
func ExitCodeOf(err error) int {
	var cmdErr *hperrors.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return -1
}

// StderrOf returns the captured stderr of a failed command
func StderrOf(err error) string {
	var cmdErr *hperrors.CommandError
	if errors.As(err, &cmdErr) {
		return strings.TrimSpace(cmdErr.Stderr)
	}
	return ""
}

// Available reports whether an executable can be found on PATH
func Available(r Runner, name string) bool {
	_, err := r.LookPath(name)
	return err == nil
}
