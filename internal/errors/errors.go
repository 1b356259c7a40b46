// Package errors provides sentinel errors and custom error types for hostprov.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes returned by the hostprov binary.
const (
	ExitOK           = 0
	ExitPrecondition = 1
	ExitDegraded     = 3
)

// Sentinel errors for precondition failures. All of them map to ExitPrecondition.
var (
	// ErrUnsupportedOS indicates the host is not one of the supported targets
	ErrUnsupportedOS = errors.New("unsupported operating system")

	// ErrNotRoot indicates the command needs root privileges
	ErrNotRoot = errors.New("this command must be run as root")

	// ErrMissingArgument indicates a required argument was not supplied
	ErrMissingArgument = errors.New("missing required argument")

	// ErrInvalidArgument indicates an argument failed validation
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDeclined indicates the operator did not confirm a destructive action
	ErrDeclined = errors.New("operation not confirmed")

	// ErrDegraded indicates the run finished but one or more steps failed
	ErrDegraded = errors.New("completed with failures")
)

// UnsupportedOSError describes why a host profile was rejected
type UnsupportedOSError struct {
	ID        string
	VersionID string
	Reason    string
}

func (e *UnsupportedOSError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("unsupported operating system: %s", e.Reason)
	}
	return fmt.Sprintf("unsupported operating system %s %s: %s", e.ID, e.VersionID, e.Reason)
}

// Is returns true if the target error is ErrUnsupportedOS
func (e *UnsupportedOSError) Is(target error) bool {
	return target == ErrUnsupportedOS
}

// NewUnsupportedOSError creates a new UnsupportedOSError
func NewUnsupportedOSError(id, versionID, reason string) *UnsupportedOSError {
	return &UnsupportedOSError{ID: id, VersionID: versionID, Reason: reason}
}

// ArgumentError represents a missing or malformed command argument
type ArgumentError struct {
	Name    string
	Message string
	missing bool
}

func (e *ArgumentError) Error() string {
	if e.missing {
		return fmt.Sprintf("missing required argument <%s>", e.Name)
	}
	return fmt.Sprintf("invalid %s: %s", e.Name, e.Message)
}

// Is matches ErrMissingArgument or ErrInvalidArgument depending on the kind
func (e *ArgumentError) Is(target error) bool {
	if e.missing {
		return target == ErrMissingArgument
	}
	return target == ErrInvalidArgument
}

// NewMissingArgumentError creates an ArgumentError for an absent argument
func NewMissingArgumentError(name string) *ArgumentError {
	return &ArgumentError{Name: name, missing: true}
}

// NewInvalidArgumentError creates an ArgumentError for a malformed argument
func NewInvalidArgumentError(name, message string) *ArgumentError {
	return &ArgumentError{Name: name, Message: message}
}

// CommandError represents an error from an external command execution
type CommandError struct {
	Command  string
	Args     []string
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += " " + strings.Join(e.Args, " ")
	}
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit status %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", strings.TrimSpace(e.Stderr))
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", strings.TrimSpace(e.Stdout))
	}
	if e.Err != nil && e.ExitCode <= 0 {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError
func NewCommandError(command string, args []string, stdout, stderr string, exitCode int, err error) *CommandError {
	return &CommandError{
		Command:  command,
		Args:     args,
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode,
		Err:      err,
	}
}

// StepError wraps the failure of a step that aborts the run
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError creates a new StepError
func NewStepError(step string, err error) *StepError {
	return &StepError{Step: step, Err: err}
}

// ExitCode maps an error returned by a command to the process exit status.
// Fatal steps propagate the exit status of the external command that failed.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	switch {
	case errors.Is(err, ErrUnsupportedOS),
		errors.Is(err, ErrNotRoot),
		errors.Is(err, ErrMissingArgument),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrDeclined):
		return ExitPrecondition
	case errors.Is(err, ErrDegraded):
		return ExitDegraded
	}

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return cmdErr.ExitCode
	}
	return ExitPrecondition
}
