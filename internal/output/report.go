// Package output accumulates per-step results of a provisioning run and
// renders them as the final summary.
package output

import (
	"fmt"
	"strings"

	hperrors "hostprov.dev/hostprov/internal/errors"
)

// Status is the outcome of a single step
type Status string

const (
	// StatusOK means the step found the host already in the desired state
	StatusOK Status = "ok"
	// StatusChanged means the step modified the host
	StatusChanged Status = "changed"
	// StatusSkipped means the step did not apply
	StatusSkipped Status = "skipped"
	// StatusWarning means a best-effort step failed, or succeeded ambiguously
	StatusWarning Status = "warning"
	// StatusFailed means a step failed; the run is degraded or aborted
	StatusFailed Status = "failed"
)

// Outcome is the overall result of a run
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeDegraded Outcome = "degraded"
	OutcomeFailed   Outcome = "failed"
)

// StepResult records what one step did
type StepResult struct {
	Name    string
	Status  Status
	Message string
	// Fatal marks the failure that aborted the run
	Fatal bool
}

// Logger receives a line per recorded step as it happens
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Report is the accumulated result of a provisioning run. It is built up
// step by step and never persisted.
type Report struct {
	Title string
	Steps []StepResult
	Notes []string

	logger Logger
}

// NewReport creates a report; logger may be nil
func NewReport(title string, logger Logger) *Report {
	return &Report{Title: title, logger: logger}
}

// Add records a step result and echoes it to the logger
func (r *Report) Add(step StepResult) StepResult {
	r.Steps = append(r.Steps, step)
	if r.logger == nil {
		return step
	}

	line := fmt.Sprintf("%s %s", statusIcon(step.Status), step.Name)
	if step.Message != "" {
		line += ": " + step.Message
	}
	switch step.Status {
	case StatusWarning:
		r.logger.Warn("%s", line)
	case StatusFailed:
		r.logger.Error("%s", line)
	default:
		r.logger.Info("%s", line)
	}
	return step
}

// OK records a step that found nothing to do
func (r *Report) OK(name, format string, args ...interface{}) {
	r.Add(StepResult{Name: name, Status: StatusOK, Message: sprintf(format, args...)})
}

// Changed records a step that modified the host
func (r *Report) Changed(name, format string, args ...interface{}) {
	r.Add(StepResult{Name: name, Status: StatusChanged, Message: sprintf(format, args...)})
}

// Skipped records a step that did not apply
func (r *Report) Skipped(name, format string, args ...interface{}) {
	r.Add(StepResult{Name: name, Status: StatusSkipped, Message: sprintf(format, args...)})
}

// Warn records an advisory failure; the run continues
func (r *Report) Warn(name string, err error) {
	r.Add(StepResult{Name: name, Status: StatusWarning, Message: errorSummary(err)})
}

// Warnf records an advisory condition with a custom message
func (r *Report) Warnf(name, format string, args ...interface{}) {
	r.Add(StepResult{Name: name, Status: StatusWarning, Message: sprintf(format, args...)})
}

// Fail records a non-fatal failure; the run continues but ends degraded
func (r *Report) Fail(name string, err error) {
	r.Add(StepResult{Name: name, Status: StatusFailed, Message: errorSummary(err)})
}

// Abort records a fatal failure and returns the error that ends the run
func (r *Report) Abort(name string, err error) error {
	r.Add(StepResult{Name: name, Status: StatusFailed, Message: errorSummary(err), Fatal: true})
	return hperrors.NewStepError(name, err)
}

// Note appends a line to the final-state section of the summary
func (r *Report) Note(format string, args ...interface{}) {
	r.Notes = append(r.Notes, sprintf(format, args...))
}

// Step returns the first recorded result with the given name
func (r *Report) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Count returns how many steps ended with status
func (r *Report) Count(status Status) int {
	n := 0
	for _, s := range r.Steps {
		if s.Status == status {
			n++
		}
	}
	return n
}

// Outcome summarizes the run. Advisory warnings alone do not degrade it.
func (r *Report) Outcome() Outcome {
	degraded := false
	for _, s := range r.Steps {
		if s.Fatal {
			return OutcomeFailed
		}
		if s.Status == StatusFailed {
			degraded = true
		}
	}
	if degraded {
		return OutcomeDegraded
	}
	return OutcomeSuccess
}

// Err returns ErrDegraded when a non-fatal step failed, so the process can
// signal partial success through its exit status.
func (r *Report) Err() error {
	if r.Outcome() == OutcomeDegraded {
		return fmt.Errorf("%s %w (%d failed step(s))", strings.ToLower(r.Title), hperrors.ErrDegraded, r.Count(StatusFailed))
	}
	return nil
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// errorSummary keeps the first line of an error; command errors carry
// captured stderr on the following lines, which belongs in the log file.
func errorSummary(err error) string {
	if err == nil {
		return ""
	}
	first, _, _ := strings.Cut(err.Error(), "\n")
	return first
}
