package testhelpers

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	hperrors "hostprov.dev/hostprov/internal/errors"
	"hostprov.dev/hostprov/internal/system"
)

// Call is one command the code under test ran
type Call struct {
	Name  string
	Args  []string
	Input string
	Env   []string
}

// String returns the command line, e.g. "dnf install -y nginx"
func (c Call) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// HasEnv reports whether the call carried the exact KEY=value pair
func (c Call) HasEnv(pair string) bool {
	for _, e := range c.Env {
		if e == pair {
			return true
		}
	}
	return false
}

// ResponseFunc computes the result of a scripted command
type ResponseFunc func(call Call) (string, error)

type scripted struct {
	prefix    string
	remaining int // 0 means unlimited
	respond   ResponseFunc
}

// FakeRunner is a scripted system.Runner. Commands are matched by prefix of
// their command line, in registration order; unmatched commands succeed with
// empty output. Every call is recorded.
type FakeRunner struct {
	mu      sync.Mutex
	calls   []Call
	scripts []*scripted
	missing map[string]bool
}

var _ system.Runner = (*FakeRunner)(nil)

// NewFakeRunner creates a FakeRunner where every command succeeds
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{missing: map[string]bool{}}
}

// On scripts output for commands starting with prefix
func (f *FakeRunner) On(prefix, output string) *FakeRunner {
	return f.OnFunc(prefix, func(Call) (string, error) { return output, nil })
}

// Fail scripts a non-zero exit for commands starting with prefix
func (f *FakeRunner) Fail(prefix string, exitCode int, stderr string) *FakeRunner {
	return f.OnFunc(prefix, func(c Call) (string, error) {
		return "", CommandFailure(c, exitCode, stderr)
	})
}

// FailTimes scripts n failures for prefix; later calls fall through to the
// next matching script
func (f *FakeRunner) FailTimes(prefix string, n int, exitCode int, stderr string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts = append(f.scripts, &scripted{prefix: prefix, remaining: n, respond: func(c Call) (string, error) {
		return "", CommandFailure(c, exitCode, stderr)
	}})
	return f
}

// OnFunc scripts a computed response for commands starting with prefix
func (f *FakeRunner) OnFunc(prefix string, fn ResponseFunc) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts = append(f.scripts, &scripted{prefix: prefix, respond: fn})
	return f
}

// Missing makes LookPath fail for the named executables
func (f *FakeRunner) Missing(names ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		f.missing[n] = true
	}
	return f
}

// Run implements system.Runner
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	return f.RunWithOptions(ctx, system.RunOptions{}, name, args...)
}

// RunWithOptions implements system.Runner
func (f *FakeRunner) RunWithOptions(_ context.Context, opts system.RunOptions, name string, args ...string) (string, error) {
	call := Call{Name: name, Args: append([]string(nil), args...), Input: opts.Input, Env: append([]string(nil), opts.Env...)}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	if f.missing[name] {
		f.mu.Unlock()
		return "", hperrors.NewCommandError(name, args, "", "", -1, exec.ErrNotFound)
	}
	var respond ResponseFunc
	line := call.String()
	for _, s := range f.scripts {
		if !strings.HasPrefix(line, s.prefix) || s.remaining < 0 {
			continue
		}
		if s.remaining > 0 {
			s.remaining--
			if s.remaining == 0 {
				s.remaining = -1
			}
		}
		respond = s.respond
		break
	}
	f.mu.Unlock()

	if respond == nil {
		return "", nil
	}
	return respond(call)
}

// LookPath implements system.Runner
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[name] {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return "/usr/bin/" + name, nil
}

// Calls returns every recorded call
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Commands returns every recorded command line
func (f *FakeRunner) Commands() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// CallsWithPrefix returns the recorded calls whose command line starts with prefix
func (f *FakeRunner) CallsWithPrefix(prefix string) []Call {
	matched := []Call{}
	for _, c := range f.Calls() {
		if strings.HasPrefix(c.String(), prefix) {
			matched = append(matched, c)
		}
	}
	return matched
}

// Ran reports whether any command started with prefix
func (f *FakeRunner) Ran(prefix string) bool {
	return f.Index(prefix) >= 0
}

// Index returns the position of the first command starting with prefix, or -1
func (f *FakeRunner) Index(prefix string) int {
	for i, line := range f.Commands() {
		if strings.HasPrefix(line, prefix) {
			return i
		}
	}
	return -1
}

// CommandFailure builds the error a real runner returns for a non-zero exit
func CommandFailure(c Call, exitCode int, stderr string) error {
	return hperrors.NewCommandError(c.Name, c.Args, "", stderr, exitCode, fmt.Errorf("exit status %d", exitCode))
}
