// Package runtime provides a context type that holds the collaborators every
// provisioning action needs. This avoids passing multiple parameters.
package runtime

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"hostprov.dev/hostprov/internal/config"
	hperrors "hostprov.dev/hostprov/internal/errors"
	"hostprov.dev/hostprov/internal/host"
	"hostprov.dev/hostprov/internal/system"
	"hostprov.dev/hostprov/internal/tui"
)

// Context provides access to the runner, output and settings for actions
type Context struct {
	context.Context

	Splog     *tui.Splog
	Runner    system.Runner
	Settings  *config.Settings
	Confirmer tui.Confirmer
	Targets   []host.Target
	RunID     string

	// IsRoot reports whether the process has the privileges to change the host
	IsRoot func() bool
	// Now is the clock used for backup timestamps
	Now func() time.Time
}

// Options configures NewContext
type Options struct {
	ConfigFile string
	Debug      bool
}

// NewContext creates a context that talks to the real host
func NewContext(ctx context.Context, opts Options) (*Context, error) {
	settings, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	debug := opts.Debug || os.Getenv("DEBUG") != ""
	splog, err := tui.NewSplogWithConfig(os.Stdout, debug, tui.LogFileOptions{
		Path:       tui.GetLogFilePath(settings.Log.File),
		MaxSize:    settings.Log.MaxSize,
		MaxBackups: settings.Log.MaxBackups,
		MaxAge:     settings.Log.MaxAge,
	}, runID)
	if err != nil {
		// A read-only log location must not block provisioning
		splog = tui.NewSplogWithWriter(os.Stdout, debug)
		splog.Warn("file logging disabled: %v", err)
	}

	return &Context{
		Context:   ctx,
		Splog:     splog,
		Runner:    &loggingRunner{next: system.NewCommandRunner(), splog: splog},
		Settings:  settings,
		Confirmer: tui.SurveyConfirmer{},
		Targets:   host.DefaultTargets,
		RunID:     runID,
		IsRoot:    func() bool { return os.Geteuid() == 0 },
		Now:       time.Now,
	}, nil
}

// RequireSupportedHost runs the checks that must pass before any change is
// made: the OS must be a supported target and the process must be root.
func (c *Context) RequireSupportedHost() (host.Profile, error) {
	profile, target, err := host.Detect(c.Settings.Host.OSReleaseFile, c.Targets)
	if err != nil {
		return profile, err
	}
	c.Splog.Debug("Detected %s (target %s)", profile, target.Name)

	if c.IsRoot != nil && !c.IsRoot() {
		return profile, hperrors.ErrNotRoot
	}
	return profile, nil
}

// Close releases the log file
func (c *Context) Close() error {
	if c.Splog == nil {
		return nil
	}
	return c.Splog.Close()
}

// loggingRunner echoes every command to the debug log before running it
type loggingRunner struct {
	next  system.Runner
	splog *tui.Splog
}

func (r *loggingRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	return r.RunWithOptions(ctx, system.RunOptions{}, name, args...)
}

func (r *loggingRunner) RunWithOptions(ctx context.Context, opts system.RunOptions, name string, args ...string) (string, error) {
	r.splog.Debug("$ %s", commandLine(name, args))
	out, err := r.next.RunWithOptions(ctx, opts, name, args...)
	if err != nil {
		r.splog.Debug("%v", err)
	}
	return out, err
}

func (r *loggingRunner) LookPath(name string) (string, error) {
	return r.next.LookPath(name)
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
