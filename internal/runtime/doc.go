// Package runtime provides the execution context for hostprov commands.
//
// It bundles the collaborators actions need: the command runner, the
// logger, the loaded settings, the confirmation prompt and the host checks.
package runtime
