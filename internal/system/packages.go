package system

import (
	"context"
	"regexp"
	"strings"
)

// GPGKey is an imported rpm signing key (a gpg-pubkey pseudo package)
type GPGKey struct {
	Name    string // gpg-pubkey-<version>-<release>
	Summary string
}

// IsInstalled reports whether rpm knows the package. rpm -q exits non-zero
// for "package X is not installed".
func IsInstalled(ctx context.Context, r Runner, pkg string) bool {
	_, err := r.Run(ctx, "rpm", "-q", pkg)
	return err == nil
}

// InstalledPackages filters pkgs down to the ones that are installed
func InstalledPackages(ctx context.Context, r Runner, pkgs []string) []string {
	installed := []string{}
	for _, pkg := range pkgs {
		if IsInstalled(ctx, r, pkg) {
			installed = append(installed, pkg)
		}
	}
	return installed
}

// InstallPackages installs packages or package URLs non-interactively
func InstallPackages(ctx context.Context, r Runner, pkgs ...string) error {
	args := append([]string{"install", "-y"}, pkgs...)
	_, err := r.Run(ctx, "dnf", args...)
	return err
}

// RemovePackages removes packages non-interactively
func RemovePackages(ctx context.Context, r Runner, pkgs ...string) error {
	args := append([]string{"remove", "-y"}, pkgs...)
	_, err := r.Run(ctx, "dnf", args...)
	return err
}

// CleanCache drops the dnf metadata and package caches
func CleanCache(ctx context.Context, r Runner) error {
	_, err := r.Run(ctx, "dnf", "clean", "all")
	return err
}

// ImportKey imports an rpm signing key from a file or URL
func ImportKey(ctx context.Context, r Runner, keyURL string) error {
	_, err := r.Run(ctx, "rpm", "--import", keyURL)
	return err
}

// ListGPGKeys lists the signing keys imported into the rpm database
func ListGPGKeys(ctx context.Context, r Runner) ([]GPGKey, error) {
	out, err := r.Run(ctx, "rpm", "-q", "gpg-pubkey", "--qf", `%{NAME}-%{VERSION}-%{RELEASE}\t%{SUMMARY}\n`)
	if err != nil {
		if ExitCodeOf(err) == 1 {
			// "package gpg-pubkey is not installed"
			return []GPGKey{}, nil
		}
		return nil, err
	}

	keys := []GPGKey{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, summary, _ := strings.Cut(line, "\t")
		keys = append(keys, GPGKey{Name: strings.TrimSpace(name), Summary: strings.TrimSpace(summary)})
	}
	return keys, nil
}

// MatchingGPGKeys returns the keys whose summary matches pattern, case-insensitively
func MatchingGPGKeys(keys []GPGKey, pattern string) ([]GPGKey, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	matched := []GPGKey{}
	for _, key := range keys {
		if re.MatchString(key.Summary) {
			matched = append(matched, key)
		}
	}
	return matched, nil
}

// RemoveGPGKey erases an imported signing key
func RemoveGPGKey(ctx context.Context, r Runner, key GPGKey) error {
	_, err := r.Run(ctx, "rpm", "-e", key.Name)
	return err
}
