// Package host identifies the operating system hostprov is running on and
// decides whether it is a supported provisioning target.
package host

import (
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/joho/godotenv"

	hperrors "hostprov.dev/hostprov/internal/errors"
)

// Profile is the identity of the host read from os-release
type Profile struct {
	ID         string
	VersionID  string
	PrettyName string
}

func (p Profile) String() string {
	if p.PrettyName != "" {
		return p.PrettyName
	}
	return strings.TrimSpace(p.ID + " " + p.VersionID)
}

// Target is a supported operating system family and version range
type Target struct {
	Name       string
	IDs        []string
	Constraint string
}

// DefaultTargets are Amazon Linux 2023 and RHEL 9
var DefaultTargets = []Target{
	{Name: "Amazon Linux 2023", IDs: []string{"amzn"}, Constraint: "~2023"},
	{Name: "RHEL 9", IDs: []string{"rhel", "rocky", "almalinux"}, Constraint: "~9"},
}

// ReadProfile parses an os-release file. The format is shell-compatible
// KEY=value lines, which godotenv understands, quotes included.
func ReadProfile(path string) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return Profile{}, err
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return Profile{
		ID:         strings.ToLower(values["ID"]),
		VersionID:  values["VERSION_ID"],
		PrettyName: values["PRETTY_NAME"],
	}, nil
}

// Match returns the target the profile satisfies
func Match(p Profile, targets []Target) (Target, error) {
	if p.ID == "" {
		return Target{}, hperrors.NewUnsupportedOSError("", "", "os-release has no ID")
	}

	idKnown := false
	for _, t := range targets {
		if !containsID(t.IDs, p.ID) {
			continue
		}
		idKnown = true

		constraint, err := semver.NewConstraint(t.Constraint)
		if err != nil {
			return Target{}, fmt.Errorf("bad version constraint for %s: %w", t.Name, err)
		}
		version, err := semver.NewVersion(p.VersionID)
		if err != nil {
			continue
		}
		if constraint.Check(version) {
			return t, nil
		}
	}

	if idKnown {
		return Target{}, hperrors.NewUnsupportedOSError(p.ID, p.VersionID, "version is not supported (expected "+targetNames(targets)+")")
	}
	return Target{}, hperrors.NewUnsupportedOSError(p.ID, p.VersionID, "expected "+targetNames(targets))
}

// Detect reads the os-release file and checks it against targets
func Detect(path string, targets []Target) (Profile, Target, error) {
	p, err := ReadProfile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, Target{}, hperrors.NewUnsupportedOSError("", "", path+" not found")
		}
		return Profile{}, Target{}, hperrors.NewUnsupportedOSError("", "", err.Error())
	}
	t, err := Match(p, targets)
	return p, t, err
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func targetNames(targets []Target) string {
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.Name)
	}
	return strings.Join(names, " or ")
}
