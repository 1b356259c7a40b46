// Package mysql installs, configures and uninstalls MySQL 8 Community Server.
package mysql

import (
	"fmt"
	"regexp"
	"strings"

	hperrors "hostprov.dev/hostprov/internal/errors"
)

// Identifier limits enforced by MySQL 8
const (
	MaxDatabaseNameLen = 64
	MaxUserNameLen     = 32
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// InstallRequest is the validated argument list of mysql install
type InstallRequest struct {
	DBName       string
	DBUser       string
	DBPassword   string
	RootPassword string
	AllowRemote  bool

	// DefaultRoot is set when RootPassword was not supplied
	DefaultRoot bool
}

// AccountHost is the host part of the application account
func (r InstallRequest) AccountHost() string {
	if r.AllowRemote {
		return "%"
	}
	return "localhost"
}

// BindAddress is the address mysqld listens on
func (r InstallRequest) BindAddress() string {
	if r.AllowRemote {
		return "0.0.0.0"
	}
	return "127.0.0.1"
}

// ParseInstallArgs builds a request from
// <db_name> <db_user> <db_password> [root_password] [allow_remote]
func ParseInstallArgs(args []string, defaultRootPassword string) (InstallRequest, error) {
	names := []string{"db_name", "db_user", "db_password"}
	for i, name := range names {
		if len(args) <= i || args[i] == "" {
			return InstallRequest{}, hperrors.NewMissingArgumentError(name)
		}
	}
	if len(args) > 5 {
		return InstallRequest{}, hperrors.NewInvalidArgumentError("arguments", fmt.Sprintf("expected at most 5, got %d", len(args)))
	}

	req := InstallRequest{
		DBName:       args[0],
		DBUser:       args[1],
		DBPassword:   args[2],
		RootPassword: defaultRootPassword,
		DefaultRoot:  true,
	}
	if len(args) > 3 && args[3] != "" {
		req.RootPassword = args[3]
		req.DefaultRoot = false
	}
	if len(args) > 4 {
		remote, err := ParseAllowRemote(args[4])
		if err != nil {
			return InstallRequest{}, err
		}
		req.AllowRemote = remote
	}
	return req, req.Validate()
}

// ParseAllowRemote accepts yes or no, case-insensitively
func ParseAllowRemote(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "yes":
		return true, nil
	case "no", "":
		return false, nil
	}
	return false, hperrors.NewInvalidArgumentError("allow_remote", fmt.Sprintf("must be yes or no, got %q", value))
}

// Validate checks the request before anything touches the host
func (r InstallRequest) Validate() error {
	if err := validateIdentifier("db_name", r.DBName, MaxDatabaseNameLen); err != nil {
		return err
	}
	if err := validateIdentifier("db_user", r.DBUser, MaxUserNameLen); err != nil {
		return err
	}
	if r.DBPassword == "" {
		return hperrors.NewMissingArgumentError("db_password")
	}
	if r.RootPassword == "" {
		return hperrors.NewMissingArgumentError("root_password")
	}
	return nil
}

func validateIdentifier(name, value string, maxLen int) error {
	if value == "" {
		return hperrors.NewMissingArgumentError(name)
	}
	if len(value) > maxLen {
		return hperrors.NewInvalidArgumentError(name, fmt.Sprintf("longer than %d characters", maxLen))
	}
	if !identifierPattern.MatchString(value) {
		return hperrors.NewInvalidArgumentError(name, "only letters, digits and underscore are allowed")
	}
	return nil
}

// UninstallOptions are the flags of mysql uninstall
type UninstallOptions struct {
	PurgeData  bool
	RemoveKeys bool
	AssumeYes  bool
}
