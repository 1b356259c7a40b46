package mysql

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"hostprov.dev/hostprov/internal/system"
)

// Credential is one way of authenticating as root@localhost
type Credential struct {
	// Label names the credential in the report
	Label string
	// Password is empty for a passwordless login
	Password string
	// Expired allows a login with an expired password, which MySQL only
	// accepts for ALTER USER
	Expired bool
}

// Client runs SQL through the mysql command line client. Statements travel on
// stdin and passwords through MYSQL_PWD so neither shows up in process lists
// or logs.
type Client struct {
	runner system.Runner
}

// NewClient creates a Client on top of runner
func NewClient(runner system.Runner) *Client {
	return &Client{runner: runner}
}

// Exec runs statements as root with cred
func (c *Client) Exec(ctx context.Context, cred Credential, statements string) (string, error) {
	args := []string{"--user=root", "--batch", "--skip-column-names"}
	if cred.Expired {
		args = append(args, "--connect-expired-password")
	}
	opts := system.RunOptions{Input: statements}
	if cred.Password != "" {
		opts.Env = []string{"MYSQL_PWD=" + cred.Password}
	}
	return c.runner.RunWithOptions(ctx, opts, "mysql", args...)
}

// Works reports whether cred can log in and run a query
func (c *Client) Works(ctx context.Context, cred Credential) bool {
	_, err := c.Exec(ctx, cred, probeSQL)
	return err == nil
}

var temporaryPasswordPattern = regexp.MustCompile(`temporary password is generated for root@localhost: (\S+)`)

// TemporaryPassword extracts the one-time root password mysqld writes to its
// log on first start. The last occurrence wins when the data dir was
// initialized more than once.
func TemporaryPassword(logContent string) (string, bool) {
	matches := temporaryPasswordPattern.FindAllStringSubmatch(logContent, -1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[len(matches)-1][1], true
}

// ReadTemporaryPassword reads the server log and extracts the temporary password
func ReadTemporaryPassword(logFile string) (string, bool, error) {
	data, err := os.ReadFile(logFile)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", logFile, err)
	}
	pw, ok := TemporaryPassword(string(data))
	return pw, ok, nil
}
