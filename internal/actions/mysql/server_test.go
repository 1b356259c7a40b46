package mysql_test

import (
	"slices"
	"strings"
	"sync"

	"hostprov.dev/hostprov/testhelpers"
)

// fakeServer answers mysql client calls the way a freshly initialized
// mysqld would, depending on which root credentials it accepts.
type fakeServer struct {
	mu sync.Mutex

	rootPassword  string
	tempPassword  string
	passwordless  bool
	rootSet       bool
	accountExists bool
	statements    []string
}

func (m *fakeServer) respond(c testhelpers.Call) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	authed := false
	switch {
	case m.rootSet && c.HasEnv("MYSQL_PWD="+m.rootPassword):
		authed = true
	case !m.rootSet && m.tempPassword != "" && c.HasEnv("MYSQL_PWD="+m.tempPassword):
		if !slices.Contains(c.Args, "--connect-expired-password") || !strings.HasPrefix(c.Input, "ALTER USER 'root'") {
			return "", testhelpers.CommandFailure(c, 1, "ERROR 1820 (HY000): You must reset your password using ALTER USER statement")
		}
		authed = true
	case !m.rootSet && m.passwordless && len(c.Env) == 0:
		authed = true
	}
	if !authed {
		return "", testhelpers.CommandFailure(c, 1, "ERROR 1045 (28000): Access denied for user 'root'@'localhost'")
	}

	m.statements = append(m.statements, c.Input)
	switch {
	case strings.HasPrefix(c.Input, "ALTER USER 'root'"):
		m.rootSet = true
	case strings.HasPrefix(c.Input, "SELECT (SELECT COUNT"):
		if m.accountExists {
			return "2", nil
		}
		return "0", nil
	case strings.HasPrefix(c.Input, "CREATE DATABASE"):
		m.accountExists = true
	}
	return "", nil
}

func (m *fakeServer) ran(prefix string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.statements {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// freshHost scripts a host without MySQL: packages, service and firewall
// rule appear once the commands that create them have run.
func freshHost(scene *testhelpers.Scene, server *fakeServer) {
	r := scene.Runner
	after := func(prefix string, before testhelpers.ResponseFunc) testhelpers.ResponseFunc {
		return func(c testhelpers.Call) (string, error) {
			if r.Ran(prefix) {
				return "", nil
			}
			return before(c)
		}
	}
	failWith := func(code int, stderr string) testhelpers.ResponseFunc {
		return func(c testhelpers.Call) (string, error) {
			return "", testhelpers.CommandFailure(c, code, stderr)
		}
	}

	r.OnFunc("rpm -q mysql-community-server", after("dnf install -y mysql-community-server",
		failWith(1, "package mysql-community-server is not installed")))
	r.OnFunc("systemctl is-active --quiet mysqld", after("systemctl enable --now mysqld", failWith(3, "")))
	r.OnFunc("firewall-cmd --permanent --query-port=3306/tcp", after("firewall-cmd --permanent --add-port=3306/tcp", failWith(1, "no")))
	r.OnFunc("mysql ", server.respond)
}
