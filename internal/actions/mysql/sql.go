package mysql

import (
	"strings"
	"text/template"
)

var (
	// rootPasswordSQL sets the permanent root credential
	rootPasswordSQL = template.Must(template.New("root").Funcs(sqlFuncs).Parse(
		`ALTER USER 'root'@'localhost' IDENTIFIED BY {{ quote .RootPassword }};
`))

	// appAccountSQL creates the application database and account. Every
	// statement is safe to re-run; ALTER USER keeps the password in sync.
	appAccountSQL = template.Must(template.New("app").Funcs(sqlFuncs).Parse(
		`CREATE DATABASE IF NOT EXISTS ` + "`{{ .DBName }}`" + `;
CREATE USER IF NOT EXISTS '{{ .DBUser }}'@'{{ .AccountHost }}' IDENTIFIED BY {{ quote .DBPassword }};
ALTER USER '{{ .DBUser }}'@'{{ .AccountHost }}' IDENTIFIED BY {{ quote .DBPassword }};
GRANT ALL PRIVILEGES ON ` + "`{{ .DBName }}`" + `.* TO '{{ .DBUser }}'@'{{ .AccountHost }}';
FLUSH PRIVILEGES;
`))

	// accountStateSQL prints 2 when both the database and the account exist
	accountStateSQL = template.Must(template.New("state").Funcs(sqlFuncs).Parse(
		`SELECT (SELECT COUNT(*) FROM information_schema.SCHEMATA WHERE SCHEMA_NAME = {{ quote .DBName }})
  + (SELECT COUNT(*) FROM mysql.user WHERE User = {{ quote .DBUser }} AND Host = {{ quote .AccountHost }});
`))

	sqlFuncs = template.FuncMap{"quote": quoteString}
)

// probeSQL is the cheapest statement that proves a credential works
const probeSQL = "SELECT 1;\n"

// quoteString renders s as a single-quoted SQL string literal
func quoteString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

func render(t *template.Template, data interface{}) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RootPasswordSQL renders the statement that sets the root password
func RootPasswordSQL(req InstallRequest) (string, error) {
	return render(rootPasswordSQL, req)
}

// AppAccountSQL renders the database, account and grant statements
func AppAccountSQL(req InstallRequest) (string, error) {
	return render(appAccountSQL, req)
}

// AccountStateSQL renders the query that reports whether the database and
// account already exist
func AccountStateSQL(req InstallRequest) (string, error) {
	return render(accountStateSQL, req)
}
