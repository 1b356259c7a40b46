// Package nginx installs nginx with a static site and removes it again.
package nginx

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	hperrors "hostprov.dev/hostprov/internal/errors"
)

// DefaultServerName is the catch-all server name
const DefaultServerName = "_"

var serverNamePattern = regexp.MustCompile(`^[A-Za-z0-9.-]+$`)

// InstallRequest configures the site nginx install serves
type InstallRequest struct {
	ServerName   string
	WebRoot      string
	OpenFirewall bool
}

// UninstallOptions are the flags of nginx uninstall
type UninstallOptions struct {
	PurgeData bool
	AssumeYes bool
}

// Validate rejects values that would produce a broken server block
func (r InstallRequest) Validate() error {
	if r.ServerName != DefaultServerName && !serverNamePattern.MatchString(r.ServerName) {
		return hperrors.NewInvalidArgumentError("server-name", fmt.Sprintf("%q is not a host name", r.ServerName))
	}
	if !filepath.IsAbs(r.WebRoot) || filepath.Clean(r.WebRoot) == "/" {
		return hperrors.NewInvalidArgumentError("web-root", "must be an absolute path below /")
	}
	if strings.ContainsAny(r.WebRoot, " \t\n;{}") {
		return hperrors.NewInvalidArgumentError("web-root", "must not contain whitespace, ';' or braces")
	}
	return nil
}

// SiteName is the base name of the generated files
func (r InstallRequest) SiteName() string {
	if r.ServerName == DefaultServerName {
		return "hostprov"
	}
	return r.ServerName
}

var siteTemplate = template.Must(template.New("site").Parse(`# Managed by hostprov. Changes are overwritten on the next install.
server {
    listen       80;
    listen       [::]:80;
    server_name  {{ .ServerName }};
    root         {{ .WebRoot }};
    index        index.html;

    access_log   {{ .LogDir }}/{{ .SiteName }}.access.log;
    error_log    {{ .LogDir }}/{{ .SiteName }}.error.log;

    location / {
        try_files $uri $uri/ =404;
    }
}
`))

const indexPage = `<!DOCTYPE html>
<html>
<head><title>It works</title></head>
<body><h1>It works</h1><p>Served by nginx, provisioned by hostprov.</p></body>
</html>
`

type siteData struct {
	InstallRequest
	LogDir string
}

// RenderSite renders the server block for req
func RenderSite(req InstallRequest, logDir string) (string, error) {
	var b strings.Builder
	if err := siteTemplate.Execute(&b, siteData{InstallRequest: req, LogDir: logDir}); err != nil {
		return "", err
	}
	return b.String(), nil
}

// writeIfChanged writes content to path unless it already holds exactly that
func writeIfChanged(path, content string, perm os.FileMode) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && string(existing) == content {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return false, err
	}
	return true, nil
}
