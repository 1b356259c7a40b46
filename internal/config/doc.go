// Package config manages hostprov settings.
//
// Settings come from, in increasing order of precedence:
//   - Built-in defaults matching a stock Amazon Linux 2023 / RHEL 9 host
//   - A YAML file (--config, or /etc/hostprov/hostprov.yaml when present)
//   - HOSTPROV_* environment variables, optionally loaded from a .env file
package config
