package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. HOSTPROV_MYSQL_DATA_DIR
const EnvPrefix = "HOSTPROV"

// DefaultConfigFile is read when present and no --config flag is given
const DefaultConfigFile = "/etc/hostprov/hostprov.yaml"

// Settings holds every path, URL and tunable used by the provisioning steps
type Settings struct {
	Host      HostSettings      `mapstructure:"host"`
	MySQL     MySQLSettings     `mapstructure:"mysql"`
	Nginx     NginxSettings     `mapstructure:"nginx"`
	Backup    BackupSettings    `mapstructure:"backup"`
	Readiness ReadinessSettings `mapstructure:"readiness"`
	Log       LogSettings       `mapstructure:"log"`
}

// HostSettings configures host detection
type HostSettings struct {
	OSReleaseFile string `mapstructure:"os_release_file"`
}

// MySQLSettings configures the MySQL install and uninstall
type MySQLSettings struct {
	RepoRPMURL          string   `mapstructure:"repo_rpm_url"`
	GPGKeyURL           string   `mapstructure:"gpg_key_url"`
	ServerPackage       string   `mapstructure:"server_package"`
	Packages            []string `mapstructure:"packages"`
	Service             string   `mapstructure:"service"`
	Binary              string   `mapstructure:"binary"`
	DataDir             string   `mapstructure:"data_dir"`
	ConfigFile          string   `mapstructure:"config_file"`
	LogFile             string   `mapstructure:"log_file"`
	Port                int      `mapstructure:"port"`
	DefaultRootPassword string   `mapstructure:"default_root_password"`
	KeyPattern          string   `mapstructure:"key_pattern"`
}

// NginxSettings configures the nginx install and uninstall
type NginxSettings struct {
	Packages []string `mapstructure:"packages"`
	Service  string   `mapstructure:"service"`
	Binary   string   `mapstructure:"binary"`
	ConfDir  string   `mapstructure:"conf_dir"`
	SiteDir  string   `mapstructure:"site_dir"`
	LogDir   string   `mapstructure:"log_dir"`
	WebRoot  string   `mapstructure:"web_root"`
}

// BackupSettings configures where uninstall archives land
type BackupSettings struct {
	Dir string `mapstructure:"dir"`
}

// ReadinessSettings is the fixed budget of the service readiness poll
type ReadinessSettings struct {
	Attempts int           `mapstructure:"attempts"`
	Interval time.Duration `mapstructure:"interval"`
}

// LogSettings configures the rotating log file
type LogSettings struct {
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// MySQLPortRule returns the firewalld port spec, e.g. "3306/tcp"
func (s MySQLSettings) MySQLPortRule() string {
	return fmt.Sprintf("%d/tcp", s.Port)
}

// SetDefaults registers the built-in defaults on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host.os_release_file", "/etc/os-release")

	v.SetDefault("mysql.repo_rpm_url", "https://dev.mysql.com/get/mysql80-community-release-el9-1.noarch.rpm")
	v.SetDefault("mysql.gpg_key_url", "https://repo.mysql.com/RPM-GPG-KEY-mysql-2023")
	v.SetDefault("mysql.server_package", "mysql-community-server")
	v.SetDefault("mysql.packages", []string{
		"mysql-community-server",
		"mysql-community-client",
		"mysql-community-client-plugins",
		"mysql-community-common",
		"mysql-community-icu-data-files",
		"mysql-community-libs",
		"mysql80-community-release",
	})
	v.SetDefault("mysql.service", "mysqld")
	v.SetDefault("mysql.binary", "mysqld")
	v.SetDefault("mysql.data_dir", "/var/lib/mysql")
	v.SetDefault("mysql.config_file", "/etc/my.cnf")
	v.SetDefault("mysql.log_file", "/var/log/mysqld.log")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.default_root_password", "ChangeMe#Root2024")
	v.SetDefault("mysql.key_pattern", "mysql")

	v.SetDefault("nginx.packages", []string{"nginx", "nginx-core", "nginx-filesystem"})
	v.SetDefault("nginx.service", "nginx")
	v.SetDefault("nginx.binary", "nginx")
	v.SetDefault("nginx.conf_dir", "/etc/nginx")
	v.SetDefault("nginx.site_dir", "/etc/nginx/conf.d")
	v.SetDefault("nginx.log_dir", "/var/log/nginx")
	v.SetDefault("nginx.web_root", "/var/www/html")

	v.SetDefault("backup.dir", "/root/hostprov-backups")

	v.SetDefault("readiness.attempts", 30)
	v.SetDefault("readiness.interval", 2*time.Second)

	v.SetDefault("log.file", "/var/log/hostprov/hostprov.log")
	v.SetDefault("log.max_size", 1)
	v.SetDefault("log.max_backups", 2)
	v.SetDefault("log.max_age", 30)
}

// Load reads settings from defaults, an optional YAML file and HOSTPROV_*
// environment variables, in increasing order of precedence. A .env file in
// the working directory is loaded into the environment first.
func Load(configFile string) (*Settings, error) {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			configFile = DefaultConfigFile
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				return nil, fmt.Errorf("config file %s not found", configFile)
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Defaults returns the built-in settings without consulting files or environment
func Defaults() *Settings {
	v := viper.New()
	SetDefaults(v)
	var settings Settings
	// Defaults are static and always decode
	_ = v.Unmarshal(&settings)
	return &settings
}

// Validate checks settings that would make every run fail in confusing ways
func (s *Settings) Validate() error {
	if s.Readiness.Attempts < 1 {
		return fmt.Errorf("readiness.attempts must be at least 1, got %d", s.Readiness.Attempts)
	}
	if s.Readiness.Interval < 0 {
		return fmt.Errorf("readiness.interval must not be negative")
	}
	if s.MySQL.Port < 1 || s.MySQL.Port > 65535 {
		return fmt.Errorf("mysql.port out of range: %d", s.MySQL.Port)
	}
	if s.MySQL.DataDir == "" || s.MySQL.DataDir == "/" {
		return fmt.Errorf("mysql.data_dir must be set to a dedicated directory")
	}
	if s.Nginx.WebRoot == "" || s.Nginx.WebRoot == "/" {
		return fmt.Errorf("nginx.web_root must be set to a dedicated directory")
	}
	return nil
}
