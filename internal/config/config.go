package config

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoEnvironment is returned when a run has no target environment selected.
	ErrNoEnvironment = errors.New("no environment selected (use --env or " + EnvVarEnvironment + ")")

	// ErrUnknownEnvironment is returned when the selected environment is not configured.
	ErrUnknownEnvironment = errors.New("unknown environment")
)

// Config is the root devprov configuration.
type Config struct {
	// ProjectRoot is the local project directory. Relative values are
	// resolved against the config file location.
	ProjectRoot string `yaml:"project_root,omitempty"`

	// RemoteProjectRoot is where the project is synced on the target.
	RemoteProjectRoot string `yaml:"remote_project_root,omitempty"`

	// TemplatesDir is relative to ProjectRoot.
	TemplatesDir string `yaml:"templates_dir,omitempty"`

	// RemoteTemplatesDir is relative to RemoteProjectRoot.
	RemoteTemplatesDir string `yaml:"remote_templates_dir,omitempty"`

	Timezone string `yaml:"timezone,omitempty"`

	Apt      AptConfig      `yaml:"apt,omitempty"`
	Packages PackagesConfig `yaml:"packages,omitempty"`
	Shell    ShellConfig    `yaml:"shell,omitempty"`
	Analysis AnalysisConfig `yaml:"analysis,omitempty"`
	Web      WebConfig      `yaml:"web,omitempty"`
	Report   ReportConfig   `yaml:"report,omitempty"`

	Environments map[string]Environment `yaml:"environments"`
}

// AptConfig controls package index refreshes.
type AptConfig struct {
	MaxAge Duration `yaml:"max_age,omitempty"`
}

// PackagesConfig names the requirement files.
type PackagesConfig struct {
	// DebianFile is read locally, relative to ProjectRoot.
	DebianFile string `yaml:"debian_file,omitempty"`

	// PythonFile is installed on the target, relative to RemoteProjectRoot.
	PythonFile string `yaml:"python_file,omitempty"`

	Pip string `yaml:"pip,omitempty"`
}

// ShellConfig describes the login user on the target.
type ShellConfig struct {
	User    string `yaml:"user,omitempty"`
	Home    string `yaml:"home,omitempty"`
	Profile string `yaml:"profile,omitempty"`
}

// AnalysisConfig describes the rendered analysis config and data directory.
type AnalysisConfig struct {
	// Template is looked up under the local templates directory.
	Template string            `yaml:"template,omitempty"`
	Dest     string            `yaml:"dest,omitempty"`
	DataDir  string            `yaml:"data_dir,omitempty"`
	Vars     map[string]string `yaml:"vars,omitempty"`
}

// WebConfig describes the web server layout on the target.
type WebConfig struct {
	ApacheService string              `yaml:"apache_service,omitempty"`
	CronService   string              `yaml:"cron_service,omitempty"`
	SSLDir        string              `yaml:"ssl_dir,omitempty"`
	ConfigDir     string              `yaml:"config_dir,omitempty"`
	SimpleSAMLphp SimpleSAMLphpConfig `yaml:"simplesamlphp,omitempty"`
}

// SimpleSAMLphpConfig holds the SimpleSAMLphp paths on the target.
type SimpleSAMLphpConfig struct {
	ModuleEnable string `yaml:"module_enable,omitempty"`
	ApacheConf   string `yaml:"apache_conf,omitempty"`
	ApacheLink   string `yaml:"apache_link,omitempty"`
}

// ReportConfig controls run report persistence.
type ReportConfig struct {
	// Dir is relative to ProjectRoot unless absolute. "-" disables the store.
	Dir string `yaml:"dir,omitempty"`

	// MetricsFile, when set, receives a Prometheus text exposition of the run.
	MetricsFile string `yaml:"metrics_file,omitempty"`

	S3 S3Config `yaml:"s3,omitempty"`
}

// S3Config configures report archival. Credentials come from the
// environment (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY).
type S3Config struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Bucket   string `yaml:"bucket,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// Enabled reports whether archival is configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Environment is a named provisioning target.
type Environment struct {
	// Vagrant resolves SSH settings through `vagrant ssh-config Machine`.
	Vagrant bool   `yaml:"vagrant,omitempty"`
	Machine string `yaml:"machine,omitempty"`

	Host         string `yaml:"host,omitempty"`
	Port         int    `yaml:"port,omitempty"`
	User         string `yaml:"user,omitempty"`
	IdentityFile string `yaml:"identity_file,omitempty"`
	KnownHosts   string `yaml:"known_hosts,omitempty"`
	UseAgent     bool   `yaml:"use_agent,omitempty"`

	// Provider is exposed to templates to tell environments apart.
	Provider string `yaml:"provider,omitempty"`
}

// Duration is a time.Duration that unmarshals from "168h" style strings
// or from a plain number of seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// ParseDuration accepts a Go duration string or an integer number of seconds.
func ParseDuration(s string) (time.Duration, error) {
	if seconds, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: expected seconds or a value like 168h", s)
	}
	return d, nil
}

// Environment returns the named environment. An empty name yields
// ErrNoEnvironment.
func (c *Config) Environment(name string) (*Environment, error) {
	if name == "" {
		return nil, ErrNoEnvironment
	}
	env, ok := c.Environments[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (configured: %v)", ErrUnknownEnvironment, name, c.EnvironmentNames())
	}
	return &env, nil
}

// EnvironmentNames returns the configured environment names, sorted.
func (c *Config) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TemplatesRoot is the local templates directory.
func (c *Config) TemplatesRoot() string {
	return filepath.Join(c.ProjectRoot, c.TemplatesDir)
}

// RemoteTemplatesRoot is the templates directory on the target.
func (c *Config) RemoteTemplatesRoot() string {
	return path.Join(c.RemoteProjectRoot, c.RemoteTemplatesDir)
}

// DebianRequirementsPath is the local Debian requirements file.
func (c *Config) DebianRequirementsPath() string {
	return filepath.Join(c.ProjectRoot, c.Packages.DebianFile)
}

// PythonRequirementsPath is the Python requirements file on the target.
func (c *Config) PythonRequirementsPath() string {
	return path.Join(c.RemoteProjectRoot, c.Packages.PythonFile)
}

// ReportDir is the local run store directory, or "" when disabled.
func (c *Config) ReportDir() string {
	if c.Report.Dir == "-" || c.Report.Dir == "" {
		return ""
	}
	if filepath.IsAbs(c.Report.Dir) {
		return c.Report.Dir
	}
	return filepath.Join(c.ProjectRoot, c.Report.Dir)
}

// MetricsPath is the Prometheus textfile path, or "" when disabled.
func (c *Config) MetricsPath() string {
	if c.Report.MetricsFile == "" || filepath.IsAbs(c.Report.MetricsFile) {
		return c.Report.MetricsFile
	}
	return filepath.Join(c.ProjectRoot, c.Report.MetricsFile)
}
