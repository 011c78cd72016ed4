package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FindConfigFile returns the first default config file present in dir.
func FindConfigFile(dir string) (string, error) {
	for _, name := range DefaultFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no config file found in %s (looked for %v)", dir, DefaultFileNames)
}

// LoadFile reads, completes and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	cfg.ApplyDefaults(filepath.Dir(absPath))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML strictly. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults fills unset fields. baseDir anchors a relative ProjectRoot.
func (c *Config) ApplyDefaults(baseDir string) {
	switch {
	case c.ProjectRoot == "":
		c.ProjectRoot = baseDir
	case !filepath.IsAbs(c.ProjectRoot):
		c.ProjectRoot = filepath.Join(baseDir, c.ProjectRoot)
	}

	setDefault(&c.RemoteProjectRoot, DefaultRemoteProjectRoot)
	setDefault(&c.TemplatesDir, DefaultTemplatesDir)
	setDefault(&c.RemoteTemplatesDir, c.TemplatesDir)
	setDefault(&c.Timezone, DefaultTimezone)

	if c.Apt.MaxAge == 0 {
		c.Apt.MaxAge = Duration(DefaultAptMaxAge)
	}

	setDefault(&c.Packages.DebianFile, DefaultDebianFile)
	setDefault(&c.Packages.PythonFile, DefaultPythonFile)
	setDefault(&c.Packages.Pip, DefaultPip)

	setDefault(&c.Shell.User, DefaultShellUser)
	setDefault(&c.Shell.Home, path.Join("/home", c.Shell.User))
	setDefault(&c.Shell.Profile, DefaultShellProfile)

	setDefault(&c.Analysis.Template, DefaultAnalysisTemplate)
	setDefault(&c.Analysis.Dest, path.Join(c.RemoteProjectRoot, DefaultAnalysisTemplate))
	setDefault(&c.Analysis.DataDir, path.Join(c.RemoteProjectRoot, DefaultDataDir))

	setDefault(&c.Web.ApacheService, DefaultApacheService)
	setDefault(&c.Web.CronService, DefaultCronService)
	setDefault(&c.Web.SSLDir, DefaultSSLDir)
	setDefault(&c.Web.ConfigDir, DefaultConfigDir)
	setDefault(&c.Web.SimpleSAMLphp.ModuleEnable, DefaultSAMLModuleEnable)
	setDefault(&c.Web.SimpleSAMLphp.ApacheConf, DefaultSAMLApacheConf)
	setDefault(&c.Web.SimpleSAMLphp.ApacheLink, DefaultSAMLApacheLink)

	setDefault(&c.Report.Dir, DefaultReportDir)

	for name, env := range c.Environments {
		if env.Vagrant {
			setDefault(&env.Machine, DefaultVagrantMachine)
			setDefault(&env.Provider, "vagrant")
		} else if env.Port == 0 {
			env.Port = DefaultSSHPort
		}
		c.Environments[name] = env
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
