package config

import "time"

// File names searched for by FindConfigFile, in order.
var DefaultFileNames = []string{"devprov.yaml", "devprov.yml", ".devprov.yaml"}

// EnvVarEnvironment selects the environment when no --env flag is given.
const EnvVarEnvironment = "DEVPROV_ENV"

// Defaults applied by Load.
const (
	DefaultRemoteProjectRoot = "/vagrant"
	DefaultTemplatesDir      = "fabfile/templates"
	DefaultTimezone          = "America/Chicago"
	DefaultAptMaxAge         = 7 * 24 * time.Hour
	DefaultDebianFile        = "REQUIREMENTS-DEB"
	DefaultPythonFile        = "REQUIREMENTS"
	DefaultPip               = "pip3"
	DefaultShellUser         = "vagrant"
	DefaultShellProfile      = ".bash_profile"
	DefaultAnalysisTemplate  = "server_config.ini"
	DefaultDataDir           = "data"
	DefaultApacheService     = "apache2"
	DefaultCronService       = "cron"
	DefaultSSLDir            = "/etc/ssl/"
	DefaultConfigDir         = "/etc/"
	DefaultVagrantMachine    = "default"
	DefaultSSHPort           = 22
	DefaultReportDir         = ".devprov/runs"
)

// SimpleSAMLphp defaults.
const (
	DefaultSAMLModuleEnable = "/usr/share/simplesamlphp/modules/exampleauth/enable"
	DefaultSAMLApacheConf   = "/etc/simplesamlphp/apache.conf"
	DefaultSAMLApacheLink   = "/etc/apache2/conf.d/simplesamlphp.conf"
)
