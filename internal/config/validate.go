package config

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	// Embedded zoneinfo keeps timezone validation independent of the host.
	_ "time/tzdata"
)

var timezonePattern = regexp.MustCompile(`^[A-Za-z0-9_+\-]+(/[A-Za-z0-9_+\-]+)*$`)

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if err := ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, err)
	}
	if c.Apt.MaxAge < 0 {
		errs = append(errs, fmt.Errorf("apt.max_age must not be negative"))
	}
	if c.Packages.DebianFile == "" {
		errs = append(errs, fmt.Errorf("packages.debian_file is required"))
	}
	if c.Packages.PythonFile == "" {
		errs = append(errs, fmt.Errorf("packages.python_file is required"))
	}
	if c.Report.S3.Bucket != "" && c.Report.S3.Region == "" && c.Report.S3.Endpoint == "" {
		errs = append(errs, fmt.Errorf("report.s3 requires region or endpoint when bucket is set"))
	}

	if len(c.Environments) == 0 {
		errs = append(errs, fmt.Errorf("at least one environment is required"))
	}
	for _, name := range c.EnvironmentNames() {
		env := c.Environments[name]
		if err := env.validate(); err != nil {
			errs = append(errs, fmt.Errorf("environment %q: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

func (e Environment) validate() error {
	if e.Vagrant {
		if e.Host != "" {
			return fmt.Errorf("host cannot be combined with vagrant")
		}
		if e.Machine == "" {
			return fmt.Errorf("machine is required for vagrant environments")
		}
		return nil
	}

	if e.Host == "" {
		return fmt.Errorf("host is required")
	}
	if e.User == "" {
		return fmt.Errorf("user is required")
	}
	if e.Port < 1 || e.Port > 65535 {
		return fmt.Errorf("port %d out of range", e.Port)
	}
	if e.IdentityFile == "" && !e.UseAgent {
		return fmt.Errorf("identity_file or use_agent is required")
	}
	return nil
}

// ValidateTimezone checks that tz is a known IANA zone name that is safe to
// embed in a shell command.
func ValidateTimezone(tz string) error {
	if tz == "" {
		return fmt.Errorf("timezone is required")
	}
	if tz == "Local" || !timezonePattern.MatchString(tz) {
		return fmt.Errorf("invalid timezone %q", tz)
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	return nil
}
