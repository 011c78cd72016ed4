package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errEnvNameRequired = errors.New("environment name is required")
	errEnvNameInvalid  = errors.New("environment name must be 1-32 lowercase alphanumeric characters, hyphens or underscores")
	errHostRequired    = errors.New("host is required")
	errUserRequired    = errors.New("user is required")
	errPortInvalid     = errors.New("port must be a number between 1 and 65535")
	errPathRequired    = errors.New("path is required")
)
