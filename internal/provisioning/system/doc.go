// Package system provides the tasks that configure the operating system
// and the login environment of the target: timezone, shell profile and
// the analysis configuration.
package system
