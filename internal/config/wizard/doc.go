// Package wizard provides an interactive configuration wizard for devprov.
//
// It uses charmbracelet/huh forms to ask for the first environment and the
// most common settings. RunWizard collects a WizardResult, BuildConfig turns
// it into a Config and WriteConfig renders the devprov.yaml file.
package wizard
