package wizard

import "github.com/charmbracelet/huh"

// Environment kinds.
const (
	KindVagrant = "vagrant"
	KindSSH     = "ssh"
)

// TimezoneOption represents a selectable timezone.
type TimezoneOption struct {
	Value       string
	Description string
}

// Timezones contains commonly used timezones. Any IANA name is accepted
// through the "other" entry.
var Timezones = []TimezoneOption{
	{Value: "America/Chicago", Description: "US Central"},
	{Value: "America/New_York", Description: "US Eastern"},
	{Value: "America/Denver", Description: "US Mountain"},
	{Value: "America/Los_Angeles", Description: "US Pacific"},
	{Value: "Europe/London", Description: "United Kingdom"},
	{Value: "Europe/Berlin", Description: "Central Europe"},
	{Value: "UTC", Description: "Coordinated Universal Time"},
}

// TimezoneOther selects a free-form timezone input.
const TimezoneOther = "other"

// KindOptions contains the environment kinds.
var KindOptions = []huh.Option[string]{
	huh.NewOption("Vagrant machine (SSH settings from vagrant ssh-config)", KindVagrant),
	huh.NewOption("Remote host over SSH", KindSSH),
}

// AptMaxAgeOptions contains common package index refresh intervals.
var AptMaxAgeOptions = []huh.Option[string]{
	huh.NewOption("1 day", "24h"),
	huh.NewOption("1 week (default)", "168h"),
	huh.NewOption("30 days", "720h"),
}

// TimezonesToOptions converts Timezones to huh options, with TimezoneOther last.
func TimezonesToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(Timezones)+1)
	for _, tz := range Timezones {
		opts = append(opts, huh.NewOption(tz.Value+" - "+tz.Description, tz.Value))
	}
	return append(opts, huh.NewOption("Other...", TimezoneOther))
}
