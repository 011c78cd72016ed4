package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/imamik/devprov/internal/config"
	"github.com/imamik/devprov/internal/orchestration"
	"github.com/imamik/devprov/internal/util/prerequisites"
)

// DoctorStatus is the doctor report for one environment.
type DoctorStatus struct {
	Environment string      `json:"environment"`
	Target      string      `json:"target"`
	Tools       []ToolCheck `json:"tools"`
	Host        *HostHealth `json:"host,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// ToolCheck is the result of looking up one local tool.
type ToolCheck struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Found    bool   `json:"found"`
	Version  string `json:"version,omitempty"`
	Warning  string `json:"warning,omitempty"`
}

// HostHealth is what was learned about the target over SSH.
type HostHealth struct {
	Address          string `json:"address"`
	MachineState     string `json:"machineState,omitempty"`
	User             string `json:"user"`
	OS               string `json:"os,omitempty"`
	Kernel           string `json:"kernel"`
	Apt              bool   `json:"apt"`
	Timezone         string `json:"timezone,omitempty"`
	WantTimezone     string `json:"wantTimezone"`
	TimezoneMatching bool   `json:"timezoneMatching"`
}

// Factory function variables for doctor - can be replaced in tests.
var (
	// diagnose connects to the environment and inspects it.
	diagnose = orchestration.Diagnose
)

// Doctor checks local tools, connects to the environment and reports on
// the target without changing it. A missing required tool or an unreachable
// host is reported and returned as an error.
func Doctor(ctx context.Context, configPath, environment string, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	envName, env, err := resolveEnvironment(cfg, environment)
	if err != nil {
		return err
	}

	status := &DoctorStatus{Environment: envName, Target: describeTarget(env)}

	results := checkPrereqs(ctx, prerequisites.ForEnvironment(env.Vagrant))
	for _, r := range results.Results {
		tc := ToolCheck{
			Name:     r.Tool.Name,
			Required: r.Tool.Required,
			Found:    r.Found,
			Version:  r.Version,
		}
		if r.VersionErr != nil {
			tc.Warning = r.VersionErr.Error()
		}
		status.Tools = append(status.Tools, tc)
	}
	diagErr := results.Error()

	if diagErr == nil {
		connector := orchestration.NewConnector(newVagrantClient(cfg.ProjectRoot), config.LoadTimeouts())
		var d *orchestration.Diagnosis
		d, diagErr = diagnose(ctx, cfg, envName, connector)
		if diagErr == nil {
			status.Host = &HostHealth{
				Address:          fmt.Sprintf("%s:%d", d.Target.Address, d.Target.Port),
				MachineState:     d.MachineState,
				User:             d.Target.User,
				OS:               d.OS,
				Kernel:           d.Kernel,
				Apt:              d.HasApt,
				Timezone:         d.Timezone,
				WantTimezone:     d.WantTimezone,
				TimezoneMatching: d.TimezoneMatches(),
			}
		}
	}
	if diagErr != nil {
		status.Error = diagErr.Error()
	}

	if jsonOutput {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Println(string(data))
	} else {
		fmt.Print(renderDoctor(status))
	}

	return diagErr
}

func renderDoctor(status *DoctorStatus) string {
	var b strings.Builder

	renderTitle(&b, fmt.Sprintf("devprov doctor: %s", status.Environment))
	b.WriteString(dimStyle.Render("  " + status.Target))
	b.WriteString("\n")

	renderSection(&b, "Local Tools")
	for _, t := range status.Tools {
		switch {
		case t.Found && t.Warning != "":
			fmt.Fprintf(&b, "    %s %-10s %s\n", check(true), t.Name, warnStyle.Render(t.Warning))
		case t.Found:
			fmt.Fprintf(&b, "    %s %-10s %s\n", check(true), t.Name, dimStyle.Render(t.Version))
		case t.Required:
			fmt.Fprintf(&b, "    %s %-10s %s\n", check(false), t.Name, failStyle.Render("missing"))
		default:
			fmt.Fprintf(&b, "    %s %-10s %s\n", warnStyle.Render("!"), t.Name, dimStyle.Render("not found (optional)"))
		}
	}

	if h := status.Host; h != nil {
		renderSection(&b, "Host")
		if h.MachineState != "" {
			fmt.Fprintf(&b, "    %s %-10s %s\n", check(true), "vagrant", h.MachineState)
		}
		fmt.Fprintf(&b, "    %s %-10s %s@%s\n", check(true), "ssh", h.User, h.Address)
		fmt.Fprintf(&b, "    %s %-10s %s\n", check(h.OS != ""), "os", valueOr(h.OS, "unknown"))
		fmt.Fprintf(&b, "    %s %-10s %s\n", check(true), "kernel", h.Kernel)
		apt := "available"
		if !h.Apt {
			apt = "not found, Debian-family host required"
		}
		fmt.Fprintf(&b, "    %s %-10s %s\n", check(h.Apt), "apt", apt)
		tz := valueOr(h.Timezone, "unknown")
		if !h.TimezoneMatching {
			tz += dimStyle.Render(fmt.Sprintf(" (want %s, set by require-timezone)", h.WantTimezone))
		}
		fmt.Fprintf(&b, "    %s %-10s %s\n", check(h.TimezoneMatching), "timezone", tz)
	}

	if status.Error != "" {
		b.WriteString("\n")
		b.WriteString(failStyle.Render("  " + status.Error))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	return b.String()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
