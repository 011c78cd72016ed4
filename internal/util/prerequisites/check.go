// Package prerequisites checks for the local tools a provisioning run shells out to.
package prerequisites

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/imamik/devprov/internal/util/async"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string
}

// VagrantTools returns the tools needed to provision a vagrant machine.
func VagrantTools() []Tool {
	return []Tool{
		{
			Name:        "vagrant",
			Required:    true,
			Description: "Resolves SSH settings and syncs the project into the machine",
			InstallURL:  "https://developer.hashicorp.com/vagrant/install",
		},
	}
}

// OptionalTools returns tools that are useful but not required.
func OptionalTools() []Tool {
	return []Tool{
		{
			Name:        "ssh",
			Required:    false,
			Description: "Useful for logging into the machine to debug a failed step",
			InstallURL:  "https://www.openssh.com/",
		},
		{
			Name:        "rsync",
			Required:    false,
			Description: "Used by vagrant rsync synced folders",
			InstallURL:  "https://rsync.samba.org/",
		},
	}
}

// ForEnvironment returns the tools to check for an environment.
func ForEnvironment(vagrant bool) []Tool {
	var tools []Tool
	if vagrant {
		tools = append(tools, VagrantTools()...)
	}
	return append(tools, OptionalTools()...)
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string

	// VersionErr is set when a found tool did not report its version.
	VersionErr error
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool

	// Warnings joins the per-tool errors that did not make a tool missing.
	Warnings error
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Swapped in tests.
var (
	lookPath    = exec.LookPath
	toolVersion = versionOf
)

// Check verifies that the specified tools are available. Tools are checked
// concurrently; results keep the order of tools.
func Check(ctx context.Context, tools []Tool) *CheckResults {
	results := &CheckResults{Results: make([]CheckResult, len(tools))}

	checks := make([]async.Task, len(tools))
	for i, tool := range tools {
		checks[i] = async.Task{Name: tool.Name, Func: func(ctx context.Context) error {
			result := CheckResult{Tool: tool}
			defer func() { results.Results[i] = result }()

			path, err := lookPath(tool.Name)
			if err != nil {
				return nil
			}
			result.Found = true
			result.Path = path
			result.Version, result.VersionErr = toolVersion(ctx, path)
			return result.VersionErr
		}}
	}
	results.Warnings = async.RunParallel(ctx, checks)

	for _, r := range results.Results {
		if !r.Found {
			results.Missing = append(results.Missing, r.Tool)
		}
	}

	return results
}

// versionOf returns the first line of `<tool> --version`, trying the other
// common version flags when that fails.
func versionOf(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var lastErr error
	for _, flag := range []string{"--version", "-V", "version"} {
		// #nosec G204 - path comes from LookPath on a fixed tool list
		output, err := exec.CommandContext(ctx, path, flag).CombinedOutput()
		if err != nil {
			lastErr = err
			continue
		}
		line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
		return strings.TrimSpace(line), nil
	}
	return "", fmt.Errorf("version unknown: %w", lastErr)
}
