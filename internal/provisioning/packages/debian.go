package packages

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/imamik/devprov/internal/provisioning"
)

// DebianPackagesName is the command-line name of DebianPackages.
const DebianPackagesName = "debian-packages"

// DebianPackages installs the packages listed in the local Debian
// requirements file.
type DebianPackages struct{}

// NewDebianPackages creates the task.
func NewDebianPackages() *DebianPackages {
	return &DebianPackages{}
}

// Name implements provisioning.Task.
func (t *DebianPackages) Name() string {
	return DebianPackagesName
}

// Provision implements provisioning.Task.
func (t *DebianPackages) Provision(ctx *provisioning.Context) error {
	path := ctx.Config.DebianRequirementsPath()
	pkgs, err := ReadRequirements(path)
	if err != nil {
		return err
	}
	if len(pkgs) == 0 {
		provisioning.LogTaskSkipped(ctx.Observer, t.Name(), fmt.Sprintf("%s lists no packages", path))
		return nil
	}

	installed, err := ctx.Host.Packages(ctx, pkgs)
	if err != nil {
		return err
	}

	for _, pkg := range pkgs {
		provisioning.LogResource(ctx.Observer, t.Name(), "package", pkg, slices.Contains(installed, pkg))
	}
	return nil
}

// ReadRequirements reads one package name per line. Surrounding whitespace
// is trimmed; blank lines and lines starting with # are skipped; duplicates
// are dropped.
func ReadRequirements(path string) ([]string, error) {
	// #nosec G304
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read requirements: %w", err)
	}
	defer f.Close()

	var pkgs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		pkgs = append(pkgs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read requirements %s: %w", path, err)
	}

	return pkgs, nil
}
