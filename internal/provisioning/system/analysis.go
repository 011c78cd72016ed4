package system

import (
	"fmt"

	"github.com/imamik/devprov/internal/provisioning"
	"github.com/imamik/devprov/internal/remote"
	"github.com/imamik/devprov/internal/templates"
)

// AnalysisName is the command-line name of Analysis.
const AnalysisName = "setup-analysis"

// Analysis renders the analysis config, which tells analyses which
// environment they run in, and creates the data directory.
type Analysis struct{}

// NewAnalysis creates the task.
func NewAnalysis() *Analysis {
	return &Analysis{}
}

// Name implements provisioning.Task.
func (t *Analysis) Name() string {
	return AnalysisName
}

// Provision implements provisioning.Task.
func (t *Analysis) Provision(ctx *provisioning.Context) error {
	analysis := ctx.Config.Analysis

	contents, src, err := templates.LoadAndRender(ctx.Config.TemplatesRoot(), analysis.Template, ctx.TemplateData())
	if err != nil {
		return err
	}

	changed, err := ctx.Host.File(ctx, analysis.Dest, remote.FileOptions{Contents: contents})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", analysis.Dest, err)
	}
	ctx.Observer.Printf("[%s] %s rendered from %s", t.Name(), analysis.Dest, src)
	provisioning.LogResource(ctx.Observer, t.Name(), "file", analysis.Dest, changed)

	created, err := ctx.Host.Directory(ctx, analysis.DataDir, remote.DirOptions{})
	if err != nil {
		return err
	}
	provisioning.LogResource(ctx.Observer, t.Name(), "directory", analysis.DataDir, created)

	return nil
}
