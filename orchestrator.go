// Package hlvl converts VariaMos XML and SPLOT feature models into HLVL and
// renders the result as JSON or an HTML report.
package hlvl

import (
	"context"
	"io"

	"github.com/goliatone/go-hlvl/internal/source/loader"
	"github.com/goliatone/go-hlvl/pkg/config"
	"github.com/goliatone/go-hlvl/pkg/metrics"
	"github.com/goliatone/go-hlvl/pkg/model"
	"github.com/goliatone/go-hlvl/pkg/pipeline"
	"github.com/goliatone/go-hlvl/pkg/staging"
)

// Version is the release of this module.
const Version = "0.1.0"

// Request aliases model.Request for callers that only import the root package.
type Request = model.Request

// Output aliases pipeline.Output.
type Output = pipeline.Output

// NewOrchestrator exposes the pipeline constructor from the top-level module.
func NewOrchestrator(options ...pipeline.Option) *pipeline.Orchestrator {
	return pipeline.New(options...)
}

// Transform runs req through a pipeline built from options. It is the
// simplest entry point for one-off conversions.
func Transform(ctx context.Context, req Request, options ...pipeline.Option) (Output, error) {
	return pipeline.New(options...).Transform(ctx, req)
}

// NewFromConfig wires a pipeline from cfg: workspace, fetcher limits, report
// settings, logger and a metrics recorder. Extra options are applied last.
// logOutput receives log records; nil means os.Stderr.
func NewFromConfig(cfg *config.Config, logOutput io.Writer, options ...pipeline.Option) (*pipeline.Orchestrator, *metrics.Recorder, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	renderers, err := pipeline.DefaultRenderers(cfg.ReportOptions()...)
	if err != nil {
		return nil, nil, err
	}
	recorder := metrics.New(cfg.Metrics.Namespace)

	base := []pipeline.Option{
		pipeline.WithWorkspace(staging.New(cfg.Workspace.BaseDir)),
		pipeline.WithFetcher(loader.New(cfg.FetcherOptions())),
		pipeline.WithRenderers(renderers),
		pipeline.WithLogger(cfg.Logger(logOutput)),
		pipeline.WithObserver(recorder),
	}
	return pipeline.New(append(base, options...)...), recorder, nil
}
