package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-hlvl/internal/logging"
	"github.com/goliatone/go-hlvl/internal/source/loader"
	"github.com/goliatone/go-hlvl/pkg/convert"
	"github.com/goliatone/go-hlvl/pkg/convert/splot"
	"github.com/goliatone/go-hlvl/pkg/convert/varxml"
	"github.com/goliatone/go-hlvl/pkg/model"
	"github.com/goliatone/go-hlvl/pkg/render"
	"github.com/goliatone/go-hlvl/pkg/renderers/jsonout"
	"github.com/goliatone/go-hlvl/pkg/renderers/report"
	"github.com/goliatone/go-hlvl/pkg/source"
	"github.com/goliatone/go-hlvl/pkg/staging"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithFetcher injects the content fetcher.
func WithFetcher(fetcher source.Fetcher) Option {
	return func(o *Orchestrator) {
		o.fetcher = fetcher
	}
}

// WithWorkspace injects the staging workspace.
func WithWorkspace(workspace *staging.Workspace) Option {
	return func(o *Orchestrator) {
		o.workspace = workspace
	}
}

// WithConverters injects the converter registry used by the dispatcher.
func WithConverters(registry *convert.Registry) Option {
	return func(o *Orchestrator) {
		o.converters = registry
	}
}

// WithRenderers injects the renderer registry.
func WithRenderers(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.renderers = registry
	}
}

// WithLogger sets the structured logger. Runs are silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithObserver registers an observer. Repeated calls add observers.
func WithObserver(observer Observer) Option {
	return func(o *Orchestrator) {
		if observer != nil {
			o.observers = append(o.observers, observer)
		}
	}
}

// WithRunIDs overrides the run identifier generator.
func WithRunIDs(next func() string) Option {
	return func(o *Orchestrator) {
		o.runIDs = next
	}
}

// WithTargetName overrides the base name of the produced HLVL artifact.
func WithTargetName(name string) Option {
	return func(o *Orchestrator) {
		o.targetName = strings.TrimSpace(name)
	}
}

// WithClock overrides the time source used for stage durations.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// Orchestrator runs transformation requests. It is safe for concurrent use;
// all per-request state lives in the run.
type Orchestrator struct {
	fetcher    source.Fetcher
	workspace  *staging.Workspace
	converters *convert.Registry
	dispatcher *convert.Dispatcher
	renderers  *render.Registry
	logger     *slog.Logger
	observers  Observers
	runIDs     func() string
	targetName string
	now        func() time.Time

	initialiseErr error
}

// New constructs an Orchestrator. Missing dependencies are filled with the
// built-in implementations: the HTTP/inline loader, a workspace under
// staging.DefaultBaseDir, the SPLOT and VariaMos converters and the JSON and
// HTML renderers.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Output is the outcome of a successful run.
type Output struct {
	RunID       string
	ContentType string
	Body        []byte
	Result      model.Result
	Trace       []Stage
	SourcePath  string
	HLVLPath    string
}

// Transform executes one request. On failure the returned error is a
// *StageError and no body is produced.
func (o *Orchestrator) Transform(ctx context.Context, req model.Request) (Output, error) {
	if ctx == nil {
		return Output{}, model.Errorf(model.KindConfiguration, "pipeline.transform", "context is required")
	}
	if err := o.initialiseErr; err != nil {
		return Output{}, err
	}

	r := o.newRun(ctx, req)

	// Received: every configuration problem surfaces here, before any
	// network or disk activity.
	r.enter(StageReceived)
	normalized, renderer, area, err := o.receive(r.id, req)
	if err != nil {
		return Output{}, r.fail(StageReceived, err)
	}
	r.modelType = normalized.ModelType
	r.finish(StageReceived, nil)

	r.enter(StageFetching)
	text, err := o.fetcher.Fetch(ctx, normalized.ResourceKind, normalized.ResourceContent)
	if err != nil {
		return Output{}, r.fail(StageFetching, model.WrapError(model.KindFetch, "pipeline.fetch", err))
	}
	r.finish(StageFetching, nil)

	r.enter(StageStaging)
	if err := area.WriteSourceModel(text); err != nil {
		return Output{}, r.fail(StageStaging, model.WrapError(model.KindIO, "pipeline.stage", err))
	}
	r.finish(StageStaging, nil)

	r.enter(StageConverting)
	hlvlPath, err := o.dispatcher.Convert(ctx, normalized.ModelType, area.InputDir, area.OutputDir, o.targetName)
	if err != nil {
		return Output{}, r.fail(StageConverting, model.WrapError(model.KindConversion, "pipeline.convert", err))
	}
	r.finish(StageConverting, nil)

	r.enter(StageAssembling)
	result, body, err := o.assemble(ctx, normalized, renderer, area.SourcePath(), hlvlPath)
	if err != nil {
		return Output{}, r.fail(StageAssembling, err)
	}
	r.finish(StageAssembling, nil)

	r.succeed()

	return Output{
		RunID:       r.id,
		ContentType: renderer.ContentType(),
		Body:        body,
		Result:      result,
		Trace:       r.traceCopy(),
		SourcePath:  area.SourcePath(),
		HLVLPath:    hlvlPath,
	}, nil
}

func (o *Orchestrator) receive(runID string, req model.Request) (model.Request, render.Renderer, *staging.Area, error) {
	if err := req.Validate(); err != nil {
		return model.Request{}, nil, nil, err
	}
	normalized, err := req.Normalize()
	if err != nil {
		return model.Request{}, nil, nil, err
	}
	if _, err := o.converters.Get(normalized.ModelType); err != nil {
		return model.Request{}, nil, nil, err
	}
	renderer, err := o.renderers.Get(normalized.ResponseFormat)
	if err != nil {
		return model.Request{}, nil, nil, err
	}
	area, err := o.workspace.Open(runID, normalized.ModelType)
	if err != nil {
		return model.Request{}, nil, nil, err
	}
	return normalized, renderer, area, nil
}

func (o *Orchestrator) assemble(ctx context.Context, req model.Request, renderer render.Renderer, sourcePath, hlvlPath string) (model.Result, []byte, error) {
	sourceModel, err := staging.ReadArtifact(sourcePath)
	if err != nil {
		return model.Result{}, nil, err
	}
	hlvlText, err := staging.ReadArtifact(hlvlPath)
	if err != nil {
		return model.Result{}, nil, err
	}

	result := render.Assemble(req, sourceModel, hlvlText)
	body, err := renderer.Render(ctx, result)
	if err != nil {
		return model.Result{}, nil, model.WrapError(model.KindIO, "pipeline.render", fmt.Errorf("render %s: %w", req.ResponseFormat, err))
	}
	return result, body, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.fetcher == nil {
		o.fetcher = loader.New(source.NewFetcherOptions())
	}
	if o.workspace == nil {
		o.workspace = staging.New(staging.DefaultBaseDir)
	}
	if o.converters == nil {
		o.converters = DefaultConverters()
	}
	o.dispatcher = convert.NewDispatcher(o.converters)
	if o.renderers == nil {
		renderers, err := defaultRenderers()
		if err != nil {
			o.initialiseErr = model.Errorf(model.KindConfiguration, "pipeline.init", "default renderers: %w", err)
		}
		o.renderers = renderers
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.runIDs == nil {
		o.runIDs = uuid.NewString
	}
	if o.targetName == "" {
		o.targetName = o.workspace.ArtifactName()
	}
	if o.now == nil {
		o.now = time.Now
	}
}

var defaultRenderers = func() (*render.Registry, error) {
	return DefaultRenderers()
}

// DefaultConverters returns a registry holding the built-in strategies.
func DefaultConverters() *convert.Registry {
	registry := convert.NewRegistry()
	registry.MustRegister(model.ModelTypeSPLOT, splot.New())
	registry.MustRegister(model.ModelTypeVariamosXML, varxml.New())
	return registry
}

// DefaultRenderers returns a registry holding the JSON and HTML renderers.
// Report options customise the HTML page.
func DefaultRenderers(options ...report.Option) (*render.Registry, error) {
	registry := render.NewRegistry()
	registry.MustRegister(jsonout.New())
	html, err := report.New(options...)
	if err != nil {
		return registry, err
	}
	registry.MustRegister(html)
	return registry, nil
}
