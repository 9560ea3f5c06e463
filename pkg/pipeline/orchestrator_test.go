package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hlvl/pkg/convert"
	"github.com/goliatone/go-hlvl/pkg/model"
	"github.com/goliatone/go-hlvl/pkg/pipeline"
	"github.com/goliatone/go-hlvl/pkg/source"
	"github.com/goliatone/go-hlvl/pkg/staging"
	"github.com/goliatone/go-hlvl/pkg/testsupport"
)

func TestTransform_InlineSPLOTToJSON(t *testing.T) {
	workspace := staging.New(t.TempDir())
	orch := pipeline.New(
		pipeline.WithWorkspace(workspace),
		pipeline.WithRunIDs(func() string { return "run-1" }),
	)

	out, err := orch.Transform(testsupport.Context(), testsupport.InlineRequest(model.ModelTypeSPLOT, "A", model.ResponseFormatJSON))
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	if !json.Valid(out.Body) {
		t.Fatalf("body is not valid JSON: %s", out.Body)
	}
	if !strings.Contains(string(out.Body), `"resourceContent":"A"`) {
		t.Fatalf("expected resourceContent in %s", out.Body)
	}

	var decoded map[string]string
	if err := json.Unmarshal(out.Body, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.TrimSpace(decoded["hlvl"]) == "" {
		t.Fatalf("expected non-empty hlvl, got %q", decoded["hlvl"])
	}
	if !strings.Contains(decoded["hlvl"], "core(A)") {
		t.Fatalf("expected core relation, got %q", decoded["hlvl"])
	}

	if out.RunID != "run-1" {
		t.Fatalf("run id = %q", out.RunID)
	}
	if out.ContentType != "application/json" {
		t.Fatalf("content type = %q", out.ContentType)
	}
	want := []pipeline.Stage{
		pipeline.StageReceived,
		pipeline.StageFetching,
		pipeline.StageStaging,
		pipeline.StageConverting,
		pipeline.StageAssembling,
		pipeline.StageRendered,
	}
	if diff := cmp.Diff(want, out.Trace); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
	assertTerminalOnlyAtEnd(t, out.Trace)

	wantSource := filepath.Join(workspace.BaseDir(), "splot", "run-1", "model.xml")
	if out.SourcePath != wantSource {
		t.Fatalf("source path = %q, want %q", out.SourcePath, wantSource)
	}
	if filepath.Base(out.HLVLPath) != "model.hlvl" {
		t.Fatalf("hlvl path = %q", out.HLVLPath)
	}
	staged, err := staging.ReadArtifact(out.SourcePath)
	if err != nil {
		t.Fatalf("read staged source: %v", err)
	}
	if staged != "A" {
		t.Fatalf("staged source = %q", staged)
	}
}

func TestTransform_HTMLEscapesSourceModel(t *testing.T) {
	orch := pipeline.New(pipeline.WithWorkspace(staging.New(t.TempDir())))

	content := `<feature_model name="x"><feature_tree>:r root
	:o script</feature_tree><constraints></constraints></feature_model>`
	out, err := orch.Transform(testsupport.Context(), testsupport.InlineRequest(model.ModelTypeSPLOT, content, model.ResponseFormatHTML))
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	html := string(out.Body)
	if strings.Contains(html, "<feature_model") {
		t.Fatalf("source model not escaped:\n%s", html)
	}
	if !strings.Contains(html, "&lt;feature_model") {
		t.Fatalf("expected escaped source model in:\n%s", html)
	}
	if !strings.Contains(html, "<h1>Test Results</h1>") {
		t.Fatalf("expected report heading in:\n%s", html)
	}
	if out.ContentType != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", out.ContentType)
	}
}

func TestTransform_FetchesURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Phone\r\n"))
	}))
	defer server.Close()

	orch := pipeline.New(pipeline.WithWorkspace(staging.New(t.TempDir())))
	out, err := orch.Transform(testsupport.Context(), model.Request{
		ModelType:       "splot",
		ResourceKind:    "url",
		ResourceContent: server.URL,
		ResponseFormat:  "json",
	})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if out.Result.SourceModel != "Phone\n" {
		t.Fatalf("source model = %q", out.Result.SourceModel)
	}
	if out.Result.ModelType != model.ModelTypeSPLOT || out.Result.ResponseFormat != model.ResponseFormatJSON {
		t.Fatalf("expected canonical request echo, got %+v", out.Result.Request)
	}
}

func TestTransform_MalformedURLFailsBeforeStaging(t *testing.T) {
	base := t.TempDir()
	orch := pipeline.New(pipeline.WithWorkspace(staging.New(base)))

	_, err := orch.Transform(testsupport.Context(), model.Request{
		ModelType:       model.ModelTypeSPLOT,
		ResourceKind:    model.ResourceKindURL,
		ResourceContent: "http://[::1]:namedport",
		ResponseFormat:  model.ResponseFormatJSON,
	})

	stageErr := requireStageError(t, err)
	if stageErr.Stage != pipeline.StageFetching {
		t.Fatalf("failed stage = %q", stageErr.Stage)
	}
	if !model.IsKind(err, model.KindFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if last := stageErr.Trace[len(stageErr.Trace)-1]; last != pipeline.StageFailed {
		t.Fatalf("trace should end in failed, got %v", stageErr.Trace)
	}
	assertTerminalOnlyAtEnd(t, stageErr.Trace)
	assertNoFiles(t, base)
}

func TestTransform_ConfigurationErrorsAtReceived(t *testing.T) {
	cases := map[string]model.Request{
		"model type":    {ModelType: "UML", ResourceKind: model.ResourceKindText, ResourceContent: "A", ResponseFormat: model.ResponseFormatJSON},
		"resource kind": {ModelType: model.ModelTypeSPLOT, ResourceKind: "FTP", ResourceContent: "A", ResponseFormat: model.ResponseFormatJSON},
		"format":        {ModelType: model.ModelTypeSPLOT, ResourceKind: model.ResourceKindText, ResourceContent: "A", ResponseFormat: "XML"},
		"empty content": {ModelType: model.ModelTypeSPLOT, ResourceKind: model.ResourceKindText, ResourceContent: "  ", ResponseFormat: model.ResponseFormatJSON},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			base := t.TempDir()
			fetched := false
			orch := pipeline.New(
				pipeline.WithWorkspace(staging.New(base)),
				pipeline.WithFetcher(source.FetcherFunc(func(context.Context, model.ResourceKind, string) (string, error) {
					fetched = true
					return "A", nil
				})),
			)

			_, err := orch.Transform(testsupport.Context(), req)
			stageErr := requireStageError(t, err)
			if stageErr.Stage != pipeline.StageReceived {
				t.Fatalf("failed stage = %q", stageErr.Stage)
			}
			if stageErr.Kind() != model.KindConfiguration {
				t.Fatalf("kind = %q (%v)", stageErr.Kind(), err)
			}
			if fetched {
				t.Fatalf("fetcher should not run for configuration errors")
			}
			assertNoFiles(t, base)
		})
	}
}

func TestTransform_UnregisteredConverterIsConfigurationError(t *testing.T) {
	registry := convert.NewRegistry()
	orch := pipeline.New(
		pipeline.WithWorkspace(staging.New(t.TempDir())),
		pipeline.WithConverters(registry),
	)

	_, err := orch.Transform(testsupport.Context(), testsupport.InlineRequest(model.ModelTypeVariamosXML, "<x/>", model.ResponseFormatJSON))
	stageErr := requireStageError(t, err)
	if stageErr.Stage != pipeline.StageReceived || stageErr.Kind() != model.KindConfiguration {
		t.Fatalf("unexpected failure %v", err)
	}
}

func TestTransform_ConverterFailureReturnsNoBody(t *testing.T) {
	registry := convert.NewRegistry()
	registry.MustRegister(model.ModelTypeSPLOT, convert.ConverterFunc(func(context.Context, convert.Params) error {
		return errors.New("boom")
	}))

	orch := pipeline.New(
		pipeline.WithWorkspace(staging.New(t.TempDir())),
		pipeline.WithConverters(registry),
	)

	out, err := orch.Transform(testsupport.Context(), testsupport.InlineRequest(model.ModelTypeSPLOT, "A", model.ResponseFormatJSON))
	stageErr := requireStageError(t, err)
	if stageErr.Stage != pipeline.StageConverting {
		t.Fatalf("failed stage = %q", stageErr.Stage)
	}
	if !model.IsKind(err, model.KindConversion) {
		t.Fatalf("expected conversion error, got %v", err)
	}
	if out.Body != nil {
		t.Fatalf("expected no body, got %q", out.Body)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected cause in message, got %v", err)
	}
}

func TestTransform_InvalidModelIsConversionError(t *testing.T) {
	orch := pipeline.New(pipeline.WithWorkspace(staging.New(t.TempDir())))

	_, err := orch.Transform(testsupport.Context(), testsupport.InlineRequest(model.ModelTypeVariamosXML, "<mxGraphModel><root>", model.ResponseFormatJSON))
	stageErr := requireStageError(t, err)
	if stageErr.Stage != pipeline.StageConverting || stageErr.Kind() != model.KindConversion {
		t.Fatalf("unexpected failure %v", err)
	}
}

func TestTransform_ConcurrentRunsAreIsolated(t *testing.T) {
	workspace := staging.New(t.TempDir())
	orch := pipeline.New(pipeline.WithWorkspace(workspace))

	const runs = 12
	var wg sync.WaitGroup
	errs := make(chan error, runs)

	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			feature := fmt.Sprintf("Feature%d", i)
			out, err := orch.Transform(context.Background(), testsupport.InlineRequest(model.ModelTypeSPLOT, feature, model.ResponseFormatJSON))
			if err != nil {
				errs <- err
				return
			}
			if out.Result.SourceModel != feature {
				errs <- fmt.Errorf("run %d read source %q", i, out.Result.SourceModel)
				return
			}
			if !strings.Contains(out.Result.HLVL, "boolean "+feature+"\n") {
				errs <- fmt.Errorf("run %d read hlvl %q", i, out.Result.HLVL)
				return
			}
			staged, err := staging.ReadArtifact(out.SourcePath)
			if err != nil {
				errs <- err
				return
			}
			if staged != feature {
				errs <- fmt.Errorf("run %d staged %q", i, staged)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}

	ids, err := workspace.Runs(model.ModelTypeSPLOT)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(ids) != runs {
		t.Fatalf("expected %d staged runs, got %d", runs, len(ids))
	}
}

func TestTransform_CustomTargetName(t *testing.T) {
	orch := pipeline.New(
		pipeline.WithWorkspace(staging.New(t.TempDir())),
		pipeline.WithTargetName("phone"),
	)

	out, err := orch.Transform(testsupport.Context(), testsupport.InlineRequest(model.ModelTypeSPLOT, "A", model.ResponseFormatJSON))
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if filepath.Base(out.HLVLPath) != "phone.hlvl" {
		t.Fatalf("hlvl path = %q", out.HLVLPath)
	}
	if !strings.HasPrefix(out.Result.HLVL, "model phone\n") {
		t.Fatalf("unexpected hlvl %q", out.Result.HLVL)
	}
}

func TestTransform_RequiresContext(t *testing.T) {
	orch := pipeline.New(pipeline.WithWorkspace(staging.New(t.TempDir())))
	var ctx context.Context
	_, err := orch.Transform(ctx, testsupport.InlineRequest(model.ModelTypeSPLOT, "A", model.ResponseFormatJSON))
	if !model.IsKind(err, model.KindConfiguration) {
		t.Fatalf("expected configuration error for nil context, got %v", err)
	}
}

func TestTransform_StageDurationsUseClock(t *testing.T) {
	const step = 10 * time.Millisecond
	var (
		mu  sync.Mutex
		now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}

	recorder := &recordingObserver{}
	orch := pipeline.New(
		pipeline.WithWorkspace(staging.New(t.TempDir())),
		pipeline.WithClock(clock),
		pipeline.WithObserver(recorder),
	)

	if _, err := orch.Transform(testsupport.Context(), testsupport.InlineRequest(model.ModelTypeSPLOT, "A", model.ResponseFormatJSON)); err != nil {
		t.Fatalf("transform: %v", err)
	}

	if len(recorder.stages) != len(pipeline.Stages()) {
		t.Fatalf("expected %d stage events, got %d", len(pipeline.Stages()), len(recorder.stages))
	}
	for i, event := range recorder.stages {
		if event.Stage != pipeline.Stages()[i] {
			t.Fatalf("stage %d = %q", i, event.Stage)
		}
		if event.Duration != step {
			t.Fatalf("stage %q duration = %s, want %s", event.Stage, event.Duration, step)
		}
	}

	if len(recorder.runs) != 1 {
		t.Fatalf("expected one run event, got %d", len(recorder.runs))
	}
	// started, then enter and finish for each stage, then the final reading.
	wantRun := time.Duration(2*len(pipeline.Stages())+1) * step
	if got := recorder.runs[0].Duration; got != wantRun {
		t.Fatalf("run duration = %s, want %s", got, wantRun)
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	stages []pipeline.StageEvent
	runs   []pipeline.RunEvent
}

func (r *recordingObserver) StageFinished(_ context.Context, event pipeline.StageEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, event)
}

func (r *recordingObserver) RunFinished(_ context.Context, event pipeline.RunEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, event)
}

func assertTerminalOnlyAtEnd(t *testing.T, trace []pipeline.Stage) {
	t.Helper()
	for i, stage := range trace {
		last := i == len(trace)-1
		if stage.Terminal() != last {
			t.Fatalf("stage %q at %d: terminal=%v in trace %v", stage, i, stage.Terminal(), trace)
		}
	}
}

func requireStageError(t *testing.T, err error) *pipeline.StageError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error")
	}
	var stageErr *pipeline.StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected *pipeline.StageError, got %T: %v", err, err)
	}
	return stageErr
}

func assertNoFiles(t *testing.T, root string) {
	t.Helper()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		return fmt.Errorf("unexpected staged entry %s", path)
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Fatal(err)
	}
}
