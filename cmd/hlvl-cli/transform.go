package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-hlvl"
	"github.com/goliatone/go-hlvl/internal/prompt"
	"github.com/goliatone/go-hlvl/pkg/model"
	"github.com/goliatone/go-hlvl/pkg/pipeline"
	"github.com/goliatone/go-hlvl/pkg/staging"
)

type transformFlags struct {
	modelType       string
	text            string
	url             string
	format          string
	requestFile     string
	output          string
	interactive     bool
	cleanup         bool
	metricsTextfile string
}

func newTransformCmd() *cobra.Command {
	flags := &transformFlags{}
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Convert one model to HLVL",
		Example: `  hlvl-cli transform --model-type SPLOT --text @phone.xml --format JSON
  hlvl-cli transform --model-type VARXML --url https://example.com/model.xml --format HTML --output out.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.modelType, "model-type", "", "model type (VARXML or SPLOT)")
	cmd.Flags().StringVar(&flags.text, "text", "", "inline model text, @file to read a file or @- for stdin")
	cmd.Flags().StringVar(&flags.url, "url", "", "URL of the model")
	cmd.Flags().StringVar(&flags.format, "format", "", "response type (JSON or HTML)")
	cmd.Flags().StringVar(&flags.requestFile, "request", "", "YAML or JSON file holding the request fields")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "prompt for missing request fields")
	cmd.Flags().BoolVar(&flags.cleanup, "cleanup", false, "remove the run's staged files afterwards")
	cmd.Flags().StringVar(&flags.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file")
	cmd.MarkFlagsMutuallyExclusive("text", "url")

	return cmd
}

func runTransform(cmd *cobra.Command, flags *transformFlags) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return model.WrapError(model.KindConfiguration, "hlvl-cli", err)
	}

	req, err := buildRequest(cmd.InOrStdin(), flags)
	if err != nil {
		return err
	}
	if flags.interactive {
		driver := prompt.NewSurveyDriver(survey.WithStdio(os.Stdin, os.Stdout, os.Stderr))
		req, err = prompt.RequestWizard(ctx, driver, req)
		if err != nil {
			return err
		}
	}

	orch, recorder, err := hlvl.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return model.WrapError(model.KindConfiguration, "hlvl-cli", err)
	}

	out, runErr := orch.Transform(ctx, req)
	if flags.cleanup {
		defer cleanupRun(cfg.Workspace.BaseDir, req.ModelType, runID(out, runErr))
	}

	if flags.metricsTextfile != "" {
		if err := prometheus.WriteToTextfile(flags.metricsTextfile, recorder.Registry()); err != nil {
			runErr = errors.Join(runErr, model.WrapError(model.KindIO, "hlvl-cli", err))
		}
	}
	if runErr != nil {
		return runErr
	}

	if flags.output != "" {
		if err := os.WriteFile(flags.output, out.Body, 0o644); err != nil {
			return model.WrapError(model.KindIO, "hlvl-cli", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s written to %s\n", out.Result.ResponseFormat, flags.output)
		return nil
	}

	w := cmd.OutOrStdout()
	if _, err := w.Write(out.Body); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

func runID(out hlvl.Output, err error) string {
	if out.RunID != "" {
		return out.RunID
	}
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		return stageErr.RunID
	}
	return ""
}

// cleanupRun removes a run's staged files. Runs rejected before staging have
// nothing to remove.
func cleanupRun(baseDir string, modelType model.ModelType, id string) {
	parsed, err := model.ParseModelType(string(modelType))
	if err != nil || id == "" {
		return
	}
	area, err := staging.New(baseDir).Open(id, parsed)
	if err != nil {
		return
	}
	_ = area.Remove()
}

// buildRequest merges the request file with flag values; flags win.
func buildRequest(stdin io.Reader, flags *transformFlags) (model.Request, error) {
	var req model.Request
	if flags.requestFile != "" {
		loaded, err := readRequestFile(flags.requestFile)
		if err != nil {
			return model.Request{}, err
		}
		req = loaded
	}

	if flags.modelType != "" {
		req.ModelType = model.ModelType(flags.modelType)
	}
	if flags.format != "" {
		req.ResponseFormat = model.ResponseFormat(flags.format)
	}
	switch {
	case flags.url != "":
		req.ResourceKind = model.ResourceKindURL
		req.ResourceContent = flags.url
	case flags.text != "":
		text, err := resolveText(stdin, flags.text)
		if err != nil {
			return model.Request{}, err
		}
		req.ResourceKind = model.ResourceKindText
		req.ResourceContent = text
	}
	return req, nil
}

func readRequestFile(path string) (model.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Request{}, model.WrapError(model.KindIO, "hlvl-cli", err)
	}
	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return model.Request{}, model.WrapError(model.KindConfiguration, "hlvl-cli", fmt.Errorf("parse %s: %w", path, err))
	}
	return model.DecodeRequest(payload)
}

// resolveText expands "@path" to the file's content and "@-" to stdin.
func resolveText(stdin io.Reader, value string) (string, error) {
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}
	name := strings.TrimPrefix(value, "@")
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", model.WrapError(model.KindIO, "hlvl-cli", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", model.WrapError(model.KindIO, "hlvl-cli", err)
	}
	return string(data), nil
}
