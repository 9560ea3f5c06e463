package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-hlvl/pkg/model"
	"github.com/goliatone/go-hlvl/pkg/render"
	"github.com/goliatone/go-hlvl/pkg/staging"
)

func TestTransform_InitialiseErrorIsConfiguration(t *testing.T) {
	original := defaultRenderers
	defaultRenderers = func() (*render.Registry, error) {
		return render.NewRegistry(), errors.New("template bundle missing")
	}
	t.Cleanup(func() { defaultRenderers = original })

	o := New(WithWorkspace(staging.New(t.TempDir())))
	_, err := o.Transform(context.Background(), model.Request{
		ModelType:       model.ModelTypeSPLOT,
		ResourceKind:    model.ResourceKindText,
		ResourceContent: "A",
		ResponseFormat:  model.ResponseFormatJSON,
	})
	if !model.IsKind(err, model.KindConfiguration) {
		t.Fatalf("expected configuration error, got %v (kind %q)", err, model.KindOf(err))
	}
}
