// Package jsonout renders conversion results as a flat JSON object.
package jsonout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-hlvl/pkg/model"
	"github.com/goliatone/go-hlvl/pkg/render"
)

// document fixes the key order of the rendered object.
type document struct {
	ModelType       string `json:"modelType"`
	ResourceType    string `json:"resourceType"`
	ResourceContent string `json:"resourceContent"`
	ResponseType    string `json:"responseType"`
	SourceModel     string `json:"sourceModel"`
	HLVL            string `json:"hlvl"`
}

type Option func(*Renderer)

// WithIndent pretty-prints the object with the given indent string.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the JSON renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Format() model.ResponseFormat {
	return model.ResponseFormatJSON
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render encodes the result. Values are emitted verbatim; '<', '>' and '&'
// are not rewritten to unicode escapes.
func (r *Renderer) Render(ctx context.Context, result model.Result) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := document{
		ModelType:       string(result.ModelType),
		ResourceType:    string(result.ResourceKind),
		ResourceContent: result.ResourceContent,
		ResponseType:    string(result.ResponseFormat),
		SourceModel:     result.SourceModel,
		HLVL:            result.HLVL,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if r.indent != "" {
		enc.SetIndent("", r.indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("jsonout renderer: encode: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
