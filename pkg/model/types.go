package model

import "strings"

// ModelType identifies the source model language of a transformation request.
type ModelType string

const (
	// ModelTypeVariamosXML is the VariaMos XML (mxGraph) model format.
	ModelTypeVariamosXML ModelType = "VARXML"
	// ModelTypeSPLOT is the SPLOT feature-model text format.
	ModelTypeSPLOT ModelType = "SPLOT"
)

// ModelTypes lists the supported model types in a stable order.
func ModelTypes() []ModelType {
	return []ModelType{ModelTypeVariamosXML, ModelTypeSPLOT}
}

// ResourceKind describes how the source model content is delivered.
type ResourceKind string

const (
	// ResourceKindURL means the resource content is an address to fetch.
	ResourceKindURL ResourceKind = "URL"
	// ResourceKindText means the resource content is the model itself.
	ResourceKindText ResourceKind = "TEXT"
)

// ResourceKinds lists the supported resource kinds.
func ResourceKinds() []ResourceKind {
	return []ResourceKind{ResourceKindURL, ResourceKindText}
}

// ResponseFormat selects how a conversion result is rendered.
type ResponseFormat string

const (
	ResponseFormatJSON ResponseFormat = "JSON"
	ResponseFormatHTML ResponseFormat = "HTML"
)

// ResponseFormats lists the supported response formats.
func ResponseFormats() []ResponseFormat {
	return []ResponseFormat{ResponseFormatJSON, ResponseFormatHTML}
}

// ParseModelType normalises raw into a supported ModelType.
func ParseModelType(raw string) (ModelType, error) {
	candidate := ModelType(canonical(raw))
	for _, known := range ModelTypes() {
		if candidate == known {
			return known, nil
		}
	}
	return "", Errorf(KindConfiguration, "model.ParseModelType", "unsupported model type %q", raw)
}

// ParseResourceKind normalises raw into a supported ResourceKind.
func ParseResourceKind(raw string) (ResourceKind, error) {
	candidate := ResourceKind(canonical(raw))
	for _, known := range ResourceKinds() {
		if candidate == known {
			return known, nil
		}
	}
	return "", Errorf(KindConfiguration, "model.ParseResourceKind", "unsupported resource type %q", raw)
}

// ParseResponseFormat normalises raw into a supported ResponseFormat.
func ParseResponseFormat(raw string) (ResponseFormat, error) {
	candidate := ResponseFormat(canonical(raw))
	for _, known := range ResponseFormats() {
		if candidate == known {
			return known, nil
		}
	}
	return "", Errorf(KindConfiguration, "model.ParseResponseFormat", "unsupported response type %q", raw)
}

func canonical(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Request is an immutable transformation request. The tags mirror the field
// names of the public endpoint.
type Request struct {
	ModelType       ModelType      `json:"modelType" yaml:"modelType" mapstructure:"modelType"`
	ResourceKind    ResourceKind   `json:"resourceType" yaml:"resourceType" mapstructure:"resourceType"`
	ResourceContent string         `json:"resourceContent" yaml:"resourceContent" mapstructure:"resourceContent"`
	ResponseFormat  ResponseFormat `json:"responseType" yaml:"responseType" mapstructure:"responseType"`
}

// Normalize returns a copy of the request with every enumerated field parsed
// into its canonical form. The first unsupported value aborts with a
// configuration error.
func (r Request) Normalize() (Request, error) {
	modelType, err := ParseModelType(string(r.ModelType))
	if err != nil {
		return Request{}, err
	}
	kind, err := ParseResourceKind(string(r.ResourceKind))
	if err != nil {
		return Request{}, err
	}
	format, err := ParseResponseFormat(string(r.ResponseFormat))
	if err != nil {
		return Request{}, err
	}
	out := r
	out.ModelType = modelType
	out.ResourceKind = kind
	out.ResponseFormat = format
	return out, nil
}

// Validate reports whether the request can be executed.
func (r Request) Validate() error {
	if _, err := r.Normalize(); err != nil {
		return err
	}
	if strings.TrimSpace(r.ResourceContent) == "" {
		return Errorf(KindConfiguration, "model.Request.Validate", "resource content is required")
	}
	return nil
}

// Result is the record assembled once per run from the request and the staged
// artifacts. It is consumed exactly once by a renderer.
type Result struct {
	Request
	SourceModel string `json:"sourceModel"`
	HLVL        string `json:"hlvl"`
}
