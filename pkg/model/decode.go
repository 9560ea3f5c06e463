package model

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// RequestFromMap decodes a loosely typed payload (a decoded JSON or YAML body)
// into a normalised Request. Unknown keys are rejected so typos surface as
// configuration errors rather than silently empty fields.
func RequestFromMap(payload map[string]any) (Request, error) {
	req, err := DecodeRequest(payload)
	if err != nil {
		return Request{}, err
	}
	normalized, err := req.Normalize()
	if err != nil {
		return Request{}, err
	}
	return normalized, nil
}

// DecodeRequest decodes payload without normalising, so partial requests can
// be completed by the caller.
func DecodeRequest(payload map[string]any) (Request, error) {
	var req Request
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Request{}, fmt.Errorf("model: configure decoder: %w", err)
	}
	if err := decoder.Decode(payload); err != nil {
		return Request{}, WrapError(KindConfiguration, "model.DecodeRequest", err)
	}
	return req, nil
}
