// Package prompt collects transformation requests interactively.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-hlvl/pkg/model"
)

// ErrCancelled is returned when the user declines the final confirmation.
var ErrCancelled = errors.New("prompt: cancelled")

// RequestWizard asks for every field seed leaves empty, keeps the fields it
// sets, and ends with a confirmation.
func RequestWizard(ctx context.Context, driver Driver, seed model.Request) (model.Request, error) {
	if driver == nil {
		return model.Request{}, errors.New("prompt: driver is required")
	}
	req := seed

	if req.ModelType == "" {
		choice, err := choose(ctx, driver, "Model type", model.ModelTypes())
		if err != nil {
			return model.Request{}, err
		}
		req.ModelType = choice
	}

	if req.ResourceKind == "" {
		choice, err := choose(ctx, driver, "Resource type", model.ResourceKinds())
		if err != nil {
			return model.Request{}, err
		}
		req.ResourceKind = choice
	}

	if strings.TrimSpace(req.ResourceContent) == "" {
		content, err := askContent(ctx, driver, req.ResourceKind)
		if err != nil {
			return model.Request{}, err
		}
		req.ResourceContent = content
	}

	if req.ResponseFormat == "" {
		choice, err := choose(ctx, driver, "Response type", model.ResponseFormats())
		if err != nil {
			return model.Request{}, err
		}
		req.ResponseFormat = choice
	}

	ok, err := driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Convert %s model to %s?", req.ModelType, req.ResponseFormat),
		Default: true,
	})
	if err != nil {
		return model.Request{}, err
	}
	if !ok {
		return model.Request{}, ErrCancelled
	}
	return req, nil
}

func choose[T ~string](ctx context.Context, driver Driver, message string, values []T) (T, error) {
	options := make([]string, len(values))
	for i, value := range values {
		options[i] = string(value)
	}
	idx, err := driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(values) {
		return "", fmt.Errorf("prompt: %s: invalid choice %d", strings.ToLower(message), idx)
	}
	return values[idx], nil
}

func askContent(ctx context.Context, driver Driver, kind model.ResourceKind) (string, error) {
	if kind == model.ResourceKindURL {
		return driver.Input(ctx, InputConfig{
			Message:   "Model URL",
			Validator: validateURL,
		})
	}
	text, err := driver.TextArea(ctx, TextAreaConfig{
		Message: "Model text",
		Help:    "Paste the model; finish with an empty line.",
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("prompt: model text is empty")
	}
	return text, nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if parsed.Scheme == "" || (parsed.Host == "" && parsed.Scheme != "file") {
		return fmt.Errorf("%q is not an absolute URL", raw)
	}
	return nil
}
