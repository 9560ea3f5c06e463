package render

import (
	"context"

	"github.com/goliatone/go-hlvl/pkg/model"
)

// Renderer converts a conversion result into a response body.
type Renderer interface {
	Format() model.ResponseFormat
	ContentType() string
	Render(ctx context.Context, result model.Result) ([]byte, error)
}

// Assemble builds the result record for one run. The request is echoed as
// received; artifact text is kept verbatim.
func Assemble(req model.Request, sourceModel, hlvl string) model.Result {
	return model.Result{
		Request:     req,
		SourceModel: sourceModel,
		HLVL:        hlvl,
	}
}
