package hlvl

import (
	"io/fs"

	"github.com/goliatone/go-hlvl/pkg/renderers/report"
)

// EmbeddedTemplates exposes the built-in HTML report template so callers can
// copy or extend it and pass the result back via report.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return report.TemplatesFS()
}
