package template

import (
	"io"
)

// TemplateRenderer renders named templates or inline template strings.
// Implementations must escape interpolated values for HTML unless a value is
// explicitly marked safe by the template.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
