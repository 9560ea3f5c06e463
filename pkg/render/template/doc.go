// Package template defines the template engine seam used by the HTML report
// renderer, with a pongo2-backed implementation under gotemplate.
package template
