// Package render assembles conversion results and turns them into response
// bodies. Renderers register under the response format they produce; the
// pipeline looks them up by the format named in the request.
package render
