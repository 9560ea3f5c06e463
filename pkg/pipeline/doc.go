// Package pipeline sequences one transformation request through fetching,
// staging, conversion and rendering.
//
// Every run moves strictly forward through
//
//	Received → Fetching → Staging → Converting → Assembling → Rendered
//
// and any failure jumps straight to Failed, annotated with the stage that
// failed and the error kind. There are no retries. Each run stages its files
// under its own run ID so concurrent runs of the same model type never share
// a file.
package pipeline
