// Package staging owns the on-disk workspace where source models and produced
// HLVL artifacts are persisted between pipeline stages.
//
// The layout keeps one directory per model type plus a shared HLVL directory:
//
//	<base>/model/<run>/model.xml
//	<base>/splot/<run>/model.xml
//	<base>/hlvl/<run>/model.hlvl
//
// Every run writes below its own run directory, so concurrent runs of the same
// model type never touch each other's files. Nothing in this package deletes
// staged artifacts unless Area.Remove is called explicitly.
package staging
