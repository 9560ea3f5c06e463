// Package convert selects and runs the converter strategy registered for a
// model type. Strategies receive absolute input/output directories and a
// target name and must leave <output>/<name>.hlvl behind; anything else,
// including a panic, is reported as a conversion error.
package convert
