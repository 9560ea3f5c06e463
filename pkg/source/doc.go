// Package source exposes the contract used to resolve raw model text from a
// transformation request. Implementations live under internal/source so the
// transport details stay private.
package source
