// Package model defines the request and result records that flow through the
// HLVL transformation pipeline, together with the error taxonomy every stage
// reports through. Wire names (VARXML, SPLOT, URL, TEXT, JSON, HTML) match the
// values accepted by the public transformation endpoint so callers can pass
// them through unchanged.
package model
