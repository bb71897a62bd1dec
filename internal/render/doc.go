// Package render projects frozen navigation trees into the flat instruction
// stream consumed by the site renderer, and pairs that stream with the site
// configuration in a single encoded document.
//
// Projection performs no validation: callers hand it trees that already
// passed the validator. It only refuses trees that were never frozen or that
// still carry unresolved ingestion artifacts.
package render
