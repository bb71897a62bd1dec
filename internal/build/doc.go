// Package build runs navigation passes for the CLI and watch mode.
//
// A pass loads one sidebar from a file, a git revision or the revision
// store, normalizes it, validates it against the configured document oracle
// and, depending on the operation, merges, commits or renders it. Every
// stage is timed through metrics.Recorder and logged with the pass id,
// sidebar and stage attached via the observability context.
package build
