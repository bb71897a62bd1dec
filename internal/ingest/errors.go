package ingest

import (
	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
)

var (
	// ErrUnsupportedDocument indicates a top-level value that is neither a
	// sidebar mapping nor an item list.
	ErrUnsupportedDocument = ferrors.ValidationError("sidebar document must be a mapping of sidebars or a list of items").Build()

	// ErrSidebarNotFound indicates a requested sidebar name is absent.
	ErrSidebarNotFound = ferrors.NotFoundError("sidebar not found").Build()

	// ErrUnresolvedNode indicates an attempt to serialize a tree that still
	// holds unresolved entries.
	ErrUnresolvedNode = ferrors.ValidationError("cannot serialize unresolved node").Build()

	// ErrMalformedConflict indicates conflict markers that do not form
	// complete hunks.
	ErrMalformedConflict = ferrors.ValidationError("malformed conflict markers").Build()
)
