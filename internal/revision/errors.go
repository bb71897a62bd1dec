package revision

import "github.com/Mshivam2409/rustduino/internal/foundation/errors"

var (
	// ErrRevisionNotFound indicates the requested sidebar or revision does not exist.
	ErrRevisionNotFound = errors.NotFoundError("revision not found").Build()

	// ErrCorruptRevision indicates stored content could not be decoded.
	ErrCorruptRevision = errors.StoreError("stored revision content is corrupt").Build()

	// ErrUnresolvedTree indicates a tree with unresolved nodes was committed.
	ErrUnresolvedTree = errors.ValidationError("cannot commit a tree containing unresolved nodes").Build()
)

func storeErr(err error, op string) error {
	return errors.WrapError(err, errors.CategoryStore, "revision store operation failed").
		WithContext("op", op).Build()
}

func corrupt(err error, id string) error {
	return errors.WrapError(err, errors.CategoryStore, ErrCorruptRevision.Message()).
		WithContext("revision", id).Build()
}
