package git

import (
	stderrors "errors"
	"strings"

	"github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ClassifyGitError translates go-git errors into ClassifiedErrors. Missing
// repositories, revisions and paths become not_found; everything else is a
// git error.
func ClassifyGitError(err error, op, target string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	var builder *errors.ErrorBuilder
	switch {
	case stderrors.Is(err, git.ErrRepositoryNotExists),
		stderrors.Is(err, plumbing.ErrReferenceNotFound),
		stderrors.Is(err, plumbing.ErrObjectNotFound),
		stderrors.Is(err, object.ErrFileNotFound),
		stderrors.Is(err, object.ErrDirectoryNotFound),
		strings.Contains(strings.ToLower(err.Error()), "not found"):
		builder = errors.NotFoundError("git object not found")
	default:
		builder = errors.GitError("git operation failed")
	}
	return builder.WithCause(err).WithContext("op", op).WithContext("target", target).Build()
}
