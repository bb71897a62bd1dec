package errors

// Package errors provides sentinel errors for documentation catalog operations.

import "errors"

var (
	// ErrDocsPathNotFound indicates the configured documentation directory does not exist.
	ErrDocsPathNotFound = errors.New("documentation path not found")

	// ErrDocsDirWalkFailed indicates filesystem traversal of the docs directory failed.
	ErrDocsDirWalkFailed = errors.New("documentation directory walk failed")

	// ErrFileReadFailed indicates reading a documentation file failed.
	ErrFileReadFailed = errors.New("documentation file read failed")

	// ErrInvalidFrontmatter indicates a document's YAML frontmatter could not be parsed.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrDuplicateID indicates two files resolve to the same document id.
	ErrDuplicateID = errors.New("duplicate document id")
)
