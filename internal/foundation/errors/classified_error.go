package errors

import (
	stderrors "errors"
	"fmt"
)

// ClassifiedError is the error type shared by every navbuilder package. Its
// category picks the CLI exit code and its retry strategy drives retry.Do.
// Values are immutable once built; WithContext returns a copy.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	retry    RetryStrategy
	message  string
	cause    error
	context  ErrorContext
}

func (e *ClassifiedError) Error() string {
	prefix := fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
	if e.cause == nil {
		return prefix
	}
	return prefix + ": " + e.cause.Error()
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }
func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }
func (e *ClassifiedError) RetryStrategy() RetryStrategy { return e.retry }
func (e *ClassifiedError) Message() string { return e.message }
func (e *ClassifiedError) Cause() error { return e.cause }
func (e *ClassifiedError) Context() ErrorContext { return e.context }

// WithContext returns a copy of e with key set, leaving e untouched so
// package-level sentinels stay shareable.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	cp := *e
	cp.context = make(ErrorContext, len(e.context)+1).Merge(e.context).Set(key, value)
	return &cp
}

// Is matches on category and message, so a sentinel such as
// revision.ErrRevisionNotFound still matches after WithContext.
func (e *ClassifiedError) Is(target error) bool {
	other, ok := target.(*ClassifiedError)
	return ok && e.category == other.category && e.message == other.message
}

func (e *ClassifiedError) IsCategory(category ErrorCategory) bool {
	return e.category == category
}

// CanRetry is false for permanent failures and for those the user has to fix.
func (e *ClassifiedError) CanRetry() bool {
	switch e.retry {
	case RetryNever, RetryUserAction:
		return false
	}
	return true
}

func (e *ClassifiedError) IsFatal() bool {
	return e.severity == SeverityFatal
}

// AsClassified returns the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var ce *ClassifiedError
	if !stderrors.As(err, &ce) {
		return nil, false
	}
	return ce, true
}

func IsClassified(err error) bool {
	_, ok := AsClassified(err)
	return ok
}

// HasCategory reports whether the first ClassifiedError in err's chain has
// the given category.
func HasCategory(err error, category ErrorCategory) bool {
	ce, ok := AsClassified(err)
	return ok && ce.IsCategory(category)
}

// GetCategory returns the category of err, treating unclassified errors as
// internal.
func GetCategory(err error) ErrorCategory {
	if ce, ok := AsClassified(err); ok {
		return ce.category
	}
	return CategoryInternal
}
