package errors

import "fmt"

// ErrorBuilder assembles a ClassifiedError. New errors fail the current
// operation and are never retried unless a modifier says otherwise.
type ErrorBuilder struct {
	err ClassifiedError
}

func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		retry:    RetryNever,
		message:  message,
		context:  ErrorContext{},
	}}
}

// WrapError is NewError with err recorded as the cause.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.Set(key, value)
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder   { return b.WithSeverity(SeverityFatal) }
func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }

// Retryable marks the failure as transient; retry.Do backs off and tries again.
func (b *ErrorBuilder) Retryable() *ErrorBuilder {
	b.err.retry = RetryBackoff
	return b
}

// UserAction marks the failure as one only an edit by the user can fix.
func (b *ErrorBuilder) UserAction() *ErrorBuilder {
	b.err.retry = RetryUserAction
	return b
}

// Build returns the error. The builder may be reused afterwards without
// affecting errors it already produced.
func (b *ErrorBuilder) Build() *ClassifiedError {
	out := b.err
	out.context = make(ErrorContext, len(b.err.context)).Merge(b.err.context)
	return &out
}

// Category constructors. Each sets the defaults the CLI relies on.

func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// ValidationError reports a sidebar the author has to fix.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).UserAction()
}

// ValidationErrorf is ValidationError with a formatted message.
func ValidationErrorf(format string, args ...any) *ErrorBuilder {
	return ValidationError(fmt.Sprintf(format, args...))
}

// ConflictError reports merge conflicts that were not accepted.
func ConflictError(message string) *ErrorBuilder {
	return NewError(CategoryConflict, message).UserAction()
}

func NotFoundError(message string) *ErrorBuilder {
	return NewError(CategoryNotFound, message)
}

// OracleError reports a failed document lookup. Lookups are retried.
func OracleError(message string) *ErrorBuilder {
	return NewError(CategoryOracle, message).Retryable()
}

func NetworkError(message string) *ErrorBuilder {
	return NewError(CategoryNetwork, message).Retryable()
}

func GitError(message string) *ErrorBuilder {
	return NewError(CategoryGit, message)
}

func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

// StoreError reports a revision store failure.
func StoreError(message string) *ErrorBuilder {
	return NewError(CategoryStore, message)
}

func RuntimeError(message string) *ErrorBuilder {
	return NewError(CategoryRuntime, message).Fatal()
}

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
