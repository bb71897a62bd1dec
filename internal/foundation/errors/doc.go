// Package errors provides the classified error primitives used across navbuilder.
//
// A ClassifiedError carries a category (config, validation, oracle, store, ...),
// a severity, a retry strategy and structured context. Packages declare
// sentinels with the fluent builder and wrap causes at their boundaries; the
// CLI adapter turns categories into exit codes.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryOracle, "document lookup failed").
//		Retryable().
//		WithContext("sidebar", name).
//		Build()
package errors
