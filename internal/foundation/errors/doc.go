// Package errors provides the classified error primitives used across javadocref.
//
// A ClassifiedError carries a category, a severity, a retry hint and structured
// context. Errors are built through the fluent ErrorBuilder:
//
//	err := errors.NewError(errors.CategoryNotFound, "reference not found").
//		WithContext("reference", raw).
//		WithContext("source", alias).
//		Build()
//
// Two ClassifiedErrors compare equal under errors.Is when their category and
// message match, so package-level sentinels built with the same builder can be
// used to test for a failure kind regardless of the context attached to it.
package errors
