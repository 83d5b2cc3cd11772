// Package errors provides structured application errors with codes that map
// onto HTTP statuses. Controllers return these and the fiber error handler
// renders them.
//
// Validation failures are collected with a ValidationBuilder so one response
// can report every offending field:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRange("level", req.Level, 1, 20, vb)
//	if err := vb.Build(); err != nil {
//		return err
//	}
package errors
