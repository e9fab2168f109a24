// Package errs holds the error taxonomy shared by the canteen services.
//
// Every kind follows the same shape:
//   - a sentinel (ErrValidation, ErrNotFound, ...) usable with errors.Is
//   - a struct carrying the details a handler needs to build a response
//   - constructor functions
//   - Error() producing the human readable message sent to clients
//   - Unwrap() returning the sentinel
//
// Handlers translate these into HTTP statuses; services never touch HTTP.
package errs
