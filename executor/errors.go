package executor

import (
	"errors"
	"fmt"
	"strconv"

	"rosterdb/storage"
)

// SQLSTATE codes reported to clients.
const (
	CodeSyntaxError    = "42601"
	CodeInvalidText    = "22P02"
	CodeUniqueViolated = "23505"
	CodeUnsupported    = "0A000"
)

// QueryError is an error with a SQLSTATE code, returned by Execute and
// forwarded by the server in an ErrorResponse.
type QueryError struct {
	Code    string
	Message string
	cause   error
}

func (e *QueryError) Error() string { return e.Message }

func (e *QueryError) Unwrap() error { return e.cause }

// parseError classifies a parser failure. Malformed numbers get their own
// code so clients can tell them apart from unknown commands.
func parseError(err error) *QueryError {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return &QueryError{Code: CodeInvalidText, Message: err.Error(), cause: err}
	}
	return &QueryError{Code: CodeSyntaxError, Message: err.Error(), cause: err}
}

// engineError maps a storage error to a QueryError.
func engineError(err error) *QueryError {
	var dup *storage.DuplicateIDError
	if errors.As(err, &dup) {
		return &QueryError{
			Code:    CodeUniqueViolated,
			Message: fmt.Sprintf("duplicate key value violates unique constraint on id: %d already exists", dup.ID),
			cause:   err,
		}
	}
	return &QueryError{Code: CodeUnsupported, Message: err.Error(), cause: err}
}
