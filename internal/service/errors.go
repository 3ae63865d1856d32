package service

import "errors"

// Kind classifies domain failures so surfaces can map them to status codes.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidTransition
	KindInvalidInput
	KindEmptyResult
	KindConstraintViolation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindInvalidInput:
		return "invalid_input"
	case KindEmptyResult:
		return "empty_result"
	case KindConstraintViolation:
		return "constraint_violation"
	default:
		return "unknown"
	}
}

// Error is a domain failure with a message meant for the caller.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrEmployeeNotFound = newError(KindNotFound, "Employee not found!")

	ErrAlreadyCheckedIn         = newError(KindInvalidTransition, "Employee already checked in!")
	ErrNotCheckedInOrCheckedOut = newError(KindInvalidTransition, "Employee not checked in or already checked out!")
	ErrNotCheckedIn             = newError(KindInvalidTransition, "Employee not checked in!")
	ErrBreakAlreadyStarted      = newError(KindInvalidTransition, "Break already started!")
	ErrBreakNotStarted          = newError(KindInvalidTransition, "Break not started or already ended!")

	ErrInvalidRecordType = newError(KindInvalidInput, "Invalid record type!")
	ErrInvalidDate       = newError(KindInvalidInput, "Invalid date format")
	ErrInvalidEmployeeID = newError(KindInvalidInput, "Invalid employee_id")
	ErrNameRequired      = newError(KindInvalidInput, "Name is required!")

	ErrNoRecords = newError(KindEmptyResult, "No records found for the specified period")

	ErrDuplicateName = newError(KindConstraintViolation, "Employee name already exists!")
)

// KindOf returns the kind of a domain error, or 0 for any other error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
