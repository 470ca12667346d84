package gnums

import "fmt"

type ErrorKind int

const (
	KindAuthentication ErrorKind = iota
	KindSession
	KindValidation
	KindExternal
)

// PortalError is what every operation in this package returns on
// failure. Kind is what callers dispatch on, the wrapped error (if any)
// is the underlying cause.
type PortalError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PortalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err)
	}
	return e.Message
}

func (e *PortalError) Unwrap() error {
	return e.Err
}

var (
	ErrInvalidCredentials = &PortalError{
		Kind:    KindAuthentication,
		Message: "Invalid username or password.",
	}
	ErrInvalidSession = &PortalError{
		Kind:    KindSession,
		Message: "Invalid session or expired cookies.",
	}
)

func externalError(op string, err error) *PortalError {
	return &PortalError{
		Kind:    KindExternal,
		Message: op + " failed",
		Err:     err,
	}
}

func authError(message string) *PortalError {
	return &PortalError{Kind: KindAuthentication, Message: message}
}

func validationError(message string) *PortalError {
	return &PortalError{Kind: KindValidation, Message: message}
}
