package domain

import (
	"errors"
	"strings"
)

var (
	ErrGatewayClosed     = errors.New("gateway_closed")
	ErrUnsupportedTarget = errors.New("unsupported_target")
)

// Backend error codes that mean the delivery_records table is missing or
// does not match the expected columns.
const (
	CodeTableNotFound    = "PGRST205"
	CodeColumnNotFound   = "PGRST204"
	CodeUndefinedTable   = "42P01"
	CodeUndefinedColumn  = "42703"
	CodeMySQLNoSuchTable = "1146"
	CodeMySQLBadField    = "1054"
)

var schemaMissingCodes = map[string]struct{}{
	CodeTableNotFound:    {},
	CodeColumnNotFound:   {},
	CodeUndefinedTable:   {},
	CodeUndefinedColumn:  {},
	CodeMySQLNoSuchTable: {},
	CodeMySQLBadField:    {},
}

// RemoteError is the uniform shape of every gateway failure.
type RemoteError struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Code    string `json:"code,omitempty"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *RemoteError) Error() string {
	parts := make([]string, 0, 3)
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Details != "" {
		parts = append(parts, "Details: "+e.Details)
	}
	if e.Code != "" {
		parts = append(parts, "Code: "+e.Code)
	}
	if len(parts) == 0 {
		if e.Err != nil {
			return e.Err.Error()
		}
		return "Unknown error"
	}
	return strings.Join(parts, " | ")
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// SchemaMissing reports whether the operator has to run the setup script.
func (e *RemoteError) SchemaMissing() bool {
	if e == nil {
		return false
	}
	_, ok := schemaMissingCodes[e.Code]
	return ok
}

// AsRemoteError unwraps err into a *RemoteError.
func AsRemoteError(err error) (*RemoteError, bool) {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) && remoteErr != nil {
		return remoteErr, true
	}
	return nil, false
}

// WrapRemoteError returns err as a *RemoteError, wrapping plain transport
// errors with their message.
func WrapRemoteError(err error) error {
	if err == nil {
		return nil
	}
	if remoteErr, ok := AsRemoteError(err); ok {
		return remoteErr
	}
	return &RemoteError{Message: err.Error(), Err: err}
}
