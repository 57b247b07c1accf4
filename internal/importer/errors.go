package importer

import "errors"

var (
	ErrDecode         = errors.New("decode_error")
	ErrEmptyURL       = errors.New("empty_url")
	ErrSheetsDisabled = errors.New("sheets_api_not_configured")
)

// DecodeError is the single terminal error of a failed import. Message is
// safe to show to the operator.
type DecodeError struct {
	Source  string
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func decodeError(source, message string, err error) error {
	return &DecodeError{Source: source, Message: message, Err: err}
}
