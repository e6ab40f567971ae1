package errors

// ErrorCode identifies an error kind. Codes are stable strings so they can
// be attached to log events as-is.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Error is a coded error carrying an optional cause and detail.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	Unwrap() error
}

// Factory creates coded errors.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithData(code ErrorCode, data any) Error
}
