package errors

import (
	stderrors "errors"
	"fmt"
)

const (
	CodeDecode           = 400
	CodeDecryption       = 401
	CodeUnrecognizedType = 404
	CodeFrameTooLarge    = 413
	CodeMissingField     = 422
	CodeUnsupportedValue = 415
	CodeTransport        = 500
)

// Sentinels matched by errors.Is against the typed kinds below.
var (
	ErrDecode           = stderrors.New("malformed canonical encoding")
	ErrEncode           = stderrors.New("value has no canonical encoding")
	ErrMissingField     = stderrors.New("required field missing")
	ErrUnrecognizedType = stderrors.New("unrecognized message type")
	ErrDecryption       = stderrors.New("decryption failed")
	ErrNotEncrypted     = stderrors.New("frame is not encrypted")
	ErrFrameTooLarge    = stderrors.New("frame exceeds maximum size")
)

// DecodeError reports bytes or values that do not form a valid message.
type DecodeError struct {
	*genericErr
	cause error
}

func NewDecodeError(caller string, format string, args ...any) *DecodeError {
	return &DecodeError{genericErr: &genericErr{fatal: true, code: CodeDecode, reason: fmt.Sprintf(format, args...), caller: caller}}
}

// WrapDecodeError keeps cause reachable through errors.Unwrap.
func WrapDecodeError(caller string, cause error, format string, args ...any) *DecodeError {
	e := NewDecodeError(caller, format, args...)
	e.reason = fmt.Sprintf("%s: %v", e.reason, cause)
	e.cause = cause
	return e
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
func (e *DecodeError) Unwrap() error        { return e.cause }

// EncodeError reports a value the canonical encoder refuses to represent.
type EncodeError struct {
	*genericErr
}

func NewEncodeError(caller string, format string, args ...any) *EncodeError {
	return &EncodeError{genericErr: &genericErr{fatal: true, code: CodeUnsupportedValue, reason: fmt.Sprintf(format, args...), caller: caller}}
}

func (e *EncodeError) Is(target error) bool { return target == ErrEncode }

type MissingFieldError struct {
	*genericErr
	TypeID int
	Field  string
}

func NewMissingFieldError(caller string, typeID int, field string) *MissingFieldError {
	return &MissingFieldError{
		genericErr: &genericErr{fatal: true, code: CodeMissingField, reason: fmt.Sprintf("message type %d: required field %q is absent", typeID, field), caller: caller},
		TypeID:     typeID,
		Field:      field,
	}
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

type UnrecognizedTypeError struct {
	*genericErr
	TypeID int64
}

func NewUnrecognizedTypeError(caller string, typeID int64) *UnrecognizedTypeError {
	return &UnrecognizedTypeError{
		genericErr: &genericErr{fatal: true, code: CodeUnrecognizedType, reason: fmt.Sprintf("no variant registered for message type %d", typeID), caller: caller},
		TypeID:     typeID,
	}
}

func (e *UnrecognizedTypeError) Is(target error) bool { return target == ErrUnrecognizedType }

// DecryptionError is any decryptor failure other than ErrNotEncrypted.
type DecryptionError struct {
	*genericErr
	cause error
}

func NewDecryptionError(caller string, cause error) *DecryptionError {
	reason := "decryption failed"
	if cause != nil {
		reason = fmt.Sprintf("decryption failed: %v", cause)
	}
	return &DecryptionError{
		genericErr: &genericErr{fatal: true, code: CodeDecryption, reason: reason, caller: caller},
		cause:      cause,
	}
}

func (e *DecryptionError) Is(target error) bool { return target == ErrDecryption }
func (e *DecryptionError) Unwrap() error        { return e.cause }

type FrameTooLargeError struct {
	*genericErr
	Size int
	Max  int
}

func NewFrameTooLargeError(caller string, size, max int) *FrameTooLargeError {
	return &FrameTooLargeError{
		genericErr: &genericErr{fatal: true, code: CodeFrameTooLarge, reason: fmt.Sprintf("frame of %d bytes exceeds limit of %d", size, max), caller: caller},
		Size:       size,
		Max:        max,
	}
}

func (e *FrameTooLargeError) Is(target error) bool { return target == ErrFrameTooLarge }
