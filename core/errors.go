package core

import "github.com/pkg/errors"

var (
	ErrKeyNotFound    = errors.New("key not found")
	ErrStorageFull    = errors.New("storage is full, please clear some data")
	ErrStorageCorrupt = errors.New("stored data is corrupt, reset to defaults")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
}

func NewNotFoundError(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

func (err NotFoundError) Error() string {
	return err.Entity + " not found"
}

// ConflictError is informational: the requested state already holds.
type ConflictError struct {
	msg string
}

func NewConflictError(msg string) *ConflictError {
	return &ConflictError{msg: msg}
}

func (err ConflictError) Error() string {
	return err.msg
}

type PermissionError struct {
	msg string
}

func NewPermissionError(msg string) *PermissionError {
	return &PermissionError{msg: msg}
}

func (err PermissionError) Error() string {
	return err.msg
}

// StorageError wraps a failure of the durable medium.
// In-memory state is left as is when a write fails.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (err *StorageError) Error() string {
	return "storage " + err.Op + " " + err.Key + ": " + err.Err.Error()
}

func (err *StorageError) Unwrap() error { return err.Err }

func (err *StorageError) Cause() error { return err.Err }

func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

func IsConflict(err error) bool {
	var cErr *ConflictError
	return errors.As(err, &cErr)
}

func IsPermission(err error) bool {
	var pErr *PermissionError
	return errors.As(err, &pErr)
}

func IsStorage(err error) bool {
	var sErr *StorageError
	return errors.As(err, &sErr)
}

func IsStorageFull(err error) bool {
	return errors.Is(err, ErrStorageFull)
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	var sErr *shutdown
	return errors.As(err, &sErr)
}
