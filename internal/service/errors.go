package service

import "errors"

var ErrEmailTaken = errors.New("this email is already registered")

// AuthError is returned when signing in fails. Message is safe to show to
// the user.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "sign in failed: " + e.Message
}

// StorageError means the object store rejected the upload. No metadata row
// was written.
type StorageError struct {
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	return "upload failed: " + e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// InsertError means the object was stored but its media_files row couldn't
// be written. The stored object is left in place.
type InsertError struct {
	Message string
	Err     error
}

func (e *InsertError) Error() string {
	return "insert media_files failed: " + e.Message
}

func (e *InsertError) Unwrap() error {
	return e.Err
}
