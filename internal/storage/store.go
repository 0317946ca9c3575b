// Package storage contains the object store backends media files are written to
package storage

import "errors"

var (
	// ErrObjectExists is returned when a put would overwrite an existing object
	ErrObjectExists  = errors.New("object already exists")
	ErrUnknownBucket = errors.New("bucket is not configured")
	ErrInvalidKey    = errors.New("invalid object key")
)
