package policy

import "errors"

var (
	ErrUnauthenticated  = errors.New("not signed in")
	ErrNoFile           = errors.New("no file selected")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrUnknownVariant   = errors.New("unknown variant")
)
