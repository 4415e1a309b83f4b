package domain

import "errors"

// ErrNotFound is returned by sources when a requested page does not exist.
var ErrNotFound = errors.New("not found")
