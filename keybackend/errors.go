package keybackend

import "errors"

// ErrKeyNotFound is returned when a key file holds no key material.
var ErrKeyNotFound = errors.New("key material not found")
