package kv

import "errors"

// ErrNotFound signals an empty slot. Callers treat it as "no persisted state
// yet", not a failure.
var ErrNotFound = errors.New("kv: slot not found")
