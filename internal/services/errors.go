package services

import "errors"

// ErrNotFound covers both a genuinely missing row and a row owned by another
// user; handlers must not distinguish the two.
var ErrNotFound = errors.New("not found")
