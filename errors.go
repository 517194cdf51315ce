package vart

import "errors"

// ErrKeyExists is returned by Insert and Emplace when the key is
// already present. It is comparable with errors.Is.
var ErrKeyExists = errors.New("vart: key already exists")

// ErrNotFound is returned by Erase when the key is absent.
var ErrNotFound = errors.New("vart: key not found")
