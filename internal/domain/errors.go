package domain

import "errors"

// ErrArgument the minimum quote volume is missing or not a usable number
var ErrArgument = errors.New("invalid argument")

// ErrNetwork an upstream request could not be completed
var ErrNetwork = errors.New("network error")

// ErrDecode an upstream response did not have the expected shape
var ErrDecode = errors.New("decode error")
