package spring

import "errors"

var (
	// ErrNoSystem is the panic value of a looper that runs before a System
	// has been attached to it.
	ErrNoSystem = errors.New("spring: cannot run looper without a spring system")
)
