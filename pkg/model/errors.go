package model

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrCrossOrganism   = errors.New("record belongs to a different organism")
	ErrVersionConflict = errors.New("profile was modified concurrently")
)
