package apperr

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrCollision = errors.New("slug collision")
)
