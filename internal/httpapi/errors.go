package httpapi

import "errors"

var (
	errBadAddress       = errors.New("address out of range")
	errInstanceNotFound = errors.New("instance not found")
)
