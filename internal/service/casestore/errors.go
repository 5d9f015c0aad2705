package casestore

import "errors"

var (
	ErrDuplicateValue = errors.New("value already exists")
	ErrValueNotFound  = errors.New("value not found")
)
