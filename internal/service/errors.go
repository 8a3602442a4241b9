package service

import "errors"

var (
	ErrFieldNotAllowed   = errors.New("field is not allowed for update")
	ErrInvalidRange      = errors.New("end date is before start date")
	ErrNegativeValue     = errors.New("value must be non-negative")
	ErrInvalidValue      = errors.New("invalid field value")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingDateColumn = errors.New("file has no Date column")
)
