package apperrors

import "errors"

var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrReservedWordsMissing = errors.New("reserved word list missing")
	ErrSuspectedInjection   = errors.New("suspected SQL injection in raw fragment")
	ErrMultipleStatements   = errors.New("multiple SQL statements not allowed; only single statements are permitted")
)
