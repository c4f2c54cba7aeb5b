package identity

import "errors"

// Domain-level error values returned by the identity service.
var (
	ErrShortName            = errors.New("name too short")
	ErrWeakPassword         = errors.New("password too short")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrBadCredentials       = errors.New("bad credentials")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenSource          = errors.New("token source failure")
	ErrInvalidServiceConfig = errors.New("invalid identity service config")
)
