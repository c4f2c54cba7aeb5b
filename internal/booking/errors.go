package booking

import "errors"

// Domain-level error values returned by the booking service.
var (
	ErrBadDate              = errors.New("invalid date, expected YYYY-MM-DD")
	ErrPastDate             = errors.New("date is in the past")
	ErrSlotTaken            = errors.New("slot already reserved")
	ErrUnknownSport         = errors.New("unknown sport")
	ErrUnknownReservation   = errors.New("unknown reservation")
	ErrInvalidReservation   = errors.New("invalid reservation")
	ErrInvalidServiceConfig = errors.New("invalid booking service config")
)
