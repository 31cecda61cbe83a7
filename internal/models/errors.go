package models

import "errors"

var (
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrVehicleUnavailable = errors.New("vehicle is not available")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserEmailMissing   = errors.New("user email not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrTicketNotFound     = errors.New("ticket not found")
)

var (
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrBookingConflict  = errors.New("vehicle is already booked for the selected time period")
	ErrEmailExists      = errors.New("email is already registered")
	ErrInvalidQRFormat  = errors.New("invalid qr code format")
)

var ErrInvalidCredentials = errors.New("invalid credentials")
