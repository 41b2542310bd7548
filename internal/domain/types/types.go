package types

// Enum for user roles
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	CustomerRole UserRole = "CUSTOMER"
	DriverRole   UserRole = "DRIVER"
)

// Enum for user account status
type UserStatus string

const (
	ActiveStatus   UserStatus = "ACTIVE"
	InActiveStatus UserStatus = "INACTIVE"
	BannedStatus   UserStatus = "BANNED"
)

// Enum for ride request lifecycle.
// Transitions only move forward: PENDING -> ACCEPTED|CANCELLED,
// ACCEPTED -> COMPLETED|CANCELLED. COMPLETED and CANCELLED are terminal.
type RideStatus string

func (s RideStatus) String() string {
	return string(s)
}

const (
	RidePending   RideStatus = "PENDING"
	RideAccepted  RideStatus = "ACCEPTED"
	RideCompleted RideStatus = "COMPLETED"
	RideCancelled RideStatus = "CANCELLED"
)

// Final reports whether the ride reached a terminal state.
func (s RideStatus) Final() bool {
	return s == RideCompleted || s == RideCancelled
}

// Enum for booking lifecycle. COMPLETED and CANCELLED are terminal.
type BookingStatus string

func (s BookingStatus) String() string {
	return string(s)
}

const (
	BookingOngoing   BookingStatus = "ONGOING"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Final reports whether the booking reached a terminal state.
func (s BookingStatus) Final() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// MirroredRideStatus returns the ride status that must stay in lockstep
// with this booking status.
func (s BookingStatus) MirroredRideStatus() RideStatus {
	switch s {
	case BookingCompleted:
		return RideCompleted
	case BookingCancelled:
		return RideCancelled
	default:
		return RideAccepted
	}
}

// Enum for emergency alert outcomes
type AlertStatus string

const (
	AlertSent   AlertStatus = "SENT"
	AlertFailed AlertStatus = "FAILED"
)

// Enum for coordinate owners
type EntityType string

const (
	Driver   EntityType = "driver"
	Customer EntityType = "customer"
)
