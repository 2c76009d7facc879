package repository

import "errors"

var (
	// ErrTimeslotTaken means another live booking already holds the timeslot.
	ErrTimeslotTaken = errors.New("timeslot already has an active booking")

	// ErrClaimRejected means the guarded insert matched no row: a reference is missing,
	// inactive, blocked or in the past.
	ErrClaimRejected = errors.New("claim preconditions not met")

	ErrNotFound = errors.New("record not found")
)
