package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound                 = errors.New("entity not found")
	ErrAlreadyExists            = errors.New("entity already exists")
	ErrInvalidArgument          = errors.New("invalid argument")
	ErrInvalidExecContext       = errors.New("invalid query execution context")
	ErrReadDatabaseRow          = errors.New("failed to read database row")
	ErrNotEligible              = errors.New("member is not eligible to activate this privilege")
	ErrOfferUnavailable         = errors.New("offer is not available")
	ErrInvalidRating            = errors.New("rating must be between 1 and 5")
	ErrFeedbackAlreadySubmitted = errors.New("feedback already submitted for this activation")
	ErrActivationExpired        = errors.New("activation has expired")
	ErrSubscriptionUnavailable  = errors.New("subscription status unavailable")

	// Location acquisition errors. These mirror the failure modes a member
	// device reports when asked for its position.
	ErrLocationPermissionDenied = errors.New("location permission denied")
	ErrLocationTimeout          = errors.New("location request timed out")
	ErrLocationUnsupported      = errors.New("location not available")
)
