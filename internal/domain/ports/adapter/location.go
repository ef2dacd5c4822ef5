package adapter

import (
	"context"

	"privilege-club/internal/domain/model"
)

// LocationProvider resolves the current position of a member's device.
//
// Implementations surface the device-side failure modes as the typed
// errors in the domain package: ErrLocationPermissionDenied,
// ErrLocationTimeout and ErrLocationUnsupported. Any of them makes the
// whole eligibility evaluation fail closed.
type LocationProvider interface {
	Current(ctx context.Context, memberID string) (model.Coordinates, error)
}
