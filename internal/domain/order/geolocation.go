// internal/domain/order/geolocation.go
package order

import (
	"context"
	"fmt"
)

// Geolocator resolves the current delivery position. Implementations apply
// their own timeouts.
type Geolocator interface {
	Locate(ctx context.Context) (Location, error)
}

// GeolocatorFunc adapts a function to Geolocator
type GeolocatorFunc func(ctx context.Context) (Location, error)

// Locate calls f
func (f GeolocatorFunc) Locate(ctx context.Context) (Location, error) {
	return f(ctx)
}

// LocationResult is the outcome of one location request
type LocationResult struct {
	Location Location
	Err      error
}

// CaptureLocation issues a single location request and returns immediately.
// The returned channel yields the result once, after it has been applied to
// the session. Overlapping requests are neither deduplicated nor cancelled:
// whichever resolves last sets the location. A failed request leaves the
// location unchanged.
func (s *Session) CaptureLocation(ctx context.Context, geo Geolocator) (<-chan LocationResult, error) {
	s.mu.Lock()
	if s.phase != PhaseCheckout {
		s.mu.Unlock()
		return nil, fmt.Errorf("capture location: %w", ErrInvalidPhase)
	}
	s.lookups++
	s.mu.Unlock()

	// The request outlives the caller (an HTTP handler, typically).
	ctx = context.WithoutCancel(ctx)

	done := make(chan LocationResult, 1)
	go func() {
		defer close(done)
		loc, err := geo.Locate(ctx)
		s.applyLocation(loc, err)
		done <- LocationResult{Location: loc, Err: err}
	}()

	return done, nil
}

func (s *Session) applyLocation(loc Location, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lookups--
	if err != nil {
		s.logger.WithField("session_id", s.id).WithError(err).Warn("Geolocation failed")
		s.locErr = err.Error()
		s.commit()
		return
	}

	s.contact.Location = &Location{Lat: loc.Lat, Lng: loc.Lng}
	s.locErr = ""
	s.logger.WithField("session_id", s.id).Debug("Delivery location captured")
	s.commit()
}
