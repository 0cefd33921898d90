package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func await(t *testing.T, ch <-chan LocationResult) LocationResult {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("location request did not resolve")
		return LocationResult{}
	}
}

func checkoutSession(t *testing.T) *Session {
	t.Helper()
	s := newTestSession()
	_, err := s.BeginCheckout()
	require.NoError(t, err)
	return s
}

func TestCaptureLocationSuccess(t *testing.T) {
	s := checkoutSession(t)

	done, err := s.CaptureLocation(context.Background(), GeolocatorFunc(func(context.Context) (Location, error) {
		return Location{Lat: 48.8566, Lng: 2.3522}, nil
	}))
	require.NoError(t, err)

	res := await(t, done)
	require.NoError(t, res.Err)

	loc := s.State().Contact.Location
	require.NotNil(t, loc)
	assert.Equal(t, Location{Lat: 48.8566, Lng: 2.3522}, *loc)
}

func TestCaptureLocationFailureKeepsPreviousValue(t *testing.T) {
	s := checkoutSession(t)

	done, err := s.CaptureLocation(context.Background(), GeolocatorFunc(func(context.Context) (Location, error) {
		return Location{Lat: 1, Lng: 2}, nil
	}))
	require.NoError(t, err)
	await(t, done)

	done, err = s.CaptureLocation(context.Background(), GeolocatorFunc(func(context.Context) (Location, error) {
		return Location{}, errors.New("permission denied")
	}))
	require.NoError(t, err)
	res := await(t, done)
	assert.EqualError(t, res.Err, "permission denied")

	state := s.State()
	require.NotNil(t, state.Contact.Location)
	assert.Equal(t, Location{Lat: 1, Lng: 2}, *state.Contact.Location)
	assert.Equal(t, "permission denied", state.LocationError)
}

func TestCaptureLocationFailureWithNoPriorValue(t *testing.T) {
	s := checkoutSession(t)

	done, err := s.CaptureLocation(context.Background(), GeolocatorFunc(func(context.Context) (Location, error) {
		return Location{}, errors.New("timeout")
	}))
	require.NoError(t, err)
	await(t, done)

	assert.Nil(t, s.State().Contact.Location)
}

func TestCaptureLocationOutsideCheckout(t *testing.T) {
	s := newTestSession()

	_, err := s.CaptureLocation(context.Background(), GeolocatorFunc(func(context.Context) (Location, error) {
		t.Fatal("locator must not be called")
		return Location{}, nil
	}))
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestCaptureLocationIsNotBoundToCallerContext(t *testing.T) {
	s := checkoutSession(t)
	ctx, cancel := context.WithCancel(context.Background())

	release := make(chan struct{})
	done, err := s.CaptureLocation(ctx, GeolocatorFunc(func(ctx context.Context) (Location, error) {
		<-release
		if err := ctx.Err(); err != nil {
			return Location{}, err
		}
		return Location{Lat: 5, Lng: 6}, nil
	}))
	require.NoError(t, err)

	cancel()
	close(release)

	res := await(t, done)
	require.NoError(t, res.Err)
	assert.Equal(t, Location{Lat: 5, Lng: 6}, *s.State().Contact.Location)
}

func TestOverlappingCaptureLastResolvedWins(t *testing.T) {
	s := checkoutSession(t)

	first := make(chan Location)
	second := make(chan Location)
	locator := func(gate chan Location) Geolocator {
		return GeolocatorFunc(func(context.Context) (Location, error) {
			return <-gate, nil
		})
	}

	doneFirst, err := s.CaptureLocation(context.Background(), locator(first))
	require.NoError(t, err)
	doneSecond, err := s.CaptureLocation(context.Background(), locator(second))
	require.NoError(t, err)

	// The second request resolves first...
	second <- Location{Lat: 1, Lng: 1}
	await(t, doneSecond)
	assert.Equal(t, Location{Lat: 1, Lng: 1}, *s.State().Contact.Location)

	// ...and the first request, resolving last, wins.
	first <- Location{Lat: 2, Lng: 2}
	await(t, doneFirst)
	assert.Equal(t, Location{Lat: 2, Lng: 2}, *s.State().Contact.Location)
}
