// internal/infrastructure/geolocation/reported.go
package geolocation

import (
	"context"
	"fmt"

	"github.com/your-org/burger-pizza/internal/domain/order"
)

// Reported resolves to coordinates the client obtained itself (the browser's
// geolocation API) and relayed with the request
type Reported struct {
	Lat float64
	Lng float64
}

// Locate implements order.Geolocator
func (r Reported) Locate(ctx context.Context) (order.Location, error) {
	if r.Lat < -90 || r.Lat > 90 || r.Lng < -180 || r.Lng > 180 {
		return order.Location{}, fmt.Errorf("reported position out of range: %f,%f", r.Lat, r.Lng)
	}
	return order.Location{Lat: r.Lat, Lng: r.Lng}, nil
}
