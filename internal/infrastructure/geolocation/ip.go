// internal/infrastructure/geolocation/ip.go
package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/your-org/burger-pizza/internal/domain/order"
)

// IPService resolves approximate positions from client IP addresses using an
// ip-api.com compatible JSON endpoint (GET <base>/<ip>)
type IPService struct {
	baseURL string
	client  *http.Client
}

// NewIPService creates an IP lookup service
func NewIPService(baseURL string, timeout time.Duration) *IPService {
	return &IPService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type ipLookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// ForIP returns a single-shot geolocator for one client address
func (s *IPService) ForIP(ip string) order.Geolocator {
	return order.GeolocatorFunc(func(ctx context.Context) (order.Location, error) {
		return s.lookup(ctx, ip)
	})
}

func (s *IPService) lookup(ctx context.Context, ip string) (order.Location, error) {
	endpoint := fmt.Sprintf("%s/%s?fields=status,message,lat,lon", s.baseURL, url.PathEscape(ip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return order.Location{}, fmt.Errorf("failed to build geolocation request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return order.Location{}, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return order.Location{}, fmt.Errorf("geolocation service returned status %d", resp.StatusCode)
	}

	var body ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return order.Location{}, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if body.Status != "success" {
		return order.Location{}, fmt.Errorf("geolocation lookup for %s failed: %s", ip, body.Message)
	}

	return order.Location{Lat: body.Lat, Lng: body.Lon}, nil
}
