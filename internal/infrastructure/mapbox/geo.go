package mapbox

import (
	"context"
	"errors"
	"time"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/geocoding-microservice/internal/domain"
)

// ErrReverseGeocodingUnsupported is returned by GeoAdapter.ReverseGeocode.
var ErrReverseGeocodingUnsupported = errors.New("reverse geocoding is not supported")

// GeoAdapter exposes the batch geocoder as a geo.Geocoder by issuing
// single-query batches.
type GeoAdapter struct {
	geocoder *Geocoder
	opts     domain.BatchOptions
	timeout  time.Duration
}

var _ geo.Geocoder = (*GeoAdapter)(nil)

// NewGeoAdapter wraps geocoder; opts are applied to every lookup.
func NewGeoAdapter(geocoder *Geocoder, opts domain.BatchOptions, timeout time.Duration) *GeoAdapter {
	return &GeoAdapter{geocoder: geocoder, opts: opts, timeout: timeout}
}

// Geocode returns the most relevant location for address, or nil when nothing matches.
func (a *GeoAdapter) Geocode(address string) (*geo.Location, error) {
	ctx := context.Background()
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	resp, err := a.geocoder.GeocodeBatch(ctx, []string{address}, a.opts)
	if err != nil {
		return nil, err
	}

	placemarks := resp.Groups[0].Placemarks
	if len(placemarks) == 0 {
		return nil, nil
	}

	return &geo.Location{
		Lat: placemarks[0].Coordinate.Lat,
		Lng: placemarks[0].Coordinate.Lon,
	}, nil
}

// ReverseGeocode is not supported.
func (a *GeoAdapter) ReverseGeocode(lat, lng float64) (*geo.Address, error) {
	return nil, ErrReverseGeocodingUnsupported
}
