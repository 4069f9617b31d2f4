package mapbox

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/geocoding-microservice/internal/domain"
)

// querySeparator joins individual queries of a batch in a single path segment.
const querySeparator = ";"

// EncodeQueries escapes every query with path segment rules and joins them with ";".
// Characters that are legal inside a segment (@ $ & = + :) pass through literally;
// "#", "?", "/", ";" and "," are always escaped so they cannot split the batch.
// Spaces become %20: a literal "+" in a path segment is a plus sign, not a space.
func EncodeQueries(queries []string) (string, error) {
	if len(queries) == 0 {
		return "", domain.NewGeocodeError(domain.ErrorKindInvalidQuery, "batch must contain at least one query", nil)
	}

	encoded := make([]string, len(queries))
	for i, q := range queries {
		if strings.TrimSpace(q) == "" {
			return "", domain.NewGeocodeError(
				domain.ErrorKindInvalidQuery,
				fmt.Sprintf("query at index %d is empty", i),
				nil,
			)
		}
		encoded[i] = url.PathEscape(q)
	}

	return strings.Join(encoded, querySeparator), nil
}

// EncodeOptions serializes shared batch options into query string parameters.
// Multi-valued options are comma-joined into a single value.
func EncodeOptions(opts domain.BatchOptions) url.Values {
	params := url.Values{}

	if len(opts.AllowedCountries) > 0 {
		codes := make([]string, len(opts.AllowedCountries))
		for i, c := range opts.AllowedCountries {
			codes[i] = strings.ToLower(strings.TrimSpace(c))
		}
		params.Set("country", strings.Join(codes, ","))
	}

	if opts.BoundingBox != nil {
		b := opts.BoundingBox
		params.Set("bbox", joinFloats(b.MinLon, b.MinLat, b.MaxLon, b.MaxLat))
	}

	if opts.Proximity != nil {
		params.Set("proximity", joinFloats(opts.Proximity.Lon, opts.Proximity.Lat))
	}

	if len(opts.Types) > 0 {
		params.Set("types", strings.Join(opts.Types, ","))
	}

	if len(opts.Languages) > 0 {
		params.Set("language", strings.Join(opts.Languages, ","))
	}

	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}

	if opts.Autocomplete != nil {
		params.Set("autocomplete", strconv.FormatBool(*opts.Autocomplete))
	}

	if opts.FuzzyMatch != nil {
		params.Set("fuzzyMatch", strconv.FormatBool(*opts.FuzzyMatch))
	}

	return params
}

// ValidateOptions rejects options the service would refuse for the whole batch.
func ValidateOptions(opts domain.BatchOptions) error {
	for i, c := range opts.AllowedCountries {
		if len(strings.TrimSpace(c)) != 2 {
			return domain.NewGeocodeError(
				domain.ErrorKindInvalidQuery,
				fmt.Sprintf("country code at index %d must be ISO 3166-1 alpha-2, got %q", i, c),
				nil,
			)
		}
	}

	if opts.BoundingBox != nil && !opts.BoundingBox.Valid() {
		return domain.NewGeocodeError(domain.ErrorKindInvalidQuery, "bounding box is out of range or not ordered", nil)
	}

	if opts.Proximity != nil && !opts.Proximity.Valid() {
		return domain.NewGeocodeError(domain.ErrorKindInvalidQuery, "proximity point is out of range", nil)
	}

	if opts.Limit < 0 || opts.Limit > 10 {
		return domain.NewGeocodeError(domain.ErrorKindInvalidQuery, "limit must be between 1 and 10", nil)
	}

	return nil
}

func joinFloats(values ...float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}
