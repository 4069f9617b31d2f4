package errors

import "net/http"

var (
	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidQuery = New(
		"INVALID_QUERY",
		"Invalid geocoding query",
		http.StatusBadRequest,
	)

	ErrGeocoderMisconfigured = New(
		"GEOCODER_MISCONFIGURED",
		"Geocoding provider is not configured",
		http.StatusInternalServerError,
	)

	ErrGeocoderUnavailable = New(
		"GEOCODER_UNAVAILABLE",
		"Geocoding provider is unavailable",
		http.StatusBadGateway,
	)

	ErrGeocoderBadResponse = New(
		"GEOCODER_BAD_RESPONSE",
		"Geocoding provider returned an invalid response",
		http.StatusBadGateway,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
