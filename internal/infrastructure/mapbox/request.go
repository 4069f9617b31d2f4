package mapbox

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/geocoding-microservice/internal/config"
	"github.com/geocoding-microservice/internal/domain"
)

// Endpoint - target of the batch geocoding endpoint
type Endpoint struct {
	BaseURL         string
	Version         string
	Permanent       bool
	AccessToken     string
	MaxBatchQueries int
}

// EndpointFromConfig builds an Endpoint from MapboxConfig.
func EndpointFromConfig(cfg *config.MapboxConfig) Endpoint {
	return Endpoint{
		BaseURL:         cfg.BaseURL,
		Version:         cfg.APIVersion,
		Permanent:       cfg.Permanent,
		AccessToken:     cfg.AccessToken,
		MaxBatchQueries: cfg.MaxBatchQueries,
	}
}

// Dataset returns the dataset identifier selected by the endpoint.
func (e Endpoint) Dataset() string {
	if e.Permanent {
		return domain.DatasetPlacesPermanent
	}
	return domain.DatasetPlaces
}

// RequestDescriptor is a fully resolved batch request. It is built once per
// invocation and never mutated afterwards.
type RequestDescriptor struct {
	Method     string
	BaseURL    string
	Version    string
	Dataset    string
	Path       string // encoded queries, without the .json suffix
	Query      url.Values
	QueryCount int
	// Batch is always true: the response is an array of feature collections
	// even for a single query.
	Batch bool
}

// BuildRequest combines encoded queries and options with the endpoint.
func BuildRequest(ep Endpoint, queries []string, opts domain.BatchOptions) (*RequestDescriptor, error) {
	if ep.BaseURL == "" || ep.Version == "" {
		return nil, domain.NewGeocodeError(domain.ErrorKindInvalidConfiguration, "base URL and API version are required", nil)
	}
	if ep.AccessToken == "" {
		return nil, domain.NewGeocodeError(domain.ErrorKindInvalidConfiguration, "access token is required", nil)
	}
	if ep.MaxBatchQueries > 0 && len(queries) > ep.MaxBatchQueries {
		return nil, domain.NewGeocodeError(
			domain.ErrorKindInvalidQuery,
			fmt.Sprintf("batch of %d queries exceeds limit of %d", len(queries), ep.MaxBatchQueries),
			nil,
		)
	}

	path, err := EncodeQueries(queries)
	if err != nil {
		return nil, err
	}

	if err := ValidateOptions(opts); err != nil {
		return nil, err
	}

	params := EncodeOptions(opts)
	params.Set("access_token", ep.AccessToken)

	return &RequestDescriptor{
		Method:     http.MethodGet,
		BaseURL:    ep.BaseURL,
		Version:    ep.Version,
		Dataset:    ep.Dataset(),
		Path:       path,
		Query:      params,
		QueryCount: len(queries),
		Batch:      true,
	}, nil
}

// URL returns the request URL: {base}/geocoding/{version}/{dataset}/{q1;q2}.json?{options}
func (d *RequestDescriptor) URL() string {
	return d.url(d.Query)
}

// Redacted returns the request URL with the access token masked, for logs.
func (d *RequestDescriptor) Redacted() string {
	params := url.Values{}
	for k, v := range d.Query {
		params[k] = v
	}
	if params.Has("access_token") {
		params.Set("access_token", "***")
	}
	return d.url(params)
}

func (d *RequestDescriptor) url(params url.Values) string {
	return fmt.Sprintf("%s/geocoding/%s/%s/%s.json?%s",
		d.BaseURL,
		d.Version,
		d.Dataset,
		d.Path,
		params.Encode(),
	)
}
