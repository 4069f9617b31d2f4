package mapbox

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/geocoding-microservice/internal/domain"
)

// featureCollection is one element of the batch response, in request order.
type featureCollection struct {
	Type        string    `json:"type"`
	Query       []any     `json:"query"`
	Features    []feature `json:"features"`
	Attribution string    `json:"attribution"`
}

type feature struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	PlaceType  []string        `json:"place_type"`
	Relevance  float64         `json:"relevance"`
	Address    string          `json:"address"`
	Properties json.RawMessage `json:"properties"`
	Text       string          `json:"text"`
	PlaceName  string          `json:"place_name"`
	Center     []float64       `json:"center"`
	Geometry   *geometry       `json:"geometry"`
	BBox       []float64       `json:"bbox"`
	Context    []contextEntry  `json:"context"`
}

type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type contextEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ShortCode string `json:"short_code"`
	Wikidata  string `json:"wikidata"`
}

type errorBody struct {
	Message string `json:"message"`
}

// DecodeBatchResponse decodes a batch response into groups aligned with queries.
// Element i of the response belongs to queries[i]; nothing is reordered, filtered
// or deduplicated. Any failure discards the whole batch.
func DecodeBatchResponse(queries []string, resp *TransportResponse) (*domain.BatchResponse, error) {
	if resp == nil {
		return nil, domain.NewGeocodeError(domain.ErrorKindResponse, "empty transport response", nil)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		gerr := domain.NewGeocodeError(domain.ErrorKindResponse, http.StatusText(resp.StatusCode), nil)
		gerr.StatusCode = resp.StatusCode

		var body errorBody
		if err := json.Unmarshal(resp.Body, &body); err == nil && body.Message != "" {
			gerr.Message = body.Message
		}
		return nil, gerr
	}

	var collections []*featureCollection
	if err := json.Unmarshal(resp.Body, &collections); err != nil {
		gerr := domain.NewGeocodeError(domain.ErrorKindResponse, "failed to decode response body", err)
		gerr.StatusCode = resp.StatusCode
		return nil, gerr
	}

	if len(collections) != len(queries) {
		return nil, domain.NewGeocodeError(
			domain.ErrorKindMalformedResponse,
			fmt.Sprintf("response has %d result groups for %d queries", len(collections), len(queries)),
			nil,
		)
	}

	out := &domain.BatchResponse{
		Groups:      make([]domain.QueryResultGroup, len(collections)),
		Attribution: make([]string, len(collections)),
	}

	for i, fc := range collections {
		if fc == nil {
			return nil, domain.NewGeocodeError(
				domain.ErrorKindMalformedResponse,
				fmt.Sprintf("result group at index %d is null", i),
				nil,
			)
		}

		group := domain.QueryResultGroup{
			Index:       i,
			Query:       queries[i],
			QueryTokens: queryTokens(fc.Query),
			Placemarks:  make([]domain.Placemark, 0, len(fc.Features)),
		}
		for _, f := range fc.Features {
			group.Placemarks = append(group.Placemarks, f.toPlacemark())
		}

		out.Groups[i] = group
		out.Attribution[i] = fc.Attribution
	}

	return out, nil
}

func (f feature) toPlacemark() domain.Placemark {
	p := domain.Placemark{
		ID:            f.ID,
		Name:          f.Text,
		QualifiedName: f.PlaceName,
		PlaceTypes:    f.PlaceType,
		Relevance:     f.Relevance,
		Address:       f.Address,
	}

	switch {
	case len(f.Center) == 2:
		p.Coordinate = domain.Point{Lon: f.Center[0], Lat: f.Center[1]}
	case f.Geometry != nil && len(f.Geometry.Coordinates) == 2:
		p.Coordinate = domain.Point{Lon: f.Geometry.Coordinates[0], Lat: f.Geometry.Coordinates[1]}
	}

	if len(f.BBox) == 4 {
		p.BoundingBox = &domain.BoundingBox{
			MinLon: f.BBox[0],
			MinLat: f.BBox[1],
			MaxLon: f.BBox[2],
			MaxLat: f.BBox[3],
		}
	}

	if len(f.Properties) > 0 && string(f.Properties) != "null" {
		p.Properties = f.Properties
	}

	for _, c := range f.Context {
		p.Context = append(p.Context, domain.PlacemarkScope{
			ID:        c.ID,
			Name:      c.Text,
			ShortCode: c.ShortCode,
			Wikidata:  c.Wikidata,
		})
	}

	return p
}

// queryTokens stringifies the echoed query. Coordinates come back as numbers.
func queryTokens(raw []any) []string {
	if len(raw) == 0 {
		return nil
	}
	tokens := make([]string, len(raw))
	for i, t := range raw {
		switch v := t.(type) {
		case string:
			tokens[i] = v
		default:
			tokens[i] = fmt.Sprint(v)
		}
	}
	return tokens
}
