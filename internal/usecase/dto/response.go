package dto

import (
	"github.com/geocoding-microservice/internal/domain"
	"github.com/geocoding-microservice/internal/pkg/utils"
)

// BatchGeocodeResponse - ответ на пакетное геокодирование.
// Results выровнены по индексу с запросами.
type BatchGeocodeResponse struct {
	Results         []QueryResult `json:"results"`
	TotalPlacemarks int           `json:"total_placemarks"`
	Batches         int           `json:"batches"`
}

// QueryResult - результаты одного запроса пакета
type QueryResult struct {
	Index       int               `json:"index"`
	Query       string            `json:"query"`
	Placemarks  []PlacemarkResult `json:"placemarks"`
	Attribution string            `json:"attribution"`
}

// PlacemarkResult - найденное местоположение
type PlacemarkResult struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	QualifiedName string                  `json:"qualified_name"`
	Lat           float64                 `json:"lat"`
	Lon           float64                 `json:"lon"`
	PlaceTypes    []string                `json:"place_types,omitempty"`
	Relevance     float64                 `json:"relevance"`
	Address       string                  `json:"address,omitempty"`
	BBox          *domain.BoundingBox     `json:"bbox,omitempty"`
	DistanceKm    *float64                `json:"distance_km,omitempty"`
	Context       []domain.PlacemarkScope `json:"context,omitempty"`
}

// GeocodeResponse - ответ на одиночный запрос
type GeocodeResponse struct {
	Query       string            `json:"query"`
	Placemarks  []PlacemarkResult `json:"placemarks"`
	Attribution string            `json:"attribution"`
}

// NewPlacemarkResults конвертирует placemark в DTO. Если задана точка proximity,
// для каждого результата считается расстояние до нее в километрах.
func NewPlacemarkResults(placemarks []domain.Placemark, proximity *domain.Point) []PlacemarkResult {
	out := make([]PlacemarkResult, len(placemarks))
	for i, p := range placemarks {
		out[i] = PlacemarkResult{
			ID:            p.ID,
			Name:          p.Name,
			QualifiedName: p.QualifiedName,
			Lat:           p.Coordinate.Lat,
			Lon:           p.Coordinate.Lon,
			PlaceTypes:    p.PlaceTypes,
			Relevance:     p.Relevance,
			Address:       p.Address,
			BBox:          p.BoundingBox,
			Context:       p.Context,
		}
		if proximity != nil {
			d := utils.RoundTo(utils.HaversineDistance(proximity.Lat, proximity.Lon, p.Coordinate.Lat, p.Coordinate.Lon), 3)
			out[i].DistanceKm = &d
		}
	}
	return out
}
