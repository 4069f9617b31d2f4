package dto

import "github.com/geocoding-microservice/internal/domain"

// BatchGeocodeRequest - запрос на пакетное прямое геокодирование
type BatchGeocodeRequest struct {
	Queries      []string  `json:"queries" validate:"required,min=1,max=1000,dive,notblank,max=256"`
	Countries    []string  `json:"countries,omitempty" validate:"omitempty,max=50,dive,len=2,alpha"`
	BBox         []float64 `json:"bbox,omitempty" validate:"omitempty,len=4"` // minLon,minLat,maxLon,maxLat
	Proximity    *Point    `json:"proximity,omitempty"`
	Types        []string  `json:"types,omitempty" validate:"omitempty,dive,oneof=country region postcode district place locality neighborhood address poi"`
	Language     []string  `json:"language,omitempty" validate:"omitempty,max=20,dive,min=2,max=8"`
	Limit        int       `json:"limit,omitempty" validate:"omitempty,min=1,max=10"`
	Autocomplete *bool     `json:"autocomplete,omitempty"`
	FuzzyMatch   *bool     `json:"fuzzy_match,omitempty"`
}

// GeocodeRequest - одиночный запрос, объединяемый в пакеты планировщиком
type GeocodeRequest struct {
	Query     string   `json:"query" validate:"required,notblank,max=256"`
	Countries []string `json:"countries,omitempty" validate:"omitempty,max=50,dive,len=2,alpha"`
}

// Point - координаты точки
type Point struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// ToOptions преобразует запрос в общие опции пакета
func (r *BatchGeocodeRequest) ToOptions() domain.BatchOptions {
	opts := domain.BatchOptions{
		AllowedCountries: r.Countries,
		Types:            r.Types,
		Languages:        r.Language,
		Limit:            r.Limit,
		Autocomplete:     r.Autocomplete,
		FuzzyMatch:       r.FuzzyMatch,
	}

	if len(r.BBox) == 4 {
		opts.BoundingBox = &domain.BoundingBox{
			MinLon: r.BBox[0],
			MinLat: r.BBox[1],
			MaxLon: r.BBox[2],
			MaxLat: r.BBox[3],
		}
	}

	if r.Proximity != nil {
		opts.Proximity = &domain.Point{Lat: r.Proximity.Lat, Lon: r.Proximity.Lon}
	}

	return opts
}
