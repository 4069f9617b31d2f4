package domain

import "time"

// Point - географическая точка
type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// Valid проверяет, что координаты лежат в допустимых пределах
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

type BoundingBox struct {
	MinLat float64 `json:"min_lat" db:"min_lat"`
	MinLon float64 `json:"min_lon" db:"min_lon"`
	MaxLat float64 `json:"max_lat" db:"max_lat"`
	MaxLon float64 `json:"max_lon" db:"max_lon"`
}

// Valid проверяет, что углы bbox корректны и упорядочены
func (b BoundingBox) Valid() bool {
	return Point{Lat: b.MinLat, Lon: b.MinLon}.Valid() &&
		Point{Lat: b.MaxLat, Lon: b.MaxLon}.Valid() &&
		b.MinLat <= b.MaxLat && b.MinLon <= b.MaxLon
}

// Statistics - агрегированная статистика по журналу геокодирования
type Statistics struct {
	TotalRequests   int64            `json:"total_requests" db:"total_requests"`
	TotalQueries    int64            `json:"total_queries" db:"total_queries"`
	TotalPlacemarks int64            `json:"total_placemarks" db:"total_placemarks"`
	AvgDurationMS   float64          `json:"avg_duration_ms" db:"avg_duration_ms"`
	ByStatus        map[string]int64 `json:"by_status"`
	LastRequestAt   *time.Time       `json:"last_request_at,omitempty" db:"last_request_at"`
}
