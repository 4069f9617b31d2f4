package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Dataset identifiers of the forward geocoding API.
const (
	DatasetPlaces          = "mapbox.places"
	DatasetPlacesPermanent = "mapbox.places-permanent"
)

// BatchOptions - общие фильтры, применяемые к каждому запросу пакета
type BatchOptions struct {
	// AllowedCountries - ISO 3166-1 alpha-2 коды стран
	AllowedCountries []string
	// BoundingBox ограничивает поиск прямоугольной областью
	BoundingBox *BoundingBox
	// Proximity смещает выдачу к указанной точке
	Proximity *Point
	// Types - фильтр по типам результатов (country, region, postcode, place, address, poi ...)
	Types []string
	// Languages - языки результатов в порядке предпочтения
	Languages []string
	// Limit - максимум результатов на запрос (1..10), 0 - значение по умолчанию сервиса
	Limit int
	// Autocomplete и FuzzyMatch не передаются, если nil
	Autocomplete *bool
	FuzzyMatch   *bool
}

// Placemark - найденное местоположение
type Placemark struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	QualifiedName string           `json:"qualified_name"`
	Coordinate    Point            `json:"coordinate"`
	PlaceTypes    []string         `json:"place_types,omitempty"`
	Relevance     float64          `json:"relevance"`
	Address       string           `json:"address,omitempty"`
	BoundingBox   *BoundingBox     `json:"bbox,omitempty"`
	Context       []PlacemarkScope `json:"context,omitempty"`
	// Properties - необработанные свойства фичи
	Properties json.RawMessage `json:"properties,omitempty"`
}

// PlacemarkScope - элемент иерархии, в которую входит placemark (район, город, страна)
type PlacemarkScope struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortCode string `json:"short_code,omitempty"`
	Wikidata  string `json:"wikidata,omitempty"`
}

// QueryResultGroup - результаты ровно одного запроса пакета.
// Пустой Placemarks означает "ничего не найдено", а не ошибку.
type QueryResultGroup struct {
	Index       int         `json:"index"`
	Query       string      `json:"query"`
	QueryTokens []string    `json:"query_tokens,omitempty"`
	Placemarks  []Placemark `json:"placemarks"`
}

// BatchResponse - результаты пакета, выровненные по индексу с исходными запросами.
// len(Groups) == len(Attribution) == количество запросов.
type BatchResponse struct {
	Groups      []QueryResultGroup `json:"groups"`
	Attribution []string           `json:"attribution"`
}

// Placemarks возвращает результаты в виде последовательности групп
func (r *BatchResponse) Placemarks() [][]Placemark {
	out := make([][]Placemark, len(r.Groups))
	for i, g := range r.Groups {
		out[i] = g.Placemarks
	}
	return out
}

// PlacemarkCount возвращает общее количество найденных placemark
func (r *BatchResponse) PlacemarkCount() int {
	total := 0
	for _, g := range r.Groups {
		total += len(g.Placemarks)
	}
	return total
}

// JournalEntry - запись журнала о выполненном пакете
type JournalEntry struct {
	ID          uuid.UUID `db:"id"`
	QueryCount  int       `db:"query_count"`
	ResultCount int       `db:"result_count"`
	Status      string    `db:"status"`
	ErrorKind   *string   `db:"error_kind"`
	DurationMS  int64     `db:"duration_ms"`
	CreatedAt   time.Time `db:"created_at"`
}

// Journal statuses
const (
	JournalStatusSuccess = "success"
	JournalStatusFailed  = "failed"
)
