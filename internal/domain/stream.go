package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamGeocodeBatch = "stream:geocode:batch"
	StreamGeocodeDone  = "stream:geocode:done"
)

// BatchGeocodeEvent - входящее событие на пакетное геокодирование
type BatchGeocodeEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	Queries   []string  `json:"queries"`
	Countries []string  `json:"countries,omitempty"`
	Types     []string  `json:"types,omitempty"`
	Language  []string  `json:"language,omitempty"`
	Limit     int       `json:"limit,omitempty"`
	Proximity *Point    `json:"proximity,omitempty"`
}

// BatchGeocodeDoneEvent - результат пакетного геокодирования.
// Results и Attribution либо оба заполнены, либо оба пусты и задан Error.
type BatchGeocodeDoneEvent struct {
	RequestID   uuid.UUID          `json:"request_id"`
	Results     []QueryResultGroup `json:"results,omitempty"`
	Attribution []string           `json:"attribution,omitempty"`
	Error       string             `json:"error,omitempty"`
	ErrorKind   ErrorKind          `json:"error_kind,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
