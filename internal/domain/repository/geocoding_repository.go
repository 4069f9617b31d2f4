package repository

import (
	"context"

	"github.com/geocoding-microservice/internal/domain"
)

// GeocodingRepository определяет методы для работы с API прямого геокодирования
type GeocodingRepository interface {
	// GeocodeBatch выполняет пакет запросов одним HTTP-вызовом.
	// Результаты выровнены по индексу с queries; при ошибке возвращается nil.
	GeocodeBatch(
		ctx context.Context,
		queries []string,
		opts domain.BatchOptions,
	) (*domain.BatchResponse, error)

	// MaxBatchQueries возвращает максимальное количество запросов в одном пакете
	MaxBatchQueries() int
}
