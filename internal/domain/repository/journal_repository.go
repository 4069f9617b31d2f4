package repository

import (
	"context"

	"github.com/geocoding-microservice/internal/domain"
)

// GeocodeJournalRepository хранит журнал выполненных пакетных запросов
type GeocodeJournalRepository interface {
	// Save сохраняет запись о выполненном пакете
	Save(ctx context.Context, entry *domain.JournalEntry) error

	// Stats возвращает агрегированную статистику по журналу
	Stats(ctx context.Context) (*domain.Statistics, error)
}
