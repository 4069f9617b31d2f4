package testhelpers

import (
	"github.com/geocoding-microservice/internal/domain/repository"
	"github.com/geocoding-microservice/internal/repository/postgres"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewJournalRepositoryForTest creates a journal repository with test database and logger
func NewJournalRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.GeocodeJournalRepository {
	return postgres.NewJournalRepository(NewDBForTest(db, logger))
}
