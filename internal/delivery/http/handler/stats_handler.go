package handler

import (
	"github.com/geocoding-microservice/internal/pkg/utils"
	"github.com/geocoding-microservice/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatsHandler обрабатывает запросы статистики журнала геокодирования
type StatsHandler struct {
	geocodeUC *usecase.GeocodeUseCase
	logger    *zap.Logger
}

// NewStatsHandler создает новый экземпляр StatsHandler
func NewStatsHandler(geocodeUC *usecase.GeocodeUseCase, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		geocodeUC: geocodeUC,
		logger:    logger,
	}
}

// GetStatistics godoc
// @Summary Get geocoding statistics
// @Description Возвращает агрегированную статистику журнала пакетных запросов
// @Tags Statistics
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.Statistics}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/stats [get]
func (h *StatsHandler) GetStatistics(c *fiber.Ctx) error {
	h.logger.Debug("Handling get statistics request")

	stats, err := h.geocodeUC.GetStatistics(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, stats, nil)
}
