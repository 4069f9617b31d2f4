package handler

import (
	"context"
	"strings"
	"time"

	"github.com/geocoding-microservice/internal/pkg/errors"
	"github.com/geocoding-microservice/internal/pkg/utils"
	"github.com/geocoding-microservice/internal/pkg/validator"
	"github.com/geocoding-microservice/internal/usecase"
	"github.com/geocoding-microservice/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// scheduledWaitTimeout ограничивает ожидание пакета: контекст fasthttp не
// отменяется при обрыве соединения
const scheduledWaitTimeout = 60 * time.Second

// GeocodeHandler - обработчик запросов прямого геокодирования
type GeocodeHandler struct {
	geocodeUC *usecase.GeocodeUseCase
	scheduler *usecase.GeocodeBatchScheduler
	logger    *zap.Logger
}

// NewGeocodeHandler - создание нового GeocodeHandler
func NewGeocodeHandler(
	geocodeUC *usecase.GeocodeUseCase,
	scheduler *usecase.GeocodeBatchScheduler,
	logger *zap.Logger,
) *GeocodeHandler {
	return &GeocodeHandler{
		geocodeUC: geocodeUC,
		scheduler: scheduler,
		logger:    logger,
	}
}

// BatchGeocode godoc
// @Summary Пакетное прямое геокодирование
// @Description Выполняет набор текстовых запросов с общими фильтрами. Результаты возвращаются в порядке запросов; пустой список placemarks означает, что ничего не найдено. Запросы сверх лимита провайдера разбиваются на несколько пакетов.
// @Tags Geocoding
// @Accept json
// @Produce json
// @Param request body dto.BatchGeocodeRequest true "Запросы и фильтры"
// @Success 200 {object} utils.SuccessResponse{data=dto.BatchGeocodeResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/batch/geocode [post]
func (h *GeocodeHandler) BatchGeocode(c *fiber.Ctx) error {
	start := time.Now()

	var req dto.BatchGeocodeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"body": "invalid JSON",
		}))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.geocodeUC.BatchGeocode(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.TotalPlacemarks,
		Queries:  len(req.Queries),
		Batches:  result.Batches,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// Geocode godoc
// @Summary Прямое геокодирование одного запроса
// @Description Одиночные запросы объединяются в пакеты планировщиком, чтобы сократить число обращений к провайдеру
// @Tags Geocoding
// @Produce json
// @Param q query string true "Текст запроса"
// @Param country query string false "Коды стран через запятую (ISO 3166-1 alpha-2)"
// @Success 200 {object} utils.SuccessResponse{data=dto.GeocodeResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/geocode [get]
func (h *GeocodeHandler) Geocode(c *fiber.Ctx) error {
	req := dto.GeocodeRequest{
		Query:     c.Query("q"),
		Countries: splitList(c.Query("country")),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), scheduledWaitTimeout)
	defer cancel()

	res, err := h.scheduler.Geocode(ctx, req.Query, req.Countries)
	if err != nil {
		h.logger.Debug("Scheduled geocoding failed", zap.String("query", req.Query), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.GeocodeResponse{
		Query:       req.Query,
		Placemarks:  dto.NewPlacemarkResults(res.Group.Placemarks, nil),
		Attribution: res.Attribution,
	}, &utils.Meta{
		Total: len(res.Group.Placemarks),
	})
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
