package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/finlytics/ledger-analytics-service/internal/service"
)

// ForecastHandler handles the cash-flow projection endpoint
type ForecastHandler struct {
	forecastService service.ForecastService
	defaultMonths   int
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(forecastService service.ForecastService, defaultMonths int) *ForecastHandler {
	if defaultMonths <= 0 {
		defaultMonths = 3
	}
	return &ForecastHandler{
		forecastService: forecastService,
		defaultMonths:   defaultMonths,
	}
}

// GetCashFlowProjection handles GET /v1/forecast/cashflow
// @Summary Get the cash-flow projection
// @Description Merge recent net-flow history with pessimistic, base, and optimistic scenarios into one chart series
// @Tags forecast
// @Accept json
// @Produce json
// @Param months query int false "Forecast horizon in months, 1-12 (default: configured horizon)"
// @Success 200 {object} domain.CashFlowProjection "Cash-flow projection"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/forecast/cashflow [get]
func (h *ForecastHandler) GetCashFlowProjection(c *gin.Context) {
	months, err := getQueryInt(c, "months", h.defaultMonths)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	projection, err := h.forecastService.GetCashFlowProjection(c.Request.Context(), months)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, projection)
}

// RegisterRoutes registers the forecast routes
func (h *ForecastHandler) RegisterRoutes(router *gin.RouterGroup) {
	forecast := router.Group("/forecast")
	{
		forecast.GET("/cashflow", h.GetCashFlowProjection)
	}
}
