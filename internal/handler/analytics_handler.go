package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/finlytics/ledger-analytics-service/internal/cache"
	"github.com/finlytics/ledger-analytics-service/internal/domain"
	"github.com/finlytics/ledger-analytics-service/internal/repository"
	"github.com/finlytics/ledger-analytics-service/internal/service"
)

// AnalyticsHandler handles the ledger views and the behavior report
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	categoryRepo     repository.CategoryRepository
	cache            *cache.Store
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService service.AnalyticsService, categoryRepo repository.CategoryRepository, cacheStore *cache.Store) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		categoryRepo:     categoryRepo,
		cache:            cacheStore,
	}
}

// ListTransactions handles GET /v1/transactions
// @Summary List ledger transactions
// @Description Get transactions with optional filters and pagination
// @Tags transactions
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20, max: 100)"
// @Param categoryId query string false "Filter by category ID"
// @Param status query string false "Filter by status: completed, pending, excluded"
// @Param startDate query string false "Start date filter (YYYY-MM-DD)"
// @Param endDate query string false "End date filter (YYYY-MM-DD)"
// @Success 200 {object} domain.PaginatedTransactions "Paginated transactions"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/transactions [get]
func (h *AnalyticsHandler) ListTransactions(c *gin.Context) {
	page, err := getQueryInt(c, "page", 1)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	limit, err := getQueryInt(c, "limit", 20)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := validatePagination(page, limit); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	startDate, err := parseDateParam(c.Query("startDate"))
	if err != nil {
		respondBadRequest(c, err.Error(), newErrorDetail("startDate", err.Error()))
		return
	}
	endDate, err := parseDateParam(c.Query("endDate"))
	if err != nil {
		respondBadRequest(c, err.Error(), newErrorDetail("endDate", err.Error()))
		return
	}

	filter := domain.TransactionFilter{
		StartDate:  startDate,
		EndDate:    endDate,
		CategoryID: c.Query("categoryId"),
		Status:     c.Query("status"),
		Page:       page,
		Limit:      limit,
	}

	result, err := h.analyticsService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, result)
}

// GetBehaviorReport handles GET /v1/analytics/behavior
// @Summary Get spending behavior report
// @Description Split recent spend into programmed (recurring) and impulse, with pattern and category breakdowns
// @Tags analytics
// @Accept json
// @Produce json
// @Param months query int false "Analysis window in months, 1-12 (default: 3)"
// @Success 200 {object} domain.BehaviorReport "Behavior report"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/analytics/behavior [get]
func (h *AnalyticsHandler) GetBehaviorReport(c *gin.Context) {
	months, err := getQueryInt(c, "months", 3)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	cacheKey := cache.Key("behavior", map[string]int{"months": months})
	if h.cache != nil {
		if payload, ok := h.cache.Get(c.Request.Context(), cacheKey); ok {
			c.Data(StatusOK, "application/json", payload)
			return
		}
	}

	report, err := h.analyticsService.GetBehaviorReport(c.Request.Context(), months)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if h.cache != nil {
		if payload, err := json.Marshal(report); err == nil {
			h.cache.Set(c.Request.Context(), cacheKey, payload)
		}
	}

	respondOK(c, report)
}

// GetSpendingTrends handles GET /v1/analytics/trends
// @Summary Get spending trends
// @Description Get outflow totals grouped by week, month, or year
// @Tags analytics
// @Accept json
// @Produce json
// @Param period query string false "Grouping period: weekly, monthly, yearly (default: monthly)"
// @Param startDate query string false "Start date filter (YYYY-MM-DD)"
// @Param endDate query string false "End date filter (YYYY-MM-DD)"
// @Success 200 {object} domain.SpendingTrends "Spending trends"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/analytics/trends [get]
func (h *AnalyticsHandler) GetSpendingTrends(c *gin.Context) {
	period := c.DefaultQuery("period", "monthly")

	startDate, err := parseDateParam(c.Query("startDate"))
	if err != nil {
		respondBadRequest(c, err.Error(), newErrorDetail("startDate", err.Error()))
		return
	}
	endDate, err := parseDateParam(c.Query("endDate"))
	if err != nil {
		respondBadRequest(c, err.Error(), newErrorDetail("endDate", err.Error()))
		return
	}

	trends, err := h.analyticsService.GetSpendingTrends(c.Request.Context(), period, startDate, endDate)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, trends)
}

// ListCategories handles GET /v1/categories
// @Summary List expense categories
// @Description Get the expense category directory with parent relationships
// @Tags categories
// @Accept json
// @Produce json
// @Success 200 {array} domain.Category "Expense categories"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/categories [get]
func (h *AnalyticsHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryRepo.ListExpenseCategories(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, categories)
}

// RegisterRoutes registers the analytics routes
func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/transactions", h.ListTransactions)
	router.GET("/categories", h.ListCategories)

	analytics := router.Group("/analytics")
	{
		analytics.GET("/behavior", h.GetBehaviorReport)
		analytics.GET("/trends", h.GetSpendingTrends)
	}
}
