package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/finlytics/ledger-analytics-service/internal/cache"
	"github.com/finlytics/ledger-analytics-service/internal/domain"
	"github.com/finlytics/ledger-analytics-service/internal/service"
)

// BudgetHandler handles the suggestion lifecycle and trajectory endpoints
type BudgetHandler struct {
	budgetService service.BudgetService
	cache         *cache.Store
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService service.BudgetService, cacheStore *cache.Store) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		cache:         cacheStore,
	}
}

// GenerateSuggestions handles POST /v1/budgets/suggestions/generate
// @Summary Generate budget suggestions
// @Description Score every expense category's history and upsert one suggestion per category
// @Tags budgets
// @Accept json
// @Produce json
// @Param months query int false "History window in months, 3-12 (default: 6)"
// @Success 201 {array} domain.BudgetSuggestion "Generated suggestions"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/budgets/suggestions/generate [post]
func (h *BudgetHandler) GenerateSuggestions(c *gin.Context) {
	months, err := getQueryInt(c, "months", 6)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	suggestions, err := h.budgetService.GenerateSuggestions(c.Request.Context(), months, domain.PeriodMonthly)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondCreated(c, suggestions)
}

// ListSuggestions handles GET /v1/budgets/suggestions
// @Summary List budget suggestions
// @Description Get stored suggestions at or above a confidence threshold
// @Tags budgets
// @Accept json
// @Produce json
// @Param minConfidence query number false "Minimum confidence score (default: 0.5)"
// @Param excludeActive query bool false "Hide categories that already have an active budget"
// @Success 200 {array} domain.BudgetSuggestion "Suggestions"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/budgets/suggestions [get]
func (h *BudgetHandler) ListSuggestions(c *gin.Context) {
	minConfidence, err := getQueryFloat(c, "minConfidence", 0.5)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	excludeActive := getQueryBool(c, "excludeActive", false)

	suggestions, err := h.budgetService.ListSuggestions(c.Request.Context(), minConfidence, domain.PeriodMonthly, excludeActive)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, suggestions)
}

// ActivateSuggestion handles POST /v1/budgets/suggestions/:id/activate
// @Summary Activate a budget suggestion
// @Description Turn a suggestion into a live budget, updating any existing active budget in place
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Suggestion ID"
// @Success 200 {object} domain.CategoryBudget "Activated budget"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 404 {object} model.ErrorResponse "Suggestion not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/budgets/suggestions/{id}/activate [post]
func (h *BudgetHandler) ActivateSuggestion(c *gin.Context) {
	suggestionID, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	budget, err := h.budgetService.ActivateSuggestion(c.Request.Context(), suggestionID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, budget)
}

// GetTrajectoryByBudgetID handles GET /v1/budgets/:id/trajectory
// @Summary Get a budget's spend trajectory
// @Description Project one budget's spend pace through the end of the current month
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} domain.TrajectorySnapshot "Trajectory snapshot"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 404 {object} model.ErrorResponse "Budget not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/budgets/{id}/trajectory [get]
func (h *BudgetHandler) GetTrajectoryByBudgetID(c *gin.Context) {
	budgetID, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	snapshot, err := h.budgetService.GetTrajectoryByBudgetID(c.Request.Context(), budgetID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, snapshot)
}

// GetTrajectoryByCategory handles GET /v1/budgets/trajectory
// @Summary Get a category's budget trajectory
// @Description Project the active budget for a category through the end of the current month
// @Tags budgets
// @Accept json
// @Produce json
// @Param categoryId query string true "Category ID"
// @Param periodType query string false "Budget period type (default: monthly)"
// @Success 200 {object} domain.TrajectorySnapshot "Trajectory snapshot"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 404 {object} model.ErrorResponse "No active budget for category"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/budgets/trajectory [get]
func (h *BudgetHandler) GetTrajectoryByCategory(c *gin.Context) {
	categoryID := c.Query("categoryId")
	if categoryID == "" {
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("categoryId", "categoryId is required"))
		return
	}
	periodType := domain.PeriodType(c.DefaultQuery("periodType", string(domain.PeriodMonthly)))

	snapshot, err := h.budgetService.GetTrajectoryByCategory(c.Request.Context(), categoryID, periodType)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, snapshot)
}

// GetBudgetHealth handles GET /v1/budgets/health
// @Summary Get the budget health summary
// @Description Project all active monthly budgets and roll them up into one report
// @Tags budgets
// @Accept json
// @Produce json
// @Success 200 {object} domain.BudgetHealthSummary "Budget health summary"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/budgets/health [get]
func (h *BudgetHandler) GetBudgetHealth(c *gin.Context) {
	cacheKey := cache.Key("budget-health", struct{}{})
	if h.cache != nil {
		if payload, ok := h.cache.Get(c.Request.Context(), cacheKey); ok {
			c.Data(StatusOK, "application/json", payload)
			return
		}
	}

	summary, err := h.budgetService.GetBudgetHealth(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if h.cache != nil {
		if payload, err := json.Marshal(summary); err == nil {
			h.cache.Set(c.Request.Context(), cacheKey, payload)
		}
	}

	respondOK(c, summary)
}

// RegisterRoutes registers the budget routes
func (h *BudgetHandler) RegisterRoutes(router *gin.RouterGroup) {
	budgets := router.Group("/budgets")
	{
		budgets.POST("/suggestions/generate", h.GenerateSuggestions)
		budgets.GET("/suggestions", h.ListSuggestions)
		budgets.POST("/suggestions/:id/activate", h.ActivateSuggestion)
		budgets.GET("/trajectory", h.GetTrajectoryByCategory)
		budgets.GET("/health", h.GetBudgetHealth)
		budgets.GET("/:id/trajectory", h.GetTrajectoryByBudgetID)
	}
}
