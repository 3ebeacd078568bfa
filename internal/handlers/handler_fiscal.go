package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// fiscalHandler handles fiscal periods and the close workflows.
type fiscalHandler struct {
	fiscalService portssvc.FiscalSvcFacade
}

func newFiscalHandler(fs portssvc.FiscalSvcFacade) *fiscalHandler {
	return &fiscalHandler{fiscalService: fs}
}

// RegisterFiscalRoutes registers fiscal period and fiscal year routes.
func RegisterFiscalRoutes(rg *gin.RouterGroup, fiscalService portssvc.FiscalSvcFacade) {
	h := newFiscalHandler(fiscalService)
	closeGate := requireClose()

	periods := rg.Group("/fiscal-periods")
	{
		periods.GET("", h.listPeriods)
		periods.GET("/current", h.currentPeriod)
		periods.GET("/:id", h.getPeriod)
		periods.GET("/:id/balances", h.periodBalances)
		periods.POST("", requireWrite(), h.createPeriod)
		periods.POST("/year", requireWrite(), h.createFiscalYear)
		periods.POST("/:id/close", closeGate, h.closePeriod)
	}

	rg.POST("/fiscal-years/:year/close", closeGate, h.closeFiscalYear)
}

// createPeriod godoc
// @Summary Open a fiscal period
// @Tags fiscal periods
// @Accept  json
// @Produce  json
// @Param   period body dto.CreateFiscalPeriodRequest true "Period"
// @Success 201 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} ErrorResponse "Start after end"
// @Failure 409 {object} ErrorResponse "Overlaps an existing period"
// @Security BearerAuth
// @Router /fiscal-periods [post]
func (h *fiscalHandler) createPeriod(c *gin.Context) {
	var req dto.CreateFiscalPeriodRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	period, err := h.fiscalService.CreatePeriod(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create fiscal period")
		return
	}
	c.JSON(http.StatusCreated, dto.ToFiscalPeriodResponse(period))
}

// createFiscalYear godoc
// @Summary Open twelve monthly periods for a calendar year
// @Tags fiscal periods
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateFiscalYearRequest true "Year"
// @Success 201 {array} dto.FiscalPeriodResponse
// @Failure 409 {object} ErrorResponse "Overlaps an existing period"
// @Security BearerAuth
// @Router /fiscal-periods/year [post]
func (h *fiscalHandler) createFiscalYear(c *gin.Context) {
	var req dto.CreateFiscalYearRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	periods, err := h.fiscalService.CreateFiscalYear(c.Request.Context(), req.Year, userID)
	if err != nil {
		respondError(c, err, "Failed to create fiscal year")
		return
	}
	c.JSON(http.StatusCreated, dto.ToListFiscalPeriodResponse(periods))
}

// listPeriods godoc
// @Summary List fiscal periods
// @Tags fiscal periods
// @Produce  json
// @Param   year query int false "Fiscal year"
// @Success 200 {array} dto.FiscalPeriodResponse
// @Security BearerAuth
// @Router /fiscal-periods [get]
func (h *fiscalHandler) listPeriods(c *gin.Context) {
	var year *int
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid year"})
			return
		}
		year = &y
	}

	periods, err := h.fiscalService.ListPeriods(c.Request.Context(), year)
	if err != nil {
		respondError(c, err, "Failed to list fiscal periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToListFiscalPeriodResponse(periods))
}

// currentPeriod godoc
// @Summary Period containing a date
// @Tags fiscal periods
// @Produce  json
// @Param   date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 409 {object} ErrorResponse "No period defined for the date"
// @Security BearerAuth
// @Router /fiscal-periods/current [get]
func (h *fiscalHandler) currentPeriod(c *gin.Context) {
	date, ok := dateQuery(c, "date", time.Now().UTC())
	if !ok {
		return
	}
	period, err := h.fiscalService.CurrentPeriod(c.Request.Context(), date)
	if err != nil {
		respondError(c, err, "Failed to resolve current period")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

// getPeriod godoc
// @Summary Get a fiscal period
// @Tags fiscal periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 404 {object} ErrorResponse "Period not found"
// @Security BearerAuth
// @Router /fiscal-periods/{id} [get]
func (h *fiscalHandler) getPeriod(c *gin.Context) {
	period, err := h.fiscalService.GetPeriod(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

// periodBalances godoc
// @Summary Account balance snapshot of a period
// @Tags fiscal periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {array} dto.AccountBalanceResponse
// @Security BearerAuth
// @Router /fiscal-periods/{id}/balances [get]
func (h *fiscalHandler) periodBalances(c *gin.Context) {
	balances, err := h.fiscalService.PeriodBalances(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve period balances")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountBalanceResponses(balances))
}

// closePeriod godoc
// @Summary Close a fiscal period
// @Description Snapshots balances of every touched account and locks the period. Fails while drafts remain.
// @Tags fiscal periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 409 {object} ErrorResponse "Already closed, or drafts remain"
// @Security BearerAuth
// @Router /fiscal-periods/{id}/close [post]
func (h *fiscalHandler) closePeriod(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	period, err := h.fiscalService.ClosePeriod(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to close fiscal period")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Fiscal period closed", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

// closeFiscalYear godoc
// @Summary Close a fiscal year
// @Description Posts the closing entry into retained earnings and carries balances into the next year.
// @Tags fiscal periods
// @Produce  json
// @Param   year path int true "Fiscal year"
// @Success 200 {object} dto.YearCloseResponse
// @Failure 409 {object} ErrorResponse "Periods still open, or year already closed"
// @Security BearerAuth
// @Router /fiscal-years/{year}/close [post]
func (h *fiscalHandler) closeFiscalYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid year"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.fiscalService.CloseFiscalYear(c.Request.Context(), year, userID)
	if err != nil {
		respondError(c, err, "Failed to close fiscal year")
		return
	}
	c.JSON(http.StatusOK, dto.ToYearCloseResponse(result))
}
