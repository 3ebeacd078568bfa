package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves financial statements compiled on demand.
type reportingHandler struct {
	statementService portssvc.StatementService
}

func newReportingHandler(ss portssvc.StatementService) *reportingHandler {
	return &reportingHandler{statementService: ss}
}

// RegisterReportingRoutes registers statement routes.
func RegisterReportingRoutes(rg *gin.RouterGroup, statementService portssvc.StatementService) {
	h := newReportingHandler(statementService)

	reports := rg.Group("/reports")
	{
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/income-statement", h.getIncomeStatement)
		reports.GET("/cash-flow", h.getCashFlow)
		reports.GET("/package", h.getPackage)
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/aging", h.getAging)
	}
}

func boolQuery(c *gin.Context, name string) bool {
	return boolQueryDefault(c, name, false)
}

// boolQueryDefault returns def when the parameter is absent or unparsable.
func boolQueryDefault(c *gin.Context, name string, def bool) bool {
	raw, ok := c.GetQuery(name)
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

// dateRange reads fromDate and toDate, defaulting to the year to date.
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	to, ok := dateQuery(c, "toDate", now)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	from, ok := dateQuery(c, "fromDate", time.Date(to.Year(), time.January, 1, 0, 0, 0, 0, time.UTC))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// getBalanceSheet godoc
// @Summary Balance sheet
// @Description Assets, liabilities and equity as of a date, including current-period net income.
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Param   comparative query bool false "Include the same statement shifted back"
// @Success 200 {object} domain.BalanceSheet
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	asOf, ok := dateQuery(c, "asOf", time.Now().UTC())
	if !ok {
		return
	}
	sheet, err := h.statementService.BalanceSheet(c.Request.Context(), asOf, boolQuery(c, "comparative"))
	if err != nil {
		respondError(c, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, sheet)
}

// getIncomeStatement godoc
// @Summary Income statement
// @Tags reports
// @Produce  json
// @Param   fromDate query string false "From date (YYYY-MM-DD), defaults to January 1"
// @Param   toDate query string false "To date (YYYY-MM-DD), defaults to today"
// @Param   comparative query bool false "Include the same statement shifted back"
// @Param   details query bool false "Group lines into sections"
// @Success 200 {object} domain.IncomeStatement
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	stmt, err := h.statementService.IncomeStatement(c.Request.Context(), from, to, boolQuery(c, "comparative"), boolQuery(c, "details"))
	if err != nil {
		respondError(c, err, "Failed to generate income statement")
		return
	}
	c.JSON(http.StatusOK, stmt)
}

// getCashFlow godoc
// @Summary Cash flow statement (indirect method)
// @Tags reports
// @Produce  json
// @Param   fromDate query string false "From date (YYYY-MM-DD), defaults to January 1"
// @Param   toDate query string false "To date (YYYY-MM-DD), defaults to today"
// @Param   comparative query bool false "Include the same statement shifted back"
// @Success 200 {object} domain.CashFlowStatement
// @Security BearerAuth
// @Router /reports/cash-flow [get]
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	stmt, err := h.statementService.CashFlowStatement(c.Request.Context(), from, to, boolQuery(c, "comparative"))
	if err != nil {
		respondError(c, err, "Failed to generate cash flow statement")
		return
	}
	c.JSON(http.StatusOK, stmt)
}

// getPackage godoc
// @Summary Financial statements package
// @Description Balance sheet as of a date with the income and cash flow statements for the period ending on it.
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Param   fromDate query string false "Period start (YYYY-MM-DD), defaults to January 1 of the report year"
// @Param   comparative query bool false "Include comparative figures, defaults to true"
// @Success 200 {object} domain.StatementPackage
// @Security BearerAuth
// @Router /reports/package [get]
func (h *reportingHandler) getPackage(c *gin.Context) {
	asOf, ok := dateQuery(c, "asOf", time.Now().UTC())
	if !ok {
		return
	}
	from, ok := dateQuery(c, "fromDate", time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, time.UTC))
	if !ok {
		return
	}
	pkg, err := h.statementService.Package(c.Request.Context(), asOf, from, boolQueryDefault(c, "comparative", true))
	if err != nil {
		respondError(c, err, "Failed to generate financial statements package")
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// getTrialBalance godoc
// @Summary Trial balance
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TrialBalanceResponse
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	asOf, ok := dateQuery(c, "asOf", time.Now().UTC())
	if !ok {
		return
	}
	tb, err := h.statementService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// getAging godoc
// @Summary Aging report
// @Description Buckets outstanding payables or receivables by days past due.
// @Tags reports
// @Produce  json
// @Param   kind query string true "Open item kind" Enums(PAYABLE, RECEIVABLE)
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Param   bucket query []int false "Inclusive upper bounds of custom buckets" collectionFormat(multi)
// @Success 200 {object} domain.AgingReport
// @Security BearerAuth
// @Router /reports/aging [get]
func (h *reportingHandler) getAging(c *gin.Context) {
	kind := domain.OpenItemKind(c.Query("kind"))
	if kind != domain.Payable && kind != domain.Receivable {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "kind must be PAYABLE or RECEIVABLE"})
		return
	}
	asOf, ok := dateQuery(c, "asOf", time.Now().UTC())
	if !ok {
		return
	}
	var req dto.AgingReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.statementService.AgingReport(c.Request.Context(), asOf, kind, req.ToBuckets())
	if err != nil {
		respondError(c, err, "Failed to generate aging report")
		return
	}
	c.JSON(http.StatusOK, report)
}
