package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates and conversion.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{exchangeRateService: ers}
}

// RegisterExchangeRateRoutes registers routes related to exchange rates.
func RegisterExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("", requireWrite(), h.createExchangeRate)
		exchangeRates.GET("", h.listExchangeRates)
		exchangeRates.GET("/rate", h.getRate)
		exchangeRates.POST("/convert", h.convert)
	}
}

// createExchangeRate godoc
// @Summary Create a new exchange rate
// @Description Adds the rate converting one unit of the source currency, effective from a date.
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 409 {object} ErrorResponse "A rate for this pair and date already exists"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	var req dto.CreateExchangeRateRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromContext(c)
	logger.Info("Received request to create exchange rate",
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
		slog.String("rate", req.Rate.String()),
		slog.Time("effective_date", req.EffectiveDate),
	)

	rate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create exchange rate")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// listExchangeRates godoc
// @Summary List exchange rates
// @Tags exchange rates
// @Produce  json
// @Param   from query string false "Source currency"
// @Param   to query string false "Target currency"
// @Success 200 {array} dto.ExchangeRateResponse
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	rates, err := h.exchangeRateService.ListExchangeRates(c.Request.Context(),
		strings.ToUpper(c.Query("from")), strings.ToUpper(c.Query("to")))
	if err != nil {
		respondError(c, err, "Failed to list exchange rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// getRate godoc
// @Summary Resolve an exchange rate
// @Description Resolves the rate effective on a date: identity, direct, inverse, then via the base currency.
// @Tags exchange rates
// @Produce  json
// @Param   from query string true "Source currency"
// @Param   to query string true "Target currency"
// @Param   date query string false "Effective date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.ResolvedRate
// @Failure 422 {object} ErrorResponse "No rate available"
// @Security BearerAuth
// @Router /exchange-rates/rate [get]
func (h *exchangeRateHandler) getRate(c *gin.Context) {
	from, to := strings.ToUpper(c.Query("from")), strings.ToUpper(c.Query("to"))
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from and to are required"})
		return
	}
	asOf, ok := dateQuery(c, "date", time.Now().UTC())
	if !ok {
		return
	}

	rate, err := h.exchangeRateService.Rate(c.Request.Context(), from, to, asOf)
	if err != nil {
		respondError(c, err, "Failed to resolve exchange rate")
		return
	}
	c.JSON(http.StatusOK, rate)
}

// convert godoc
// @Summary Convert an amount
// @Description Converts at the rate effective on the date, rounded half-up to the target currency's places.
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   request body dto.ConvertRequest true "Conversion request"
// @Success 200 {object} domain.Conversion
// @Failure 422 {object} ErrorResponse "No rate available"
// @Security BearerAuth
// @Router /exchange-rates/convert [post]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	var req dto.ConvertRequest
	if !bindJSON(c, &req) {
		return
	}

	conversion, err := h.exchangeRateService.Convert(c.Request.Context(), req.Amount, req.From, req.To, req.Date)
	if err != nil {
		respondError(c, err, "Failed to convert amount")
		return
	}
	c.JSON(http.StatusOK, conversion)
}
