package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler receives postings from the AP/AR collaborators.
type postingHandler struct {
	postingService portssvc.PostingService
}

// RegisterPostingRoutes registers the collaborator posting routes.
func RegisterPostingRoutes(rg *gin.RouterGroup, postingService portssvc.PostingService) {
	h := &postingHandler{postingService: postingService}

	postings := rg.Group("/postings", requireWrite())
	{
		postings.POST("/invoice", h.postInvoice)
		postings.POST("/payment", h.postPayment)
	}
}

// postInvoice godoc
// @Summary Post an approved invoice
// @Description Payables debit each line item and credit the control account; receivables the reverse.
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   invoice body dto.InvoicePostingRequest true "Invoice"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse "Line items do not match the total, or account missing"
// @Failure 409 {object} ErrorResponse "Period closed or missing"
// @Security BearerAuth
// @Router /postings/invoice [post]
func (h *postingHandler) postInvoice(c *gin.Context) {
	var req dto.InvoicePostingRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.postingService.PostInvoiceJournalEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to post invoice")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Invoice posted",
		slog.String("document_number", req.DocumentNumber), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// postPayment godoc
// @Summary Post a payment
// @Description Payables debit the control account and credit the bank; receivables the reverse.
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   payment body dto.PaymentPostingRequest true "Payment"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 409 {object} ErrorResponse "Period closed or missing"
// @Security BearerAuth
// @Router /postings/payment [post]
func (h *postingHandler) postPayment(c *gin.Context) {
	var req dto.PaymentPostingRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.postingService.PostPaymentJournalEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to post payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}
