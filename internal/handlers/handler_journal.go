package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles the journal entry lifecycle over HTTP.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// RegisterJournalRoutes registers routes related to journal entries.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)
	write := requireWrite()

	entries := rg.Group("/journal-entries")
	{
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.GET("/by-number/:number", h.getEntryByNumber)
		entries.POST("", write, h.createEntry)
		entries.POST("/validate", h.validateEntry)
		entries.PUT("/:id", write, h.updateDraft)
		entries.DELETE("/:id", write, h.deleteDraft)
		entries.POST("/:id/post", write, h.postEntry)
		entries.POST("/:id/reverse", write, h.reverseEntry)
	}
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Stores a draft, or validates and posts it in one step when post is true.
// @Tags journal entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Journal entry"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse "Validation error (rule in body)"
// @Failure 409 {object} ErrorResponse "Fiscal period closed or missing (reason in body)"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	var req dto.CreateJournalEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	draft := req.ToDraftEntry(userID)
	var (
		entry *domain.JournalEntry
		err   error
	)
	if req.Post {
		entry, err = h.journalService.CreateAndPost(c.Request.Context(), draft)
	} else {
		entry, err = h.journalService.CreateDraft(c.Request.Context(), draft)
	}
	if err != nil {
		respondError(c, err, "Failed to create journal entry")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Journal entry created",
		slog.String("entry_number", entry.EntryNumber), slog.String("status", string(entry.Status)))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// validateEntry godoc
// @Summary Validate a journal entry without storing it
// @Tags journal entries
// @Accept  json
// @Param   entry body dto.CreateJournalEntryRequest true "Journal entry"
// @Success 204 "Entry would post"
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 409 {object} ErrorResponse "Period state error"
// @Security BearerAuth
// @Router /journal-entries/validate [post]
func (h *journalHandler) validateEntry(c *gin.Context) {
	var req dto.CreateJournalEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.journalService.Validate(c.Request.Context(), req.ToDraftEntry(userID)); err != nil {
		respondError(c, err, "Failed to validate journal entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Tags journal entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} ErrorResponse "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// getEntryByNumber godoc
// @Summary Get a journal entry by its number
// @Tags journal entries
// @Produce  json
// @Param   number path string true "Entry number, e.g. JE-20250115-3FA2C1"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} ErrorResponse "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/by-number/{number} [get]
func (h *journalHandler) getEntryByNumber(c *gin.Context) {
	entry, err := h.journalService.GetEntryByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first using token-based pagination.
// @Tags journal entries
// @Produce  json
// @Param   status query string false "Entry status" Enums(DRAFT, POSTED, REVERSED)
// @Param   fromDate query string false "From date (YYYY-MM-DD)"
// @Param   toDate query string false "To date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	entries, next, err := h.journalService.ListEntries(c.Request.Context(), params.ToFilter(), params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListJournalEntryResponse(entries, next))
}

// updateDraft godoc
// @Summary Replace a draft entry
// @Tags journal entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   entry body dto.CreateJournalEntryRequest true "New header and lines"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 409 {object} ErrorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /journal-entries/{id} [put]
func (h *journalHandler) updateDraft(c *gin.Context) {
	var req dto.CreateJournalEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.UpdateDraft(c.Request.Context(), c.Param("id"), req.ToDraftEntry(userID))
	if err != nil {
		respondError(c, err, "Failed to update draft entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteDraft godoc
// @Summary Delete a draft entry
// @Tags journal entries
// @Param   id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 409 {object} ErrorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /journal-entries/{id} [delete]
func (h *journalHandler) deleteDraft(c *gin.Context) {
	if err := h.journalService.DeleteDraft(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete draft entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// postEntry godoc
// @Summary Post a draft entry
// @Description Re-validates the draft in full and moves it to POSTED.
// @Tags journal entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 409 {object} ErrorResponse "Not a draft, or period closed"
// @Security BearerAuth
// @Router /journal-entries/{id}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	entry, err := h.journalService.Post(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to post journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted entry
// @Description Posts a counter-entry with debits and credits swapped and marks the original REVERSED.
// @Tags journal entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   request body dto.ReverseJournalEntryRequest false "Optional reversal date"
// @Success 201 {object} dto.JournalEntryResponse "The counter-entry"
// @Failure 409 {object} ErrorResponse "Not posted, or target period closed"
// @Security BearerAuth
// @Router /journal-entries/{id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	var req dto.ReverseJournalEntryRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	counter, err := h.journalService.Reverse(c.Request.Context(), c.Param("id"), userID, req.ReversalDate)
	if err != nil {
		respondError(c, err, "Failed to reverse journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(counter))
}
