package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/utils"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Rule   string `json:"rule,omitempty"`   // Set for validation failures
	Reason string `json:"reason,omitempty"` // Set for fiscal period state failures
}

// respondError writes err with the status its kind maps to. Server errors are logged
// and replaced by fallback so internals do not leak.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromContext(c)
	status := apperrors.HTTPStatus(err)

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: fallback})
		return
	}

	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	resp := ErrorResponse{Error: err.Error()}
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		resp.Rule = vErr.Rule
	}
	var pErr *apperrors.PeriodStateError
	if errors.As(err, &pErr) {
		resp.Reason = pErr.Reason
	}
	c.JSON(status, resp)
}

// requireUserID reads the authenticated user or aborts with 401.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}

// dateQuery parses a YYYY-MM-DD query parameter. Missing values yield def.
func dateQuery(c *gin.Context, name string, def time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	t, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name + ", expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}

// bindJSON binds the body or answers 400.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return false
	}
	return true
}

func requireRead() gin.HandlerFunc  { return middleware.RequireCapability(utils.CapabilityRead) }
func requireWrite() gin.HandlerFunc { return middleware.RequireCapability(utils.CapabilityWrite) }
func requireClose() gin.HandlerFunc { return middleware.RequireCapability(utils.CapabilityClose) }
