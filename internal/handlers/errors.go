package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/dto"
	"github.com/SscSPs/hesabdari_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// statusForKind maps an error kind to its HTTP status.
func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation,
		apperrors.KindImbalancedEntry,
		apperrors.KindMissingSide,
		apperrors.KindTooFewLines,
		apperrors.KindInvalidStateTransition,
		apperrors.KindAlreadyClosed,
		apperrors.KindClosingChecksFailed,
		apperrors.KindOverlappingPeriod,
		apperrors.KindInvalidDateRange,
		apperrors.KindPeriodClosed:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict, apperrors.KindDuplicate:
		return http.StatusConflict
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body for err. Internal errors are logged and
// replaced by fallbackMsg so driver details never reach the client.
func respondError(c *gin.Context, err error, fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	kind := apperrors.KindOf(err)
	status := statusForKind(kind)

	body := dto.ErrorResponse{Error: err.Error(), Kind: string(kind)}
	var le *apperrors.LedgerError
	if errors.As(err, &le) {
		body.Error = le.Message
		body.Details = le.Details
	}

	if status == http.StatusInternalServerError {
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		body = dto.ErrorResponse{Error: fallbackMsg, Kind: string(apperrors.KindInternal)}
	} else {
		logger.Warn(fallbackMsg, slog.String("kind", string(kind)), slog.String("error", err.Error()))
	}
	c.JSON(status, body)
}

// respondBindError reports a request that failed JSON binding or tag validation.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))

	body := dto.ErrorResponse{Error: "Invalid request format: " + err.Error(), Kind: string(apperrors.KindValidation)}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]any, len(verrs))
		for _, fe := range verrs {
			fields[fe.Namespace()] = fe.Tag()
		}
		body.Error = "Invalid request format"
		body.Details = map[string]any{"fields": fields}
	}
	c.JSON(http.StatusBadRequest, body)
}

// actorFromContext returns the authenticated user or aborts with 401.
func actorFromContext(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized", Kind: string(apperrors.KindUnauthorized)})
		return "", false
	}
	return userID, true
}
