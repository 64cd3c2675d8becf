package loan

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "trastienda/internal/errors"
)

type Controller struct {
	service Service
	logger  *zap.Logger
}

func NewController(service Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) HandleRepay(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.ownerIDFromPath(w, r)
	if !ok {
		return
	}

	var req RepayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.ProductID <= 0 {
		c.writeValidationError(w, "invalid productId", apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
		return
	}

	result, err := c.service.Repay(r.Context(), ownerID, req.ProductID, req.QuantityBoxes, req.QuantitySachets)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	updated := make([]LoanDTO, 0, len(result.Updated))
	for _, l := range result.Updated {
		updated = append(updated, toLoanDTO(l))
	}
	closed := result.DeletedIDs
	if closed == nil {
		closed = []int64{}
	}

	c.writeJSON(w, http.StatusOK, RepayResponse{
		UpdatedLoans: updated,
		ClosedLoans:  closed,
	})
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.ownerIDFromPath(w, r)
	if !ok {
		return
	}

	loans, err := c.service.ListByOwner(r.Context(), ownerID)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	dtos := make([]LoanDTO, 0, len(loans))
	for _, l := range loans {
		dtos = append(dtos, toLoanDTO(l))
	}

	c.writeJSON(w, http.StatusOK, ListResponse{Loans: dtos})
}

func (c *Controller) ownerIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	ownerIDStr := chi.URLParam(r, "ownerId")
	ownerID, err := strconv.Atoi(ownerIDStr)
	if err != nil || ownerID <= 0 {
		c.writeValidationError(w, "invalid ownerId", apperrors.ValidationDetail{
			Field:   "ownerId",
			Message: "ownerId must be a positive integer",
		})
		return 0, false
	}
	return ownerID, true
}

func (c *Controller) handleServiceError(w http.ResponseWriter, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	if ib, ok := apperrors.IsInsufficientLoanBalanceError(err); ok {
		c.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":              "INSUFFICIENT_LOAN_BALANCE",
			"message":            ib.Message,
			"outstandingBoxes":   ib.OutstandingBoxes,
			"outstandingSachets": ib.OutstandingSachets,
		})
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "NOT_FOUND",
			"message": err.Error(),
		})
		return
	}

	c.logger.Error("unexpected error", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "INTERNAL_ERROR",
		"message": "an unexpected error occurred",
	})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
