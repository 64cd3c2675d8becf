package borrowing

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

func (c *Controller) HandleReceive(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.ownerIDFromPath(w, r)
	if !ok {
		return
	}

	var req ReceiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	b, err := c.service.Receive(r.Context(), ownerID, req)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, toBorrowingDTO(*b))
}

func (c *Controller) HandleReturn(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.ownerIDFromPath(w, r)
	if !ok {
		return
	}

	idStr := chi.URLParam(r, "borrowingId")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		c.writeValidationError(w, "invalid borrowingId", apperrors.ValidationDetail{
			Field:   "borrowingId",
			Message: "borrowingId must be a positive integer",
		})
		return
	}

	var req ReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	b, err := c.service.ReturnPortion(r.Context(), ownerID, id, req.QuantityBoxes, req.QuantitySachets)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, toBorrowingDTO(*b))
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.ownerIDFromPath(w, r)
	if !ok {
		return
	}

	borrowings, err := c.service.ListByOwner(r.Context(), ownerID)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	dtos := make([]BorrowingDTO, 0, len(borrowings))
	for _, b := range borrowings {
		dtos = append(dtos, toBorrowingDTO(b))
	}

	c.writeJSON(w, http.StatusOK, ListResponse{Borrowings: dtos})
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

	if ep, ok := apperrors.IsExceedsPendingError(err); ok {
		c.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":          "EXCEEDS_PENDING",
			"message":        ep.Message,
			"pendingBoxes":   ep.PendingBoxes,
			"pendingSachets": ep.PendingSachets,
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
