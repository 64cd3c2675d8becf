package report

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

func (c *Controller) HandleReport(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.ownerIDFromPath(w, r)
	if !ok {
		return
	}

	report, err := c.service.ProfitabilityReport(r.Context(), ownerID)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, report)
}

func (c *Controller) HandleInventory(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.ownerIDFromPath(w, r)
	if !ok {
		return
	}

	snapshot, err := c.service.InventorySnapshot(r.Context(), ownerID)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	inventory := make(map[string]InventoryEntry, len(snapshot))
	for name, snap := range snapshot {
		inventory[name] = InventoryEntry{
			Boxes:               snap.Boxes,
			Sachets:             snap.Sachets,
			WeightedAverageCost: snap.WeightedAverageCost,
		}
	}

	c.writeJSON(w, http.StatusOK, InventoryResponse{Inventory: inventory})
}

func (c *Controller) HandleAddPayment(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.ownerIDFromPath(w, r)
	if !ok {
		return
	}

	var req AddPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := c.service.AddProgramPayment(r.Context(), ownerID, req.Amount, req.Notes); err != nil {
		c.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
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

	if _, ok := apperrors.IsPersistenceError(err); ok {
		c.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "PERSISTENCE_ERROR",
			"message": "data store unavailable, try again",
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
