package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trastienda/internal/domain"
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

type ProductDTO struct {
	ID                  int64           `json:"id"`
	Name                string          `json:"name"`
	ListPrice           decimal.Decimal `json:"listPrice"`
	WeightedAverageCost decimal.Decimal `json:"weightedAverageCost"`
	StockBoxes          int             `json:"stockBoxes"`
	MarketingStock      int             `json:"marketingStock"`
	SachetsPerBox       int             `json:"sachetsPerBox"`
	Points              int             `json:"points"`
	InventoryValue      decimal.Decimal `json:"inventoryValue"`
	CreatedAt           time.Time       `json:"createdAt"`
}

type ListResponse struct {
	Products []ProductDTO `json:"products"`
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.ownerIDFromPath(w, r)
	if !ok {
		return
	}

	products, err := c.service.ListByOwner(r.Context(), ownerID)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toProductDTO(p))
	}

	c.writeJSON(w, http.StatusOK, ListResponse{Products: dtos})
}

// HandleDelete removes a product and, through the schema's cascade, every
// transaction that referenced it.
func (c *Controller) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.ownerIDFromPath(w, r)
	if !ok {
		return
	}

	idStr := chi.URLParam(r, "productId")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		c.writeValidationError(w, "invalid productId", apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
		return
	}

	if err := c.service.Delete(r.Context(), ownerID, id); err != nil {
		c.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:                  p.ID,
		Name:                p.Name,
		ListPrice:           p.ListPrice,
		WeightedAverageCost: p.WeightedAverageCost,
		StockBoxes:          p.StockBoxes,
		MarketingStock:      p.MarketingStock,
		SachetsPerBox:       p.SachetsPerBox,
		Points:              p.Points,
		InventoryValue:      p.InventoryValue(),
		CreatedAt:           p.CreatedAt,
	}
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
