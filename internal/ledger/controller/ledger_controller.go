package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trastienda/internal/domain"
	"trastienda/internal/dto"
	apperrors "trastienda/internal/errors"
)

type LedgerUseCase interface {
	Record(ctx context.Context, ownerID int, req dto.RecordTransactionRequest) (*domain.Transaction, error)
	Delete(ctx context.Context, ownerID int, id int64) error
	AmendAmount(ctx context.Context, ownerID int, id int64, amount decimal.Decimal) (*domain.Transaction, error)
	List(ctx context.Context, ownerID int) ([]domain.Transaction, error)
}

type LedgerController struct {
	useCase LedgerUseCase
	logger  *zap.Logger
}

func NewLedgerController(useCase LedgerUseCase, logger *zap.Logger) *LedgerController {
	return &LedgerController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *LedgerController) HandleRecord(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	ownerID, ok := c.ownerIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := c.validateRecordRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	recorded, err := c.useCase.Record(r.Context(), ownerID, req)
	if err != nil {
		c.handleUseCaseError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, toTransactionResponse(*recorded))
}

func (c *LedgerController) HandleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.ownerIDFromPath(w, r)
	if !ok {
		return
	}

	txs, err := c.useCase.List(r.Context(), ownerID)
	if err != nil {
		c.handleUseCaseError(w, err, c.logger)
		return
	}

	responses := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		responses = append(responses, toTransactionResponse(t))
	}

	c.writeJSON(w, http.StatusOK, dto.TransactionListResponse{Transactions: responses})
}

func (c *LedgerController) HandleDelete(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	ownerID, ok := c.ownerIDFromPath(w, r)
	if !ok {
		return
	}

	id, ok := c.transactionIDFromPath(w, r)
	if !ok {
		return
	}

	if err := c.useCase.Delete(r.Context(), ownerID, id); err != nil {
		c.handleUseCaseError(w, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *LedgerController) HandleAmendAmount(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	ownerID, ok := c.ownerIDFromPath(w, r)
	if !ok {
		return
	}

	id, ok := c.transactionIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.AmendAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	amended, err := c.useCase.AmendAmount(r.Context(), ownerID, id, req.TotalAmount)
	if err != nil {
		c.handleUseCaseError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, toTransactionResponse(*amended))
}

func (c *LedgerController) validateRecordRequest(req dto.RecordTransactionRequest) error {
	var details []apperrors.ValidationDetail

	if req.Type == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "type",
			Message: "type is required",
		})
	}

	if req.QuantityBoxes < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantityBoxes",
			Message: "quantityBoxes must not be negative",
		})
	}

	if req.QuantitySachets < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantitySachets",
			Message: "quantitySachets must not be negative",
		})
	}

	if req.ListPrice != nil && req.ListPrice.IsNegative() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "listPrice",
			Message: "listPrice must not be negative",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func (c *LedgerController) ownerIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
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

func (c *LedgerController) transactionIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "transactionId")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		c.writeValidationError(w, "invalid transactionId", apperrors.ValidationDetail{
			Field:   "transactionId",
			Message: "transactionId must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

func (c *LedgerController) handleUseCaseError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, http.StatusConflict, "CONFLICT", err.Error())
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		c.writeError(w, http.StatusConflict, "DEADLOCK", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func toTransactionResponse(t domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:              t.ID,
		OwnerID:         t.OwnerID,
		ProductID:       t.ProductID,
		Type:            string(t.Type),
		QuantityBoxes:   t.QuantityBoxes,
		QuantitySachets: t.QuantitySachets,
		TotalAmount:     t.TotalAmount,
		IsGift:          t.IsGift,
		Notes:           t.Notes,
		CustomerName:    t.CustomerName,
		Campaign:        t.Campaign,
		Referrer:        t.Referrer,
		CreatedAt:       t.CreatedAt,
	}
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *LedgerController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *LedgerController) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func (c *LedgerController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
