package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trastienda/internal/catalog"
	"trastienda/internal/domain"
	"trastienda/internal/dto"
	apperrors "trastienda/internal/errors"
)

type LedgerService interface {
	Record(ctx context.Context, t domain.Transaction) (*domain.Transaction, error)
	Delete(ctx context.Context, ownerID int, id int64) error
	AmendAmount(ctx context.Context, ownerID int, id int64, amount decimal.Decimal) (*domain.Transaction, error)
}

type TransactionReader interface {
	ListByOwner(ctx context.Context, ownerID int) ([]domain.Transaction, error)
}

type LedgerUseCase struct {
	catalog          catalog.Service
	service          LedgerService
	transactions     TransactionReader
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewLedgerUseCase(
	catalogSvc catalog.Service,
	service LedgerService,
	transactions TransactionReader,
	logger *zap.Logger,
	maxRetryAttempts int,
) *LedgerUseCase {
	return &LedgerUseCase{
		catalog:          catalogSvc,
		service:          service,
		transactions:     transactions,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *LedgerUseCase) Record(ctx context.Context, ownerID int, req dto.RecordTransactionRequest) (*domain.Transaction, error) {
	txType, err := domain.ParseTransactionType(req.Type)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid transaction type", apperrors.ValidationDetail{
			Field:   "type",
			Message: err.Error(),
		})
	}

	// A repayment recorded here would sit in the ledger without settling
	// any loan. Settlement owns the type end to end.
	if txType == domain.TypeLoanRepayment {
		return nil, apperrors.NewValidationError("loan repayments are recorded through loan settlement", apperrors.ValidationDetail{
			Field:   "type",
			Message: "use the loan repayment endpoint to settle outstanding loans",
		})
	}

	if req.QuantityBoxes < 0 || req.QuantitySachets < 0 {
		return nil, apperrors.NewValidationError("quantities must not be negative", apperrors.ValidationDetail{
			Field:   "quantityBoxes",
			Message: "quantityBoxes and quantitySachets must be >= 0",
		})
	}

	t := domain.Transaction{
		OwnerID:         ownerID,
		Type:            txType,
		QuantityBoxes:   req.QuantityBoxes,
		QuantitySachets: req.QuantitySachets,
		TotalAmount:     req.TotalAmount,
		IsGift:          req.IsGift,
		Notes:           req.Notes,
		CustomerName:    req.CustomerName,
		Campaign:        req.Campaign,
		Referrer:        req.Referrer,
	}

	// Advertising spend may reference a product, everything else must.
	if req.Product != "" || txType.RequiresProduct() {
		product, err := uc.catalog.GetOrCreate(ctx, ownerID, req.Product, catalog.Defaults{
			ListPrice:     req.ListPrice,
			SachetsPerBox: req.SachetsPerBox,
			Points:        req.Points,
		})
		if err != nil {
			return nil, err
		}
		t.ProductID = &product.ID
	}

	uc.logger.Info("recording transaction",
		zap.Int("ownerId", ownerID),
		zap.String("type", string(txType)),
		zap.Int("quantityBoxes", req.QuantityBoxes),
		zap.Int("quantitySachets", req.QuantitySachets),
	)

	var recorded *domain.Transaction
	err = uc.withDeadlockRetry(func() error {
		var svcErr error
		recorded, svcErr = uc.service.Record(ctx, t)
		return svcErr
	})
	if err != nil {
		return nil, err
	}

	return recorded, nil
}

func (uc *LedgerUseCase) Delete(ctx context.Context, ownerID int, id int64) error {
	uc.logger.Info("deleting transaction", zap.Int("ownerId", ownerID), zap.Int64("transactionId", id))

	return uc.withDeadlockRetry(func() error {
		return uc.service.Delete(ctx, ownerID, id)
	})
}

func (uc *LedgerUseCase) AmendAmount(ctx context.Context, ownerID int, id int64, amount decimal.Decimal) (*domain.Transaction, error) {
	return uc.service.AmendAmount(ctx, ownerID, id, amount)
}

func (uc *LedgerUseCase) List(ctx context.Context, ownerID int) ([]domain.Transaction, error) {
	return uc.transactions.ListByOwner(ctx, ownerID)
}

// withDeadlockRetry reruns op when MySQL reports a deadlock or lock wait
// timeout, with jittered backoff between attempts.
func (uc *LedgerUseCase) withDeadlockRetry(op func() error) error {
	maxAttempts := uc.maxRetryAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		if !isDeadlockError(err) {
			return err
		}

		if attempt < maxAttempts {
			backoff := backoffs[len(backoffs)-1]
			if attempt-1 < len(backoffs) {
				backoff = backoffs[attempt-1]
			}
			jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
			time.Sleep(jitter)
			uc.logger.Warn("deadlock detected, retrying", zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts))
			continue
		}
	}

	return apperrors.NewDeadlockError("max retries exceeded")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
