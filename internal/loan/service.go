package loan

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trastienda/internal/domain"
)

type loanService struct {
	db           TransactionManager
	repo         Repository
	transactions TransactionRecorder
	logger       *zap.Logger
	txTimeout    time.Duration
}

func NewService(
	db TransactionManager,
	repo Repository,
	transactions TransactionRecorder,
	logger *zap.Logger,
	txTimeout time.Duration,
) Service {
	return &loanService{
		db:           db,
		repo:         repo,
		transactions: transactions,
		logger:       logger,
		txTimeout:    txTimeout,
	}
}

// Repay retires outstanding loan quantity FIFO across a product's records.
// It clears debt bookkeeping only; the stock was already delivered when the
// original outflow was recorded, so inventory is untouched.
func (s *loanService) Repay(ctx context.Context, ownerID int, productID int64, boxes, sachets int) (*SettleResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	records, err := s.repo.ListByProductForUpdate(txCtx, tx, productID, ownerID)
	if err != nil {
		return nil, err
	}

	result, err := Settle(records, boxes, sachets)
	if err != nil {
		return nil, err
	}

	for _, rec := range result.Updated {
		if err := s.repo.UpdateQuantities(txCtx, tx, rec.ID, rec.QuantityBoxes, rec.QuantitySachets); err != nil {
			return nil, err
		}
	}
	for _, id := range result.DeletedIDs {
		if err := s.repo.Delete(txCtx, tx, id); err != nil {
			return nil, err
		}
	}

	repayment := domain.Transaction{
		OwnerID:         ownerID,
		ProductID:       &productID,
		Type:            domain.TypeLoanRepayment,
		QuantityBoxes:   boxes,
		QuantitySachets: sachets,
		TotalAmount:     decimal.Zero,
		Notes:           fmt.Sprintf("loan repayment: %d boxes, %d sachets", boxes, sachets),
	}
	if _, err := s.transactions.Insert(txCtx, tx, repayment); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing repayment: %w", err)
	}

	s.logger.Info("loan repayment settled",
		zap.Int("ownerId", ownerID),
		zap.Int64("productId", productID),
		zap.Int("boxes", boxes),
		zap.Int("sachets", sachets),
		zap.Int("recordsClosed", len(result.DeletedIDs)),
	)

	return &result, nil
}

func (s *loanService) ListByOwner(ctx context.Context, ownerID int) ([]domain.Loan, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}
