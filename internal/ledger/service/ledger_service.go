package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trastienda/internal/domain"
	"trastienda/internal/errors"
	"trastienda/internal/projector"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type ProductStore interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, productID int64, ownerID int) (*domain.Product, error)
	ApplyEffect(ctx context.Context, tx *sql.Tx, productID int64, eff projector.Effect) error
	OverwriteDerived(ctx context.Context, tx *sql.Tx, productID int64, snap projector.Snapshot) error
}

type TransactionRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, t domain.Transaction) (int64, error)
	FindByID(ctx context.Context, id int64, ownerID int) (*domain.Transaction, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64, ownerID int) (*domain.Transaction, error)
	Delete(ctx context.Context, tx *sql.Tx, id int64, ownerID int) error
	ListByProduct(ctx context.Context, tx *sql.Tx, productID int64) ([]domain.Transaction, error)
	UpdateAmount(ctx context.Context, id int64, ownerID int, amount decimal.Decimal) error
}

type LoanStore interface {
	Insert(ctx context.Context, tx *sql.Tx, loan domain.Loan) (int64, error)
}

type BorrowingStore interface {
	BorrowedByProduct(ctx context.Context, tx *sql.Tx, productID int64, ownerID int) (int, int, error)
}

// LedgerService owns every mutation of the transaction ledger. Each
// operation runs in one database transaction holding the product row lock,
// so the projector always works from the committed pre-update state.
type LedgerService struct {
	db           TransactionManager
	products     ProductStore
	transactions TransactionRepository
	loans        LoanStore
	borrowings   BorrowingStore
	logger       *zap.Logger
	txTimeout    time.Duration
}

func NewLedgerService(
	db TransactionManager,
	products ProductStore,
	transactions TransactionRepository,
	loans LoanStore,
	borrowings BorrowingStore,
	logger *zap.Logger,
	txTimeout time.Duration,
) *LedgerService {
	return &LedgerService{
		db:           db,
		products:     products,
		transactions: transactions,
		loans:        loans,
		borrowings:   borrowings,
		logger:       logger,
		txTimeout:    txTimeout,
	}
}

func (s *LedgerService) Record(ctx context.Context, t domain.Transaction) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// MySQL ignores the rollback once committed.
	defer tx.Rollback()

	if t.ProductID == nil {
		if t.Type.RequiresProduct() {
			return nil, errors.NewValidationError("transaction requires a product", errors.ValidationDetail{
				Field:   "product",
				Message: fmt.Sprintf("type %q must reference a product", t.Type),
			})
		}

		id, err := s.transactions.Insert(txCtx, tx, t)
		if err != nil {
			return nil, err
		}
		t.ID = id

		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("committing transaction: %w", err)
		}

		s.logger.Info("transaction recorded", zap.Int64("transactionId", t.ID), zap.String("type", string(t.Type)))
		return &t, nil
	}

	product, err := s.products.FindByIDForUpdate(txCtx, tx, *t.ProductID, t.OwnerID)
	if err != nil {
		return nil, err
	}

	eff, err := projector.Apply(*product, t)
	if err != nil {
		return nil, err
	}

	if eff.BoxesDelta != 0 || eff.SachetsDelta != 0 || eff.CostChanged {
		if err := s.products.ApplyEffect(txCtx, tx, product.ID, eff); err != nil {
			return nil, err
		}
	}

	id, err := s.transactions.Insert(txCtx, tx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id

	if eff.ShortfallBoxes > 0 || eff.ShortfallSachets > 0 {
		loan := domain.Loan{
			OwnerID:         t.OwnerID,
			ProductID:       product.ID,
			QuantityBoxes:   eff.ShortfallBoxes,
			QuantitySachets: eff.ShortfallSachets,
			Notes:           fmt.Sprintf("shortfall from %s transaction %d", t.Type, t.ID),
		}
		if _, err := s.loans.Insert(txCtx, tx, loan); err != nil {
			return nil, err
		}
		s.logger.Warn("outflow exceeded stock, loan created",
			zap.Int64("transactionId", t.ID),
			zap.Int64("productId", product.ID),
			zap.Int("shortfallBoxes", eff.ShortfallBoxes),
			zap.Int("shortfallSachets", eff.ShortfallSachets),
		)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Info("transaction recorded",
		zap.Int64("transactionId", t.ID),
		zap.String("type", string(t.Type)),
		zap.Int64("productId", product.ID),
		zap.Int("boxesDelta", eff.BoxesDelta),
		zap.Int("sachetsDelta", eff.SachetsDelta),
	)

	return &t, nil
}

// Delete removes a transaction and refolds the owning product's derived
// state from the remaining history. An inverse-delta patch would silently
// corrupt the weighted-average cost, so the full fold is not optional.
func (s *LedgerService) Delete(ctx context.Context, ownerID int, id int64) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	t, err := s.transactions.FindByIDForUpdate(txCtx, tx, id, ownerID)
	if err != nil {
		return err
	}

	if err := s.transactions.Delete(txCtx, tx, id, ownerID); err != nil {
		return err
	}

	if t.ProductID != nil {
		product, err := s.products.FindByIDForUpdate(txCtx, tx, *t.ProductID, ownerID)
		if err != nil {
			return err
		}

		history, err := s.transactions.ListByProduct(txCtx, tx, product.ID)
		if err != nil {
			return err
		}

		borrowedBoxes, borrowedSachets, err := s.borrowings.BorrowedByProduct(txCtx, tx, product.ID, ownerID)
		if err != nil {
			return err
		}

		base := projector.Snapshot{Boxes: borrowedBoxes, Sachets: borrowedSachets}
		snap := projector.Fold(*product, base, history)
		if err := s.products.OverwriteDerived(txCtx, tx, product.ID, snap); err != nil {
			return err
		}

		s.logger.Info("product state recomputed after delete",
			zap.Int64("transactionId", id),
			zap.Int64("productId", product.ID),
			zap.Int("boxes", snap.Boxes),
			zap.Int("sachets", snap.Sachets),
		)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// AmendAmount corrects the monetary amount of an advertising transaction.
// Every other type is immutable once recorded.
func (s *LedgerService) AmendAmount(ctx context.Context, ownerID int, id int64, amount decimal.Decimal) (*domain.Transaction, error) {
	t, err := s.transactions.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if t.Type != domain.TypeAdvertising {
		return nil, errors.NewConflictError(fmt.Sprintf("only advertising transactions can be amended, got %q", t.Type))
	}

	if err := s.transactions.UpdateAmount(ctx, id, ownerID, amount); err != nil {
		return nil, err
	}

	t.TotalAmount = amount
	s.logger.Info("advertising amount amended", zap.Int64("transactionId", id))

	return t, nil
}
