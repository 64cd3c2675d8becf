package report

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trastienda/internal/domain"
	apperrors "trastienda/internal/errors"
	"trastienda/internal/projector"
)

type reportService struct {
	transactions TransactionReader
	products     ProductReader
	loans        LoanReader
	borrowings   BorrowingReader
	payments     PaymentRepository
	logger       *zap.Logger
}

func NewService(
	transactions TransactionReader,
	products ProductReader,
	loans LoanReader,
	borrowings BorrowingReader,
	payments PaymentRepository,
	logger *zap.Logger,
) Service {
	return &reportService{
		transactions: transactions,
		products:     products,
		loans:        loans,
		borrowings:   borrowings,
		payments:     payments,
		logger:       logger,
	}
}

// ProfitabilityReport always reads fresh state rather than trusting cached
// deltas. The ledger and catalog are load-bearing; loans, borrowings and
// payments degrade to empty when their reads fail so a broken side table
// cannot take down the whole dashboard.
func (s *reportService) ProfitabilityReport(ctx context.Context, ownerID int) (*Report, error) {
	txs, err := s.listTransactionsWithRetry(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	products, err := s.listProductsWithRetry(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	loans, err := s.loans.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Warn("loan read failed, reporting without loans", zap.Int("ownerId", ownerID), zap.Error(err))
		loans = nil
	}

	borrowings, err := s.borrowings.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Warn("borrowing read failed, reporting without borrowings", zap.Int("ownerId", ownerID), zap.Error(err))
		borrowings = nil
	}

	payments, err := s.payments.SumByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Warn("payment read failed, reporting without payments", zap.Int("ownerId", ownerID), zap.Error(err))
		payments = decimal.Zero
	}

	report := Compute(txs, products, loans, borrowings, payments)
	return &report, nil
}

// InventorySnapshot refolds every product's history from scratch. Folding
// the same history twice yields the same snapshot, which is what makes this
// safe to call on demand.
func (s *reportService) InventorySnapshot(ctx context.Context, ownerID int) (map[string]projector.Snapshot, error) {
	txs, err := s.listTransactionsWithRetry(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	products, err := s.listProductsWithRetry(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// Borrowed stock never entered the ledger, so it seeds each fold.
	// A failed read degrades the same way the profitability report does.
	borrowings, err := s.borrowings.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Warn("borrowing read failed, snapshot without borrowed stock", zap.Int("ownerId", ownerID), zap.Error(err))
		borrowings = nil
	}

	baseFor := make(map[int64]projector.Snapshot)
	for _, b := range borrowings {
		base := baseFor[b.ProductID]
		base.Boxes += b.BorrowedBoxes
		base.Sachets += b.BorrowedSachets
		baseFor[b.ProductID] = base
	}

	byProduct := make(map[int64][]domain.Transaction)
	for _, t := range txs {
		if t.ProductID == nil {
			continue
		}
		byProduct[*t.ProductID] = append(byProduct[*t.ProductID], t)
	}

	snapshot := make(map[string]projector.Snapshot, len(products))
	for _, p := range products {
		snapshot[p.Name] = projector.Fold(p, baseFor[p.ID], byProduct[p.ID])
	}

	return snapshot, nil
}

func (s *reportService) AddProgramPayment(ctx context.Context, ownerID int, amount decimal.Decimal, notes string) error {
	return s.payments.Insert(ctx, ownerID, amount, notes)
}

// The load-bearing reads get one retried fresh read before the failure is
// surfaced as recoverable.
func (s *reportService) listTransactionsWithRetry(ctx context.Context, ownerID int) ([]domain.Transaction, error) {
	txs, err := s.transactions.ListByOwner(ctx, ownerID)
	if err == nil {
		return txs, nil
	}
	s.logger.Warn("transaction read failed, retrying", zap.Int("ownerId", ownerID), zap.Error(err))

	txs, err = s.transactions.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("reading transactions", err)
	}
	return txs, nil
}

func (s *reportService) listProductsWithRetry(ctx context.Context, ownerID int) ([]domain.Product, error) {
	products, err := s.products.ListByOwner(ctx, ownerID)
	if err == nil {
		return products, nil
	}
	s.logger.Warn("product read failed, retrying", zap.Int("ownerId", ownerID), zap.Error(err))

	products, err = s.products.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("reading products", err)
	}
	return products, nil
}
