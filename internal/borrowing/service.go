package borrowing

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"trastienda/internal/catalog"
	"trastienda/internal/domain"
	"trastienda/internal/errors"
	"trastienda/internal/projector"
)

type borrowingService struct {
	db        TransactionManager
	repo      Repository
	catalog   catalog.Service
	products  ProductStore
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewService(
	db TransactionManager,
	repo Repository,
	catalogSvc catalog.Service,
	products ProductStore,
	logger *zap.Logger,
	txTimeout time.Duration,
) Service {
	return &borrowingService{
		db:        db,
		repo:      repo,
		catalog:   catalogSvc,
		products:  products,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

func (s *borrowingService) Receive(ctx context.Context, ownerID int, req ReceiveRequest) (*domain.Borrowing, error) {
	if strings.TrimSpace(req.PartnerName) == "" {
		return nil, errors.NewValidationError("partner name is required", errors.ValidationDetail{
			Field:   "partnerName",
			Message: "partnerName must not be blank",
		})
	}
	if req.QuantityBoxes < 0 || req.QuantitySachets < 0 {
		return nil, errors.NewValidationError("quantities must not be negative", errors.ValidationDetail{
			Field:   "quantityBoxes",
			Message: "quantityBoxes and quantitySachets must be >= 0",
		})
	}
	if req.QuantityBoxes == 0 && req.QuantitySachets == 0 {
		return nil, errors.NewValidationError("borrowing must not be empty", errors.ValidationDetail{
			Field:   "quantityBoxes",
			Message: "at least one of quantityBoxes or quantitySachets must be positive",
		})
	}

	product, err := s.catalog.GetOrCreate(ctx, ownerID, req.Product, catalog.Defaults{ListPrice: req.ListPrice})
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.products.FindByIDForUpdate(txCtx, tx, product.ID, ownerID); err != nil {
		return nil, err
	}

	b := domain.Borrowing{
		OwnerID:         ownerID,
		ProductID:       product.ID,
		PartnerName:     strings.TrimSpace(req.PartnerName),
		PartnerPhone:    req.PartnerPhone,
		BorrowedBoxes:   req.QuantityBoxes,
		BorrowedSachets: req.QuantitySachets,
		DueDate:         req.DueDate,
	}

	id, err := s.repo.Insert(txCtx, tx, b)
	if err != nil {
		return nil, err
	}
	b.ID = id

	// Received stock is usable immediately.
	eff := projector.Effect{
		BoxesDelta:   req.QuantityBoxes,
		SachetsDelta: req.QuantitySachets,
	}
	if err := s.products.ApplyEffect(txCtx, tx, product.ID, eff); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing borrowing: %w", err)
	}

	s.logger.Info("borrowing received",
		zap.Int64("borrowingId", b.ID),
		zap.Int64("productId", product.ID),
		zap.String("partner", b.PartnerName),
		zap.Int("boxes", b.BorrowedBoxes),
		zap.Int("sachets", b.BorrowedSachets),
	)

	return &b, nil
}

func (s *borrowingService) ReturnPortion(ctx context.Context, ownerID int, borrowingID int64, boxes, sachets int) (*domain.Borrowing, error) {
	if boxes < 0 || sachets < 0 {
		return nil, errors.NewValidationError("quantities must not be negative", errors.ValidationDetail{
			Field:   "quantityBoxes",
			Message: "quantityBoxes and quantitySachets must be >= 0",
		})
	}
	if boxes == 0 && sachets == 0 {
		return nil, errors.NewValidationError("return must not be empty", errors.ValidationDetail{
			Field:   "quantityBoxes",
			Message: "at least one of quantityBoxes or quantitySachets must be positive",
		})
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	b, err := s.repo.FindByIDForUpdate(txCtx, tx, borrowingID, ownerID)
	if err != nil {
		return nil, err
	}

	if boxes > b.PendingBoxes() || sachets > b.PendingSachets() {
		return nil, errors.NewExceedsPendingError(
			fmt.Sprintf("return exceeds pending quantity (%d boxes, %d sachets)", b.PendingBoxes(), b.PendingSachets()),
			b.PendingBoxes(), b.PendingSachets(),
		)
	}

	b.ReturnedBoxes += boxes
	b.ReturnedSachets += sachets
	if b.Status() == domain.BorrowingStatusReturned && b.ReturnedAt == nil {
		now := time.Now().UTC()
		b.ReturnedAt = &now
	}

	if err := s.repo.UpdateReturned(txCtx, tx, *b); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing borrowing return: %w", err)
	}

	s.logger.Info("borrowing portion returned",
		zap.Int64("borrowingId", b.ID),
		zap.Int("boxes", boxes),
		zap.Int("sachets", sachets),
		zap.String("status", b.Status()),
	)

	return b, nil
}

func (s *borrowingService) ListByOwner(ctx context.Context, ownerID int) ([]domain.Borrowing, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}
