package report

import (
	"database/sql"

	"go.uber.org/zap"

	"trastienda/internal/borrowing"
	"trastienda/internal/catalog"
	ledgerrepo "trastienda/internal/ledger/repository"
	"trastienda/internal/loan"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	svc := NewService(
		ledgerrepo.NewMySQLTransactionRepository(db),
		catalog.NewMySQLRepository(db),
		loan.NewMySQLRepository(db),
		borrowing.NewMySQLRepository(db),
		NewMySQLPaymentRepository(db),
		logger,
	)
	return NewController(svc, logger)
}
