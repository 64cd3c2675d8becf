package ledger

import (
	"database/sql"

	"go.uber.org/zap"

	"trastienda/internal/borrowing"
	"trastienda/internal/catalog"
	"trastienda/internal/config"
	"trastienda/internal/ledger/controller"
	"trastienda/internal/ledger/repository"
	"trastienda/internal/ledger/service"
	"trastienda/internal/ledger/usecase"
	"trastienda/internal/loan"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.LedgerController {
	productRepo := catalog.NewMySQLRepository(db)
	catalogSvc := catalog.NewService(productRepo)
	transactionRepo := repository.NewMySQLTransactionRepository(db)
	loanRepo := loan.NewMySQLRepository(db)
	borrowingRepo := borrowing.NewMySQLRepository(db)

	ledgerSvc := service.NewLedgerService(
		db,
		productRepo,
		transactionRepo,
		loanRepo,
		borrowingRepo,
		logger,
		cfg.Ledger.TxTimeout,
	)

	uc := usecase.NewLedgerUseCase(
		catalogSvc,
		ledgerSvc,
		transactionRepo,
		logger,
		cfg.Ledger.MaxRetryAttempts,
	)

	return controller.NewLedgerController(uc, logger)
}
