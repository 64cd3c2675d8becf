package loan

import (
	"database/sql"

	"go.uber.org/zap"

	"trastienda/internal/config"
	ledgerrepo "trastienda/internal/ledger/repository"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *Controller {
	repo := NewMySQLRepository(db)
	transactions := ledgerrepo.NewMySQLTransactionRepository(db)
	svc := NewService(db, repo, transactions, logger, cfg.Ledger.TxTimeout)
	return NewController(svc, logger)
}
