package borrowing

import (
	"database/sql"

	"go.uber.org/zap"

	"trastienda/internal/catalog"
	"trastienda/internal/config"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *Controller {
	repo := NewMySQLRepository(db)
	productRepo := catalog.NewMySQLRepository(db)
	catalogSvc := catalog.NewService(productRepo)
	svc := NewService(db, repo, catalogSvc, productRepo, logger, cfg.Ledger.TxTimeout)
	return NewController(svc, logger)
}
