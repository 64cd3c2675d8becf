package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"trastienda/internal/borrowing"
	"trastienda/internal/catalog"
	ledgerctrl "trastienda/internal/ledger/controller"
	"trastienda/internal/loan"
	"trastienda/internal/report"
)

func NewRouter(
	ledgerCtrl *ledgerctrl.LedgerController,
	catalogCtrl *catalog.Controller,
	loanCtrl *loan.Controller,
	borrowingCtrl *borrowing.Controller,
	reportCtrl *report.Controller,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/owners/{ownerId}", func(r chi.Router) {
		r.Post("/transactions", ledgerCtrl.HandleRecord)
		r.Get("/transactions", ledgerCtrl.HandleList)
		r.Delete("/transactions/{transactionId}", ledgerCtrl.HandleDelete)
		r.Patch("/transactions/{transactionId}/amount", ledgerCtrl.HandleAmendAmount)

		r.Get("/products", catalogCtrl.HandleList)
		r.Delete("/products/{productId}", catalogCtrl.HandleDelete)

		r.Get("/loans", loanCtrl.HandleList)
		r.Post("/loans/repay", loanCtrl.HandleRepay)

		r.Get("/borrowings", borrowingCtrl.HandleList)
		r.Post("/borrowings", borrowingCtrl.HandleReceive)
		r.Post("/borrowings/{borrowingId}/returns", borrowingCtrl.HandleReturn)

		r.Get("/report", reportCtrl.HandleReport)
		r.Get("/inventory", reportCtrl.HandleInventory)
		r.Post("/payments", reportCtrl.HandleAddPayment)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
