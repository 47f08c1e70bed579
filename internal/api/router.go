package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/AlexZinkM/escrow-ledger/internal/handler"
	"github.com/AlexZinkM/escrow-ledger/internal/metrics"
)

// SetupRouter sets up router with handlers
func SetupRouter(escrowHandler *handler.EscrowHandler) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Prometheus
	mux.Handle("/metrics", metrics.Handler())

	// Escrow endpoints
	mux.HandleFunc("/escrow/deposit", escrowHandler.Deposit)
	mux.HandleFunc("/escrow/withdraw", escrowHandler.Withdraw)
	mux.HandleFunc("/escrow/balance", escrowHandler.GetBalance)
	mux.HandleFunc("/escrow/address", escrowHandler.GetAddress)
	mux.HandleFunc("/escrow/transactions", escrowHandler.TransactionHistory)
	mux.HandleFunc("/escrow/audit", escrowHandler.Audit)
	mux.HandleFunc("/escrow/faucet", escrowHandler.Faucet)

	// Token endpoints
	mux.HandleFunc("/escrow/token", escrowHandler.TokenClass)
	mux.HandleFunc("/escrow/token/create", escrowHandler.CreateToken)
	mux.HandleFunc("/escrow/token/mint", escrowHandler.MintToken)
	mux.HandleFunc("/escrow/token/deposit", escrowHandler.DepositToken)
	mux.HandleFunc("/escrow/token/withdraw", escrowHandler.WithdrawToken)

	return metrics.InstrumentHandler(mux)
}
