// escrowd serves the escrow ledger over HTTP.
// Usage: PROGRAM_ID=<base58> go run ./cmd/escrowd
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/AlexZinkM/escrow-ledger/docs"
	"github.com/AlexZinkM/escrow-ledger/escrow"
	"github.com/AlexZinkM/escrow-ledger/internal/api"
	"github.com/AlexZinkM/escrow-ledger/internal/client"
	"github.com/AlexZinkM/escrow-ledger/internal/config"
	"github.com/AlexZinkM/escrow-ledger/internal/handler"
	"github.com/AlexZinkM/escrow-ledger/internal/logging"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
	"github.com/AlexZinkM/escrow-ledger/internal/store"
)

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Get()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("escrowd stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var opts []escrow.Option
	if rpcURL := config.GetSolanaRPCURL(); rpcURL != "" {
		chain, err := client.NewSolanaClient(rpcURL)
		if err != nil {
			return err
		}
		opts = append(opts, escrow.WithChain(chain))
	}
	if cfg.PriceAPIURL != "" {
		opts = append(opts, escrow.WithRates(client.NewCoinGeckoClient(cfg.PriceAPIURL), cfg.QuoteCurrency))
	}

	svc := escrow.NewService(runtime.New(st, logger), config.GetProgramID(), logger, opts...)
	escrowHandler, err := handler.NewEscrowHandler(svc, handler.Options{
		RequireSignatures: cfg.RequireSignatures,
		AdminToken:        cfg.AdminToken,
		FaucetEnabled:     cfg.FaucetEnabled,
	}, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           api.SetupRouter(escrowHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("backend", cfg.LedgerBackend),
			zap.Stringer("program", svc.ProgramID()),
			zap.Bool("faucet", cfg.FaucetEnabled),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.LedgerBackend {
	case config.BackendRedis:
		return store.NewRedis(ctx, store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case config.BackendFile:
		// Prompt for snapshot password at startup (hidden input, stored in memory only)
		if err := config.PromptForPassword(); err != nil {
			return nil, err
		}
		password, err := config.GetSnapshotPasswordBytes()
		if err != nil {
			return nil, err
		}
		defer clear(password)
		return store.OpenFile(cfg.SnapshotPath, config.GetProgramID(), password)
	default:
		return store.NewMemory(), nil
	}
}
