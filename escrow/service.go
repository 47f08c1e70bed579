// Package escrow implements the custodial escrow operations on top of the runtime.
//
// Each operation runs as one runtime transaction: derive the custody address, touch the balance
// record, move value through the adapter of the escrow kind, and journal the movement. A failure
// at any step leaves no trace.
package escrow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AlexZinkM/escrow-ledger/internal/custody"
	"github.com/AlexZinkM/escrow-ledger/internal/derive"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/issuance"
	"github.com/AlexZinkM/escrow-ledger/internal/ledger"
	"github.com/AlexZinkM/escrow-ledger/internal/metrics"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
	"github.com/AlexZinkM/escrow-ledger/internal/transfer"
)

const (
	currencySOL  = "SOL"
	solDecimals  = 9
	defaultQuote = "usd"
)

// Kind selects the native or the token escrow.
type Kind string

const (
	KindNative Kind = "native"
	KindToken  Kind = "token"
)

// ParseKind accepts "native", "token" or empty (native).
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindNative:
		return KindNative, nil
	case KindToken:
		return KindToken, nil
	default:
		return "", fmt.Errorf("kind must be %s or %s", KindNative, KindToken)
	}
}

// ChainReader reads custody balances from a cluster running the same program.
type ChainReader interface {
	NativeBalance(ctx context.Context, address solana.PublicKey) (uint64, error)
	TokenBalance(ctx context.Context, owner, mint solana.PublicKey) (uint64, error)
}

// RateSource prices SOL in a quote currency.
type RateSource interface {
	GetSOLRate(ctx context.Context, quote string) (decimal.Decimal, error)
}

// Service is the escrow program.
type Service struct {
	runtime   *runtime.Runtime
	deriver   *derive.Deriver
	authority *custody.Authority
	ledger    *ledger.Ledger
	native    *transfer.Native
	issuer    *issuance.Issuer
	chain     ChainReader
	rates     RateSource
	quote     string
	logger    *zap.Logger
}

// Option configures optional collaborators.
type Option func(*Service)

// WithChain enables on-chain comparison in Audit.
func WithChain(chain ChainReader) Option {
	return func(s *Service) { s.chain = chain }
}

// WithRates attaches a valuation in quote to native balances.
func WithRates(rates RateSource, quote string) Option {
	return func(s *Service) {
		s.rates = rates
		if quote != "" {
			s.quote = quote
		}
	}
}

// NewService creates the escrow service for programID over rt.
func NewService(rt *runtime.Runtime, programID solana.PublicKey, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	deriver := derive.NewDeriver(programID)
	authority := custody.NewAuthority(programID)
	s := &Service{
		runtime:   rt,
		deriver:   deriver,
		authority: authority,
		ledger:    ledger.New(programID),
		native:    transfer.NewNative(),
		issuer:    issuance.New(deriver, authority),
		quote:     defaultQuote,
		logger:    logger.With(zap.String("program", programID.String())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProgramID returns the program identity the service derives addresses for.
func (s *Service) ProgramID() solana.PublicKey {
	return s.deriver.ProgramID()
}

// observe records the outcome of operation. Invariant violations are logged at error level.
func (s *Service) observe(operation string, start time.Time, err error, fields ...zap.Field) {
	code := "OK"
	if err != nil {
		code = errs.Code(err)
	}
	metrics.RecordOperation(operation, code, time.Since(start))

	fields = append(fields, zap.String("operation", operation), zap.Duration("duration", time.Since(start)))
	switch {
	case err == nil:
		s.logger.Info("operation committed", fields...)
	case errs.IsFatal(err):
		metrics.RecordInvariantViolation()
		s.logger.Error("operation halted", append(fields, zap.Error(err))...)
	case errors.Is(err, context.Canceled):
		s.logger.Debug("operation cancelled", append(fields, zap.Error(err))...)
	default:
		s.logger.Info("operation rejected", append(fields, zap.String("code", code), zap.Error(err))...)
	}
}
