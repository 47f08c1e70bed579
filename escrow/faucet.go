package escrow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/AlexZinkM/escrow-ledger/internal/common"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/model"
)

// Airdrop credits lamports to the wallet of user so it can fund deposits in development setups.
func (s *Service) Airdrop(ctx context.Context, user solana.PublicKey, lamports uint64) (resp *model.FaucetResponse, err error) {
	start := time.Now()
	defer func() { s.observe("airdrop", start, err, zap.Stringer("user", user)) }()

	if user.IsZero() {
		return nil, errs.ErrInvalidIdentity
	}
	if err := refuseCustody(user); err != nil {
		return nil, err
	}
	if err := s.runtime.Airdrop(ctx, user, lamports); err != nil {
		return nil, err
	}

	balance, err := s.runtime.NativeBalance(ctx, user)
	if err != nil {
		return nil, err
	}
	return &model.FaucetResponse{
		User:     user.String(),
		Lamports: strconv.FormatUint(balance, 10),
		SOL:      common.LamportsToSOL(balance),
	}, nil
}

// refuseCustody rejects off-curve addresses. Every custody address is a program
// derived address, so value may only reach one through a deposit.
func refuseCustody(addr solana.PublicKey) error {
	if !addr.IsOnCurve() {
		return fmt.Errorf("%w: %s is off-curve", errs.ErrAccountInUse, addr)
	}
	return nil
}
