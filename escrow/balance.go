package escrow

import (
	"context"
	"errors"
	"math/big"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AlexZinkM/escrow-ledger/internal/common"
	"github.com/AlexZinkM/escrow-ledger/internal/derive"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/ledger"
	"github.com/AlexZinkM/escrow-ledger/internal/model"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
)

func (k Kind) purpose() derive.Purpose {
	if k == KindToken {
		return derive.PurposeTokenEscrow
	}
	return derive.PurposeNativeEscrow
}

// Balance gets the balance owed to user in the escrow of kind
func (s *Service) Balance(ctx context.Context, user solana.PublicKey, kind Kind) (*model.BalanceResponse, error) {
	vault, _, err := s.deriver.Derive(kind.purpose(), user)
	if err != nil {
		return nil, err
	}

	var (
		balance  uint64
		state    = ledger.Uninitialized
		currency = currencySOL
		decimals = uint8(solDecimals)
	)
	err = s.runtime.View(ctx, func(tx *runtime.Tx) error {
		if kind == KindToken {
			mint, _, err := s.issuer.MintAddress()
			if err != nil {
				return err
			}
			a, err := s.tokenAsset(tx, mint)
			switch {
			case errors.Is(err, errs.ErrUnknownTokenClass):
				currency, decimals = "", 0
			case err != nil:
				return err
			default:
				currency, decimals = a.currency, a.decimals
			}
		}

		var err error
		if state, err = s.ledger.StateOf(tx, vault); err != nil || state == ledger.Uninitialized {
			return err
		}
		rec, err := s.ledger.Load(tx, vault)
		if err != nil {
			return err
		}
		balance = rec.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &model.BalanceResponse{
		User:     user.String(),
		Kind:     string(kind),
		Custody:  vault.String(),
		State:    state.String(),
		Balance:  strconv.FormatUint(balance, 10),
		Display:  common.FormatAmount(balance, int(decimals)),
		Currency: currency,
		Decimals: decimals,
	}

	// Price the native balance when a rate source is configured; a failed lookup only drops the valuation
	if kind == KindNative && s.rates != nil {
		rate, err := s.rates.GetSOLRate(ctx, s.quote)
		if err != nil {
			s.logger.Warn("failed to get rate", zap.Error(err))
			return resp, nil
		}
		value := decimal.NewFromBigInt(new(big.Int).SetUint64(balance), -int32(decimals)).Mul(rate)
		resp.Rate = rate.String()
		resp.Value = value.StringFixed(2)
		resp.Quote = s.quote
	}

	return resp, nil
}
