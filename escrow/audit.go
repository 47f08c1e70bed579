package escrow

import (
	"context"
	"errors"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/model"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
	"github.com/AlexZinkM/escrow-ledger/internal/transfer"
)

// Audit compares, for each escrow kind of user, the recorded balance with the value the custody
// address actually holds. With a chain reader configured the on-chain holding is reported too.
func (s *Service) Audit(ctx context.Context, user solana.PublicKey) (*model.AuditResponse, error) {
	resp := &model.AuditResponse{User: user.String()}

	mint, _, err := s.issuer.MintAddress()
	if err != nil {
		return nil, err
	}

	for _, kind := range []Kind{KindNative, KindToken} {
		vault, _, err := s.deriver.Derive(kind.purpose(), user)
		if err != nil {
			return nil, err
		}

		var recorded, held uint64
		err = s.runtime.View(ctx, func(tx *runtime.Tx) error {
			rec, err := s.ledger.Load(tx, vault)
			switch {
			case errors.Is(err, errs.ErrRecordNotFound):
			case err != nil:
				return err
			default:
				recorded = rec.Balance
			}

			var adapter transfer.Adapter = s.native
			if kind == KindToken {
				adapter = transfer.NewToken(mint)
			}
			held, err = adapter.Held(tx, vault)
			return err
		})
		if err != nil {
			return nil, err
		}

		entry := model.AuditEntry{
			Kind:       string(kind),
			Custody:    vault.String(),
			Recorded:   strconv.FormatUint(recorded, 10),
			Held:       strconv.FormatUint(held, 10),
			Consistent: recorded == held,
		}
		if !entry.Consistent {
			s.logger.Error("custody holding differs from recorded balance",
				zap.String("kind", string(kind)),
				zap.Stringer("custody", vault),
				zap.Uint64("recorded", recorded),
				zap.Uint64("held", held),
			)
		}

		if s.chain != nil {
			var onChain uint64
			var err error
			if kind == KindToken {
				onChain, err = s.chain.TokenBalance(ctx, vault, mint)
			} else {
				onChain, err = s.chain.NativeBalance(ctx, vault)
			}
			if err != nil {
				entry.ChainError = err.Error()
			} else {
				v := strconv.FormatUint(onChain, 10)
				entry.ChainHeld = &v
			}
		}

		resp.Entries = append(resp.Entries, entry)
	}

	return resp, nil
}
