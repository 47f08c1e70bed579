package escrow

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/skip2/go-qrcode"

	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/model"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
	"github.com/AlexZinkM/escrow-ledger/internal/transfer"
)

// CustodyAddress derives the custody address of user for kind, with a QR code of it.
// Nothing is written: the address is reproducible by anyone who knows the program id.
func (s *Service) CustodyAddress(ctx context.Context, user solana.PublicKey, kind Kind) (*model.AddressResponse, error) {
	vault, index, err := s.deriver.Derive(kind.purpose(), user)
	if err != nil {
		return nil, err
	}

	resp := &model.AddressResponse{
		User:       user.String(),
		Kind:       string(kind),
		Custody:    vault.String(),
		ProofIndex: index,
	}

	// Token custody receives into its token account once the token class exists
	if kind == KindToken {
		mint, _, err := s.issuer.MintAddress()
		if err != nil {
			return nil, err
		}
		err = s.runtime.View(ctx, func(tx *runtime.Tx) error {
			_, err := s.issuer.LoadTokenClass(tx, mint)
			return err
		})
		switch {
		case errors.Is(err, errs.ErrUnknownTokenClass):
		case err != nil:
			return nil, err
		default:
			ata, err := transfer.TokenAddress(vault, mint)
			if err != nil {
				return nil, err
			}
			resp.TokenAccount = ata.String()
		}
	}

	// Generate QR code
	qrCode, err := generateQRCode(vault.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	resp.QRCode = qrCode

	return resp, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	// Get PNG image
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	// Encode to base64
	return base64.StdEncoding.EncodeToString(png), nil
}
