package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/AlexZinkM/escrow-ledger/escrow"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/model"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
	"github.com/AlexZinkM/escrow-ledger/internal/store"
)

var testProgramID = solana.MustPublicKeyFromBase58("62GKaiorngxb3x15sqHL8SPZEiz2EyxkiRUJVUQcZ9Zf")

type fixture struct {
	h  *EscrowHandler
	rt *runtime.Runtime
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	rt := runtime.New(store.NewMemory(), logger)
	h, err := NewEscrowHandler(escrow.NewService(rt, testProgramID, logger), opts, logger)
	require.NoError(t, err)
	return &fixture{h: h, rt: rt}
}

func newWallet(t *testing.T) solana.PrivateKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key
}

// post sends body as JSON, signed by signer when it is set.
func post(t *testing.T, handler http.HandlerFunc, path string, body any, signer solana.PrivateKey, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	if signer != nil {
		sig, err := signer.Sign(raw)
		require.NoError(t, err)
		req.Header.Set(signatureHeader, sig.String())
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func get(handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestDepositAndWithdraw(t *testing.T) {
	f := newFixture(t, Options{RequireSignatures: true})
	wallet := newWallet(t)
	user := wallet.PublicKey()
	require.NoError(t, f.rt.Airdrop(context.Background(), user, 5000))

	rec := post(t, f.h.Deposit, "/escrow/deposit", model.DepositRequest{User: user.String(), Amount: "1200"}, wallet, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[model.TransferResponse](t, rec)
	assert.Equal(t, "1200", out.Balance)
	assert.Equal(t, "SOL", out.Currency)

	rec = get(f.h.GetBalance, "/escrow/balance?user="+user.String())
	require.Equal(t, http.StatusOK, rec.Code)
	balance := decode[model.BalanceResponse](t, rec)
	assert.Equal(t, "1200", balance.Balance)
	assert.Equal(t, "FUNDED", balance.State)

	rec = post(t, f.h.Withdraw, "/escrow/withdraw", model.WithdrawRequest{User: user.String()}, wallet, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1200", decode[model.TransferResponse](t, rec).Amount)

	rec = post(t, f.h.Withdraw, "/escrow/withdraw", model.WithdrawRequest{User: user.String()}, wallet, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INSUFFICIENT_BALANCE", decode[model.ErrorResponse](t, rec).Code)
}

func TestSignatureChecks(t *testing.T) {
	f := newFixture(t, Options{RequireSignatures: true})
	wallet := newWallet(t)
	user := wallet.PublicKey()
	require.NoError(t, f.rt.Airdrop(context.Background(), user, 5000))
	body := model.DepositRequest{User: user.String(), Amount: "100"}

	tests := []struct {
		name   string
		signer solana.PrivateKey
		header map[string]string
	}{
		{name: "unsigned"},
		{name: "signed by someone else", signer: newWallet(t)},
		{name: "garbage signature", header: map[string]string{signatureHeader: "not-base58!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, f.h.Deposit, "/escrow/deposit", body, tt.signer, tt.header)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, "MISSING_SIGNATURE", decode[model.ErrorResponse](t, rec).Code)
		})
	}

	// Without signature checks the named user is trusted
	open := newFixture(t, Options{})
	require.NoError(t, open.rt.Airdrop(context.Background(), user, 5000))
	rec := post(t, open.h.Deposit, "/escrow/deposit", body, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRequestValidation(t *testing.T) {
	f := newFixture(t, Options{})
	user := newWallet(t).PublicKey().String()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		body    any
		status  int
	}{
		{"bad user", f.h.Deposit, model.DepositRequest{User: "xyz", Amount: "1"}, http.StatusBadRequest},
		{"bad amount", f.h.Deposit, model.DepositRequest{User: user, Amount: "-1"}, http.StatusBadRequest},
		{"zero amount", f.h.Deposit, model.DepositRequest{User: user, Amount: "0"}, http.StatusBadRequest},
		{"unfunded", f.h.Deposit, model.DepositRequest{User: user, Amount: "5"}, http.StatusConflict},
		{"missing mint", f.h.DepositToken, model.DepositRequest{User: user, Amount: "5"}, http.StatusBadRequest},
		{"unknown token class", f.h.WithdrawToken, model.WithdrawRequest{User: user, Mint: user}, http.StatusNotFound},
		{"invalid metadata", f.h.CreateToken, model.CreateTokenRequest{Symbol: "X"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, tt.handler, "/", tt.body, nil, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	rec := httptest.NewRecorder()
	f.h.Deposit(rec, httptest.NewRequest(http.MethodGet, "/escrow/deposit", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = get(f.h.GetBalance, "/escrow/balance?user="+user+"&kind=stock")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(f.h.TransactionHistory, "/escrow/transactions?user="+user+"&from=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenFlow(t *testing.T) {
	f := newFixture(t, Options{RequireSignatures: true, AdminToken: "s3cret"})
	wallet := newWallet(t)
	user := wallet.PublicKey().String()
	admin := map[string]string{adminTokenHeader: "s3cret"}

	rec := get(f.h.TokenClass, "/escrow/token")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	create := model.CreateTokenRequest{Name: "Escrow Gold", Symbol: "EGLD", URI: "https://example.org/egld.json", Decimals: 2}
	rec = post(t, f.h.CreateToken, "/escrow/token/create", create, nil, map[string]string{adminTokenHeader: "wrong"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = post(t, f.h.CreateToken, "/escrow/token/create", create, nil, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	class := decode[model.TokenClassResponse](t, rec)
	assert.Equal(t, "EGLD", class.Symbol)

	rec = post(t, f.h.CreateToken, "/escrow/token/create", create, nil, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	mint := model.MintRequest{Mint: class.Mint, Amount: "300", Destination: user}
	rec = post(t, f.h.MintToken, "/escrow/token/mint", mint, nil, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	minted := decode[model.MintResponse](t, rec)
	assert.Equal(t, "300", minted.Supply)
	assert.Equal(t, "300", minted.Held)

	rec = post(t, f.h.DepositToken, "/escrow/token/deposit", model.DepositRequest{User: user, Mint: class.Mint, Amount: "120"}, wallet, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "EGLD", decode[model.TransferResponse](t, rec).Currency)

	rec = get(f.h.GetAddress, "/escrow/address?kind=token&user="+user)
	require.Equal(t, http.StatusOK, rec.Code)
	address := decode[model.AddressResponse](t, rec)
	assert.NotEmpty(t, address.TokenAccount)
	assert.NotEmpty(t, address.QRCode)

	rec = post(t, f.h.WithdrawToken, "/escrow/token/withdraw", model.WithdrawRequest{User: user, Mint: class.Mint}, wallet, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "120", decode[model.TransferResponse](t, rec).Amount)

	rec = get(f.h.TransactionHistory, "/escrow/transactions?currency=EGLD&user="+user)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[model.LogResponse](t, rec)
	assert.Len(t, history.Transactions, 3)
	assert.Equal(t, "3", history.Totals["EGLD"].Minted)

	rec = get(f.h.Audit, "/escrow/audit?user="+user)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, entry := range decode[model.AuditResponse](t, rec).Entries {
		assert.True(t, entry.Consistent)
	}
}

func TestFaucet(t *testing.T) {
	user := newWallet(t).PublicKey().String()
	req := model.FaucetRequest{User: user, Amount: "1000000000"}

	disabled := newFixture(t, Options{})
	rec := post(t, disabled.h.Faucet, "/escrow/faucet", req, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	enabled := newFixture(t, Options{FaucetEnabled: true})
	rec = post(t, enabled.h.Faucet, "/escrow/faucet", req, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1.000000000", decode[model.FaucetResponse](t, rec).SOL)

	rec = post(t, enabled.h.Faucet, "/escrow/faucet", model.FaucetRequest{User: user, SOL: "0.5"}, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1500000000", decode[model.FaucetResponse](t, rec).Lamports)

	rec = get(enabled.h.GetAddress, "/escrow/address?user="+user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	custody := decode[model.AddressResponse](t, rec).Custody
	rec = post(t, enabled.h.Faucet, "/escrow/faucet", model.FaucetRequest{User: custody, Amount: "1"}, nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ACCOUNT_IN_USE", decode[model.ErrorResponse](t, rec).Code)
}

func TestStatusFor(t *testing.T) {
	tests := map[error]int{
		errs.ErrInsufficientBalance: http.StatusConflict,
		errs.ErrInsufficientFunds:   http.StatusConflict,
		errs.ErrArithmeticOverflow:  http.StatusUnprocessableEntity,
		errs.ErrAuthorityMismatch:   http.StatusForbidden,
		errs.ErrMissingSignature:    http.StatusForbidden,
		errs.ErrDerivationDrift:     http.StatusInternalServerError,
		errs.ErrAlreadyExists:       http.StatusConflict,
		errs.ErrInvalidAmount:       http.StatusBadRequest,
		errs.ErrUnknownTokenClass:   http.StatusNotFound,
	}
	for err, status := range tests {
		assert.Equal(t, status, statusFor(err), err.Error())
	}
}
