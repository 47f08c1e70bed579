package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/AlexZinkM/escrow-ledger/escrow"
	"github.com/AlexZinkM/escrow-ledger/internal/common"
	"github.com/AlexZinkM/escrow-ledger/internal/derive"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/issuance"
	"github.com/AlexZinkM/escrow-ledger/internal/model"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
)

const (
	signatureHeader  = "X-Signature"
	adminTokenHeader = "X-Admin-Token"
	maxBodyBytes     = 1 << 20
)

// Options holds the request policy of EscrowHandler
type Options struct {
	RequireSignatures bool
	AdminToken        string
	FaucetEnabled     bool
}

// EscrowHandler serves the escrow program over HTTP
type EscrowHandler struct {
	svc    *escrow.Service
	opts   Options
	logger *zap.Logger
}

// NewEscrowHandler creates a new EscrowHandler
func NewEscrowHandler(svc *escrow.Service, opts Options, logger *zap.Logger) (*EscrowHandler, error) {
	if svc == nil {
		return nil, errors.New("escrow service not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EscrowHandler{svc: svc, opts: opts, logger: logger}, nil
}

// Deposit handles POST /escrow/deposit
// @Summary      Deposit SOL into escrow
// @Description  Moves lamports from the signing user into the user's native custody address
// @Tags         escrow
// @Accept       json
// @Produce      json
// @Param        X-Signature  header    string                true  "base58 signature of the body by user"
// @Param        request      body      model.DepositRequest  true  "Deposit data"
// @Success      200          {object}  model.TransferResponse
// @Failure      400,403,409,422  {object}  model.ErrorResponse
// @Router       /escrow/deposit [post]
func (h *EscrowHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.DepositRequest
	ctx, user, ok := h.signedRequest(w, r, &req, func() string { return req.User })
	if !ok {
		return
	}
	amount, err := common.ParseUnits(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out, err := h.svc.Deposit(ctx, user, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transferResponse(out))
}

// Withdraw handles POST /escrow/withdraw
// @Summary      Withdraw all SOL from escrow
// @Description  Returns the whole native escrow balance of user to the user's wallet
// @Tags         escrow
// @Accept       json
// @Produce      json
// @Param        X-Signature  header    string                 true  "base58 signature of the body by user"
// @Param        request      body      model.WithdrawRequest  true  "Withdraw data"
// @Success      200          {object}  model.TransferResponse
// @Failure      400,403,409,500  {object}  model.ErrorResponse
// @Router       /escrow/withdraw [post]
func (h *EscrowHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.WithdrawRequest
	ctx, user, ok := h.signedRequest(w, r, &req, func() string { return req.User })
	if !ok {
		return
	}

	out, err := h.svc.Withdraw(ctx, user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transferResponse(out))
}

// DepositToken handles POST /escrow/token/deposit
// @Summary      Deposit tokens into escrow
// @Description  Moves units of the system token class from the signing user into the user's token custody
// @Tags         escrow
// @Accept       json
// @Produce      json
// @Param        X-Signature  header    string                true  "base58 signature of the body by user"
// @Param        request      body      model.DepositRequest  true  "Deposit data"
// @Success      200          {object}  model.TransferResponse
// @Failure      400,403,404,409,422  {object}  model.ErrorResponse
// @Router       /escrow/token/deposit [post]
func (h *EscrowHandler) DepositToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.DepositRequest
	ctx, user, ok := h.signedRequest(w, r, &req, func() string { return req.User })
	if !ok {
		return
	}
	mint, err := parseMint(req.Mint)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	amount, err := common.ParseUnits(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out, err := h.svc.DepositToken(ctx, user, mint, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transferResponse(out))
}

// WithdrawToken handles POST /escrow/token/withdraw
// @Summary      Withdraw all tokens from escrow
// @Description  Returns the whole token escrow balance of user to the user's token account
// @Tags         escrow
// @Accept       json
// @Produce      json
// @Param        X-Signature  header    string                 true  "base58 signature of the body by user"
// @Param        request      body      model.WithdrawRequest  true  "Withdraw data"
// @Success      200          {object}  model.TransferResponse
// @Failure      400,403,404,409,500  {object}  model.ErrorResponse
// @Router       /escrow/token/withdraw [post]
func (h *EscrowHandler) WithdrawToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.WithdrawRequest
	ctx, user, ok := h.signedRequest(w, r, &req, func() string { return req.User })
	if !ok {
		return
	}
	mint, err := parseMint(req.Mint)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out, err := h.svc.WithdrawToken(ctx, user, mint)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transferResponse(out))
}

// CreateToken handles POST /escrow/token/create
// @Summary      Create the token class
// @Description  Creates the system token class with its metadata. Succeeds once.
// @Tags         token
// @Accept       json
// @Produce      json
// @Param        X-Admin-Token  header    string                    false  "admin token"
// @Param        request        body      model.CreateTokenRequest  true   "Token metadata"
// @Success      200            {object}  model.TokenClassResponse
// @Failure      400,403,409    {object}  model.ErrorResponse
// @Router       /escrow/token/create [post]
func (h *EscrowHandler) CreateToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}
	if !h.checkAdmin(w, r) {
		return
	}

	var req model.CreateTokenRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	class, err := h.svc.CreateTokenClass(r.Context(), issuance.Metadata{
		Name:     req.Name,
		Symbol:   req.Symbol,
		URI:      req.URI,
		Decimals: req.Decimals,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenClassResponse(class))
}

// TokenClass handles GET /escrow/token
// @Summary      Get the token class
// @Tags         token
// @Produce      json
// @Success      200  {object}  model.TokenClassResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /escrow/token [get]
func (h *EscrowHandler) TokenClass(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	class, err := h.svc.TokenClass(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenClassResponse(class))
}

// MintToken handles POST /escrow/token/mint
// @Summary      Mint tokens
// @Description  Mints new units of the system token class to a destination wallet. Custody addresses are refused.
// @Tags         token
// @Accept       json
// @Produce      json
// @Param        X-Admin-Token  header    string             false  "admin token"
// @Param        request        body      model.MintRequest  true   "Mint data"
// @Success      200            {object}  model.MintResponse
// @Failure      400,403,404,409,422  {object}  model.ErrorResponse
// @Router       /escrow/token/mint [post]
func (h *EscrowHandler) MintToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}
	if !h.checkAdmin(w, r) {
		return
	}

	var req model.MintRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mint, err := parseMint(req.Mint)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	destination, err := derive.ParseIdentity(req.Destination)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	amount, err := common.ParseUnits(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.svc.MintToken(r.Context(), mint, amount, destination)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	held, err := h.svc.TokenHoldings(r.Context(), res.Destination, res.Class.Mint)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MintResponse{
		Mint:         res.Class.Mint.String(),
		Destination:  res.Destination.String(),
		TokenAccount: res.TokenAccount.String(),
		Amount:       strconv.FormatUint(res.Amount, 10),
		Held:         strconv.FormatUint(held, 10),
		Supply:       strconv.FormatUint(res.Class.Supply, 10),
	})
}

// GetBalance handles GET /escrow/balance
// @Summary      Get escrow balance
// @Description  Gets the balance owed to user, with a valuation of native balances when a price source is configured
// @Tags         escrow
// @Produce      json
// @Param        user  query     string  true   "User identity (base58)"
// @Param        kind  query     string  false  "native (default) or token"
// @Success      200   {object}  model.BalanceResponse
// @Failure      400   {object}  model.ErrorResponse
// @Router       /escrow/balance [get]
func (h *EscrowHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	user, kind, ok := userAndKind(w, r)
	if !ok {
		return
	}
	balance, err := h.svc.Balance(r.Context(), user, kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// GetAddress handles GET /escrow/address
// @Summary      Get custody address
// @Description  Derives the custody address of user with a QR code of it
// @Tags         escrow
// @Produce      json
// @Param        user  query     string  true   "User identity (base58)"
// @Param        kind  query     string  false  "native (default) or token"
// @Success      200   {object}  model.AddressResponse
// @Failure      400   {object}  model.ErrorResponse
// @Router       /escrow/address [get]
func (h *EscrowHandler) GetAddress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	user, kind, ok := userAndKind(w, r)
	if !ok {
		return
	}
	address, err := h.svc.CustodyAddress(r.Context(), user, kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, address)
}

// TransactionHistory handles GET /escrow/transactions
// @Summary      Get escrow transactions
// @Description  Gets the journal of user with filtering capability, newest first
// @Tags         escrow
// @Produce      json
// @Param        user       query     string   true   "User identity (base58)"
// @Param        type       query     string   false  "Transaction type: DEPOSIT, WITHDRAW or MINT"
// @Param        txId       query     string   false  "Transaction ID"
// @Param        from       query     string   false  "Start date (YYYY-MM-DD)"
// @Param        to         query     string   false  "End date (YYYY-MM-DD)"
// @Param        minAmount  query     string   false  "Minimum amount"
// @Param        maxAmount  query     string   false  "Maximum amount"
// @Param        currency   query     string   false  "Filter by currency: SOL or the token symbol"
// @Success      200  {object}  model.LogResponse
// @Failure      400  {object}  model.ErrorResponse
// @Router       /escrow/transactions [get]
func (h *EscrowHandler) TransactionHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	user, err := derive.ParseIdentity(r.URL.Query().Get("user"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req model.LogRequest

	// Parse date parameters (YYYY-MM-DD)
	const dateLayout = "2006-01-02"
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid from date: use YYYY-MM-DD (e.g. 2006-01-02)"))
			return
		}
		req.From = &t
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid to date: use YYYY-MM-DD (e.g. 2006-01-02)"))
			return
		}
		// End of day so filter is inclusive
		t = t.Add(24*time.Hour - time.Nanosecond)
		req.To = &t
	}

	// Parse transaction type
	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		txType := model.TransactionType(typeStr)
		req.Type = &txType
	}

	// Parse txId
	if txID := r.URL.Query().Get("txId"); txID != "" {
		req.TxID = &txID
	}

	// Parse amounts
	if minAmount := r.URL.Query().Get("minAmount"); minAmount != "" {
		req.MinAmount = &minAmount
	}
	if maxAmount := r.URL.Query().Get("maxAmount"); maxAmount != "" {
		req.MaxAmount = &maxAmount
	}

	// Parse currency
	if currency := r.URL.Query().Get("currency"); currency != "" {
		req.Currency = &currency
	}

	// Validate
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	logResp, err := h.svc.GetTransactions(r.Context(), user, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logResp)
}

// Audit handles GET /escrow/audit
// @Summary      Audit custody holdings
// @Description  Compares recorded balances of user with what the custody addresses hold
// @Tags         escrow
// @Produce      json
// @Param        user  query     string  true  "User identity (base58)"
// @Success      200   {object}  model.AuditResponse
// @Failure      400   {object}  model.ErrorResponse
// @Router       /escrow/audit [get]
func (h *EscrowHandler) Audit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	user, err := derive.ParseIdentity(r.URL.Query().Get("user"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	audit, err := h.svc.Audit(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, audit)
}

// Faucet handles POST /escrow/faucet
// @Summary      Airdrop SOL
// @Description  Credits lamports to a wallet. Only available when the faucet is enabled. Custody addresses are refused.
// @Tags         dev
// @Accept       json
// @Produce      json
// @Param        request  body      model.FaucetRequest  true  "Airdrop data, amount in lamports or sol"
// @Success      200      {object}  model.FaucetResponse
// @Failure      400,404,409  {object}  model.ErrorResponse
// @Router       /escrow/faucet [post]
func (h *EscrowHandler) Faucet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}
	if !h.opts.FaucetEnabled {
		writeError(w, http.StatusNotFound, errors.New("faucet is disabled"))
		return
	}

	var req model.FaucetRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user, err := derive.ParseIdentity(req.User)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var lamports uint64
	if req.Amount == "" && req.SOL != "" {
		lamports, err = common.SOLToLamports(req.SOL)
	} else {
		lamports, err = common.ParseUnits(req.Amount)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.svc.Airdrop(r.Context(), user, lamports)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// signedRequest decodes the body into req and authenticates the user it names.
// The X-Signature header must hold the user's base58 signature of the raw body.
func (h *EscrowHandler) signedRequest(w http.ResponseWriter, r *http.Request, req any, userOf func() string) (ctx context.Context, user solana.PublicKey, ok bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, user, false
	}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, user, false
	}
	user, err = derive.ParseIdentity(userOf())
	if err != nil {
		writeServiceError(w, err)
		return nil, user, false
	}

	if h.opts.RequireSignatures {
		raw := r.Header.Get(signatureHeader)
		if raw == "" {
			writeServiceError(w, fmt.Errorf("%w: %s header not set", errs.ErrMissingSignature, signatureHeader))
			return nil, user, false
		}
		sig, err := solana.SignatureFromBase58(raw)
		if err != nil || !sig.Verify(user, body) {
			h.logger.Warn("rejected request signature", zap.Stringer("user", user), zap.String("path", r.URL.Path))
			writeServiceError(w, fmt.Errorf("%w: signature does not verify for %s", errs.ErrMissingSignature, user))
			return nil, user, false
		}
	}

	return runtime.WithSigners(r.Context(), user), user, true
}

func (h *EscrowHandler) checkAdmin(w http.ResponseWriter, r *http.Request) bool {
	if h.opts.AdminToken == "" {
		return true
	}
	token := r.Header.Get(adminTokenHeader)
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.opts.AdminToken)) != 1 {
		writeError(w, http.StatusForbidden, errors.New("invalid admin token"))
		return false
	}
	return true
}

func userAndKind(w http.ResponseWriter, r *http.Request) (solana.PublicKey, escrow.Kind, bool) {
	user, err := derive.ParseIdentity(r.URL.Query().Get("user"))
	if err != nil {
		writeServiceError(w, err)
		return user, "", false
	}
	kind, err := escrow.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return user, "", false
	}
	return user, kind, true
}

func parseMint(s string) (solana.PublicKey, error) {
	if s == "" {
		return solana.PublicKey{}, errors.New("mint not set")
	}
	mint, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid mint: %w", err)
	}
	return mint, nil
}

func transferResponse(out *escrow.Transfer) model.TransferResponse {
	return model.TransferResponse{
		User:     out.User.String(),
		Custody:  out.Custody.String(),
		Amount:   strconv.FormatUint(out.Amount, 10),
		Balance:  strconv.FormatUint(out.Balance, 10),
		Currency: out.Currency,
		Decimals: out.Decimals,
	}
}

func tokenClassResponse(class *issuance.TokenClass) model.TokenClassResponse {
	return model.TokenClassResponse{
		Mint:     class.Mint.String(),
		Metadata: class.Metadata.String(),
		Name:     class.Name,
		Symbol:   class.Symbol,
		URI:      class.URI,
		Decimals: class.Decimals,
		Supply:   strconv.FormatUint(class.Supply, 10),
	}
}

// statusFor maps the error taxonomy onto HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrInsufficientBalance),
		errors.Is(err, errs.ErrInsufficientFunds),
		errors.Is(err, errs.ErrAlreadyExists),
		errors.Is(err, errs.ErrAccountInUse):
		return http.StatusConflict
	case errors.Is(err, errs.ErrArithmeticOverflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrAuthorityMismatch),
		errors.Is(err, errs.ErrMissingSignature):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrUnknownTokenClass):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidIdentity),
		errors.Is(err, errs.ErrInvalidPurpose),
		errors.Is(err, errs.ErrInvalidAmount),
		errors.Is(err, errs.ErrInvalidMetadata):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(err))
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error(), Code: errs.Code(err)})
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
