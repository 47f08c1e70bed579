package errs

import "errors"

// Ledger and transfer failures surfaced to callers.
var (
	ErrInsufficientBalance = errors.New("insufficient balance for withdrawal")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrAuthorityMismatch   = errors.New("capability does not match custody address")
	ErrMissingSignature    = errors.New("missing required signature")
)

// ErrDerivationDrift means a cached proof index disagrees with a freshly derived one.
// It is an internal invariant violation, never a user error.
var ErrDerivationDrift = errors.New("derivation drift: cached proof index differs from derived index")

// Input and lookup failures.
var (
	ErrInvalidIdentity   = errors.New("invalid user identity")
	ErrInvalidPurpose    = errors.New("invalid purpose tag")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidMetadata   = errors.New("invalid token metadata")
	ErrAlreadyExists     = errors.New("account already exists")
	ErrAccountInUse      = errors.New("account is owned by another program or already funded")
	ErrRecordNotFound    = errors.New("balance record not found")
	ErrUnknownTokenClass = errors.New("unknown token class")
	ErrCorruptAccount    = errors.New("account data is corrupt")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrInsufficientBalance, "INSUFFICIENT_BALANCE"},
	{ErrInsufficientFunds, "INSUFFICIENT_FUNDS"},
	{ErrArithmeticOverflow, "ARITHMETIC_OVERFLOW"},
	{ErrAuthorityMismatch, "AUTHORITY_MISMATCH"},
	{ErrMissingSignature, "MISSING_SIGNATURE"},
	{ErrDerivationDrift, "DERIVATION_DRIFT"},
	{ErrInvalidIdentity, "INVALID_IDENTITY"},
	{ErrInvalidPurpose, "INVALID_PURPOSE"},
	{ErrInvalidAmount, "INVALID_AMOUNT"},
	{ErrInvalidMetadata, "INVALID_METADATA"},
	{ErrAlreadyExists, "ALREADY_EXISTS"},
	{ErrAccountInUse, "ACCOUNT_IN_USE"},
	{ErrRecordNotFound, "RECORD_NOT_FOUND"},
	{ErrUnknownTokenClass, "UNKNOWN_TOKEN_CLASS"},
	{ErrCorruptAccount, "CORRUPT_ACCOUNT"},
}

// Code returns the stable API code for err, or "INTERNAL" when err is not part of the taxonomy.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "INTERNAL"
}

// IsFatal reports whether err indicates a broken invariant rather than a rejected request.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDerivationDrift) || errors.Is(err, ErrCorruptAccount)
}
