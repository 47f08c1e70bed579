package model

// BalanceResponse represents response for GET /escrow/balance
type BalanceResponse struct {
	User     string `json:"user"`
	Kind     string `json:"kind"`
	Custody  string `json:"custody"`
	State    string `json:"state"`
	Balance  string `json:"balance"` // base units
	Display  string `json:"display"` // balance with decimal point
	Currency string `json:"currency"`
	Decimals uint8  `json:"decimals"`
	Rate     string `json:"rate,omitempty"`  // native kind, when a price source is configured
	Value    string `json:"value,omitempty"` // Display * Rate
	Quote    string `json:"quote,omitempty"`
}

// AuditEntry compares what one custody address owes with what it holds
type AuditEntry struct {
	Kind       string  `json:"kind"`
	Custody    string  `json:"custody"`
	Recorded   string  `json:"recorded"`
	Held       string  `json:"held"`
	Consistent bool    `json:"consistent"`
	ChainHeld  *string `json:"chainHeld,omitempty"` // when an RPC endpoint is configured
	ChainError string  `json:"chainError,omitempty"`
}

// AuditResponse represents response for GET /escrow/audit
type AuditResponse struct {
	User    string       `json:"user"`
	Entries []AuditEntry `json:"entries"`
}
