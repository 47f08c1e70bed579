package model

// CreateTokenRequest represents request for POST /escrow/token/create
type CreateTokenRequest struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	URI      string `json:"uri"`
	Decimals uint8  `json:"decimals"`
}

// TokenClassResponse represents the system token class
type TokenClassResponse struct {
	Mint     string `json:"mint"`
	Metadata string `json:"metadata"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	URI      string `json:"uri"`
	Decimals uint8  `json:"decimals"`
	Supply   string `json:"supply"`
}

// MintRequest represents request for POST /escrow/token/mint
type MintRequest struct {
	Mint        string `json:"mint"`
	Amount      string `json:"amount"` // base units
	Destination string `json:"destination"`
}

// MintResponse represents response for POST /escrow/token/mint
type MintResponse struct {
	Mint         string `json:"mint"`
	Destination  string `json:"destination"`
	TokenAccount string `json:"tokenAccount"`
	Amount       string `json:"amount"`
	Held         string `json:"held"` // destination token account after the mint
	Supply       string `json:"supply"`
}

// AddressResponse represents response for GET /escrow/address
type AddressResponse struct {
	User         string `json:"user"`
	Kind         string `json:"kind"`
	Custody      string `json:"custody"`
	ProofIndex   uint8  `json:"proofIndex"`
	TokenAccount string `json:"tokenAccount,omitempty"` // token kind, once the token class exists
	QRCode       string `json:"qrCode"`                 // base64 PNG of the custody address
}
