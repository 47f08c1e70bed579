package model

// ErrorResponse is the body of every failed escrow request.
// Code carries the stable escrow error name (INSUFFICIENT_BALANCE, ACCOUNT_IN_USE, ...)
// and is empty for malformed requests that never reached the service.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
