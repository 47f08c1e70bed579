package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinGeckoGetRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "solana", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		fmt.Fprint(w, `{"solana":{"usd":142.37}}`)
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL + "/")
	rate, err := c.GetSOLRate(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, "142.37", rate.String())

	_, err = c.GetRate(context.Background(), "solana", "eur")
	assert.Error(t, err)
}

func TestCoinGeckoStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewCoinGeckoClient(srv.URL).GetSOLRate(context.Background(), "usd")
	assert.ErrorContains(t, err, "status 429")
}

type rpcRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func newRPCServer(t *testing.T, handle func(method string) (interface{}, *rpcError)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req rpcRequest
		require.NoError(t, json.Unmarshal(body, &req))

		result, rpcErr := handle(req.Method)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": 1}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func TestSolanaClientBalances(t *testing.T) {
	srv := newRPCServer(t, func(method string) (interface{}, *rpcError) {
		switch method {
		case "getBalance":
			return map[string]interface{}{"context": map[string]int{"slot": 1}, "value": 1500}, nil
		case "getTokenAccountBalance":
			return map[string]interface{}{
				"context": map[string]int{"slot": 1},
				"value":   map[string]interface{}{"amount": "100", "decimals": 6, "uiAmountString": "0.0001"},
			}, nil
		}
		return nil, &rpcError{Code: -32601, Message: "method not found"}
	})

	c, err := NewSolanaClient(srv.URL)
	require.NoError(t, err)

	lamports, err := c.NativeBalance(context.Background(), solana.SystemProgramID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), lamports)

	amount, err := c.TokenBalance(context.Background(), solana.SystemProgramID, solana.TokenProgramID)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), amount)
}

func TestSolanaClientMissingTokenAccount(t *testing.T) {
	srv := newRPCServer(t, func(string) (interface{}, *rpcError) {
		return nil, &rpcError{Code: -32602, Message: "Invalid param: could not find account"}
	})

	c, err := NewSolanaClient(srv.URL)
	require.NoError(t, err)

	amount, err := c.TokenBalance(context.Background(), solana.SystemProgramID, solana.TokenProgramID)
	require.NoError(t, err)
	assert.Zero(t, amount)
}

func TestNewSolanaClientRequiresURL(t *testing.T) {
	_, err := NewSolanaClient(" ")
	assert.Error(t, err)
}

func TestIsATANotFoundError(t *testing.T) {
	assert.False(t, isATANotFoundError(nil))
	assert.True(t, isATANotFoundError(errors.New("could not find account")))
	assert.False(t, isATANotFoundError(errors.New("connection refused")))
}
