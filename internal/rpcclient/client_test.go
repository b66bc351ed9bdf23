package rpcclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ckb-tps-bench/bench/pkg/types"
)

// newTestServer returns an httptest server that replies to any JSON-RPC
// call with result, and a Client pointed at it.
func newTestServer(t *testing.T, result interface{}) (*Client, *httptest.Server) {
	t.Helper()
	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req types.RPCRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		resp := types.RPCResponse{JSONRPC: "2.0", Result: raw, ID: req.ID}
		json.NewEncoder(w).Encode(resp)
	}))
	return New(srv.URL), srv
}

func TestClient_Call_Success(t *testing.T) {
	c, srv := newTestServer(t, types.Uint64(42))
	defer srv.Close()

	var got types.Uint64
	if err := c.Call("get_tip_block_number", nil, &got); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}

func TestClient_Call_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req types.RPCRequest
		json.NewDecoder(r.Body).Decode(&req)
		resp := types.RPCResponse{
			JSONRPC: "2.0",
			Error:   &types.RPCError{Code: -32000, Message: "PoolIsFull: transaction pool exceeded maximum size limit"},
			ID:      req.ID,
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Call("send_transaction", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsPoolFull(err) {
		t.Errorf("expected IsPoolFull(err) to be true, got false for %v", err)
	}
}

func TestClient_BasicAuth(t *testing.T) {
	t.Setenv("CKB_STAGING_USERNAME", "alice")
	t.Setenv("CKB_STAGING_PASSWORD", "hunter2")

	var gotUser, gotPass string
	var gotOK bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotOK = r.BasicAuth()
		var req types.RPCRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(types.RPCResponse{JSONRPC: "2.0", ID: req.ID})
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Call("get_tip_header", nil, nil); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !gotOK || gotUser != "alice" || gotPass != "hunter2" {
		t.Errorf("basic auth not sent correctly: ok=%v user=%q pass=%q", gotOK, gotUser, gotPass)
	}
}

func TestClient_NoAuthWhenCredentialsEmpty(t *testing.T) {
	var gotOK bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, gotOK = r.BasicAuth()
		var req types.RPCRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(types.RPCResponse{JSONRPC: "2.0", ID: req.ID})
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Call("get_tip_header", nil, nil); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if gotOK {
		t.Error("basic auth should not be sent when credentials are unset")
	}
}

func TestIsPoolFull(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&types.RPCError{Message: "PoolIsFull"}, true},
		{&types.RPCError{Message: "TransactionPoolFull"}, true},
		{&types.RPCError{Message: "some other error"}, false},
	}
	for _, tt := range tests {
		if got := IsPoolFull(tt.err); got != tt.want {
			t.Errorf("IsPoolFull(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestGetHeaderByNumber_Missing(t *testing.T) {
	c, srv := newTestServer(t, nil)
	defer srv.Close()

	h, err := c.GetHeaderByNumber(999)
	if err != nil {
		t.Fatalf("GetHeaderByNumber: %v", err)
	}
	if h != nil {
		t.Errorf("expected nil header for missing block, got %+v", h)
	}
}
